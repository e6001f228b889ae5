package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subscriptiondomain "github.com/khasm-app/khasm/internal/subscription/domain"
)

type createSubscriptionRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type updateSubscriptionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) ListSubscriptions(c *gin.Context) {
	subscriptions, err := s.subscriptionSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subscriptions})
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	subscription, err := s.subscriptionSvc.Create(c.Request.Context(), subscriptiondomain.CreateSubscriptionRequest{
		UserID: req.UserID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "subscription.create", "subscription", subscription.ID.String(), map[string]any{
		"user_id": req.UserID,
	})

	c.JSON(http.StatusCreated, gin.H{"data": subscription})
}

func (s *Server) GetSubscriptionByID(c *gin.Context) {
	subscription, err := s.subscriptionSvc.GetByID(c.Request.Context(), subscriptiondomain.GetSubscriptionRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subscription})
}

func (s *Server) GetSubscriptionByUser(c *gin.Context) {
	subscription, err := s.subscriptionSvc.CurrentByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subscription})
}

func (s *Server) UpdateSubscriptionStatus(c *gin.Context) {
	var req updateSubscriptionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	subscription, err := s.subscriptionSvc.UpdateStatus(c.Request.Context(), subscriptiondomain.UpdateStatusRequest{
		ID:     c.Param("id"),
		Status: req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "subscription.status", "subscription", c.Param("id"), map[string]any{
		"status": req.Status,
	})

	c.JSON(http.StatusOK, gin.H{"data": subscription})
}
