package server

import (
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	storedomain "github.com/khasm-app/khasm/internal/store/domain"
)

type createStoreRequest struct {
	Name       string  `json:"name" binding:"required"`
	PlaceID    string  `json:"place_id" binding:"required"`
	CategoryID string  `json:"category_id" binding:"required"`
	Discount   float64 `json:"discount"`
}

type updateStoreRequest struct {
	Name       *string  `json:"name"`
	PlaceID    *string  `json:"place_id"`
	CategoryID *string  `json:"category_id"`
	Discount   *float64 `json:"discount"`
	IsActive   *bool    `json:"is_active"`
}

func (s *Server) ListStores(c *gin.Context) {
	filter := storedomain.ListStoreFilter{}
	filter.ActiveOnly, _ = strconv.ParseBool(c.Query("active_only"))

	if raw := c.Query("place_id"); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("place_id", "invalid id"))
			return
		}
		filter.PlaceID = id
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("category_id", "invalid id"))
			return
		}
		filter.CategoryID = id
	}

	stores, err := s.storeSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stores})
}

func (s *Server) CreateStore(c *gin.Context) {
	var req createStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	store, err := s.storeSvc.Create(c.Request.Context(), storedomain.CreateStoreRequest{
		Name:       req.Name,
		PlaceID:    req.PlaceID,
		CategoryID: req.CategoryID,
		Discount:   req.Discount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.storeGroups.Invalidate()
	s.audit(c, "store.create", "store", store.ID.String(), map[string]any{"name": store.Name})

	c.JSON(http.StatusCreated, gin.H{"data": store})
}

func (s *Server) GetStoreByID(c *gin.Context) {
	store, err := s.storeSvc.GetByID(c.Request.Context(), storedomain.GetStoreRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (s *Server) UpdateStore(c *gin.Context) {
	var req updateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	store, err := s.storeSvc.Update(c.Request.Context(), storedomain.UpdateStoreRequest{
		ID:         c.Param("id"),
		Name:       req.Name,
		PlaceID:    req.PlaceID,
		CategoryID: req.CategoryID,
		Discount:   req.Discount,
		IsActive:   req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.storeGroups.Invalidate()
	s.audit(c, "store.update", "store", store.ID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (s *Server) DeleteStore(c *gin.Context) {
	err := s.storeSvc.Delete(c.Request.Context(), storedomain.GetStoreRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.storeGroups.Invalidate()
	s.audit(c, "store.delete", "store", c.Param("id"), nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
