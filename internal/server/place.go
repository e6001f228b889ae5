package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	placedomain "github.com/khasm-app/khasm/internal/place/domain"
)

type createPlaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type updatePlaceRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

func (s *Server) ListPlaces(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active_only"))

	places, err := s.placeSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": places})
}

func (s *Server) CreatePlace(c *gin.Context) {
	var req createPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	place, err := s.placeSvc.Create(c.Request.Context(), placedomain.CreatePlaceRequest{
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.storeGroups.Invalidate()
	s.audit(c, "place.create", "place", place.ID.String(), map[string]any{"name": place.Name})

	c.JSON(http.StatusCreated, gin.H{"data": place})
}

func (s *Server) GetPlaceByID(c *gin.Context) {
	place, err := s.placeSvc.GetByID(c.Request.Context(), placedomain.GetPlaceRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": place})
}

func (s *Server) UpdatePlace(c *gin.Context) {
	var req updatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	place, err := s.placeSvc.Update(c.Request.Context(), placedomain.UpdatePlaceRequest{
		ID:       c.Param("id"),
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.storeGroups.Invalidate()
	s.audit(c, "place.update", "place", place.ID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": place})
}

func (s *Server) DeletePlace(c *gin.Context) {
	err := s.placeSvc.Delete(c.Request.Context(), placedomain.GetPlaceRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.storeGroups.Invalidate()
	s.audit(c, "place.delete", "place", c.Param("id"), nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
