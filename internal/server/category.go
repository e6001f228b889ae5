package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	categorydomain "github.com/khasm-app/khasm/internal/category/domain"
)

type createCategoryRequest struct {
	Name   string `json:"name" binding:"required"`
	Letter string `json:"letter" binding:"required"`
}

type updateCategoryRequest struct {
	Name   *string `json:"name"`
	Letter *string `json:"letter"`
}

func (s *Server) ListCategories(c *gin.Context) {
	categories, err := s.categorySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	category, err := s.categorySvc.Create(c.Request.Context(), categorydomain.CreateCategoryRequest{
		Name:   req.Name,
		Letter: req.Letter,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.storeGroups.Invalidate()
	s.audit(c, "category.create", "category", category.ID.String(), map[string]any{"name": category.Name})

	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (s *Server) GetCategoryByID(c *gin.Context) {
	category, err := s.categorySvc.GetByID(c.Request.Context(), categorydomain.GetCategoryRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (s *Server) UpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	category, err := s.categorySvc.Update(c.Request.Context(), categorydomain.UpdateCategoryRequest{
		ID:     c.Param("id"),
		Name:   req.Name,
		Letter: req.Letter,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.storeGroups.Invalidate()
	s.audit(c, "category.update", "category", category.ID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (s *Server) DeleteCategory(c *gin.Context) {
	err := s.categorySvc.Delete(c.Request.Context(), categorydomain.GetCategoryRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.storeGroups.Invalidate()
	s.audit(c, "category.delete", "category", c.Param("id"), nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
