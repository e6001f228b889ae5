package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	userdomain "github.com/khasm-app/khasm/internal/user/domain"
)

type createCustomerRequest struct {
	Name         string `json:"name" binding:"required"`
	MobileNumber string `json:"mobile_number" binding:"required"`
	IDNumber     string `json:"id_number"`
}

type updateCustomerRequest struct {
	Name         *string `json:"name"`
	MobileNumber *string `json:"mobile_number"`
	IDNumber     *string `json:"id_number"`
	IsActive     *bool   `json:"is_active"`
}

func (s *Server) ListCustomers(c *gin.Context) {
	pageSize, _ := strconv.ParseInt(c.Query("page_size"), 10, 32)

	resp, err := s.userSvc.List(c.Request.Context(), userdomain.ListUserRequest{
		PageToken: c.Query("page_token"),
		PageSize:  int32(pageSize),
		Name:      c.Query("name"),
		Mobile:    c.Query("mobile"),
		Role:      userdomain.RoleCustomer,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAdmins(c *gin.Context) {
	resp, err := s.userSvc.List(c.Request.Context(), userdomain.ListUserRequest{
		Role: userdomain.RoleAdmin,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customer, err := s.userSvc.CreateCustomer(c.Request.Context(), userdomain.CreateCustomerRequest{
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
		IDNumber:     req.IDNumber,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customer.create", "customer", customer.ID.String(), map[string]any{
		"name":          req.Name,
		"mobile_number": req.MobileNumber,
	})

	c.JSON(http.StatusCreated, gin.H{"data": customer})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	customer, err := s.userSvc.GetByID(c.Request.Context(), userdomain.GetUserRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customer})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	customer, err := s.userSvc.UpdateCustomer(c.Request.Context(), userdomain.UpdateCustomerRequest{
		ID:           c.Param("id"),
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
		IDNumber:     req.IDNumber,
		IsActive:     req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customer.update", "customer", customer.ID.String(), nil)

	c.JSON(http.StatusOK, gin.H{"data": customer})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	err := s.userSvc.Delete(c.Request.Context(), userdomain.GetUserRequest{
		ID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "customer.delete", "customer", c.Param("id"), nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ListCustomerUsage(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	records, err := s.ledgerSvc.ListByUser(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
