package server

import (
	"errors"
	"net/http"
	"strings"

	productgroupdomain "github.com/InteliJR/pricehub/internal/productgroup/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateProductGroup(c *gin.Context) {
	var req productgroupdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.productGroupSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListProductGroups(c *gin.Context) {
	query, err := bindListQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.productGroupSvc.List(c.Request.Context(), productgroupdomain.ListRequest{
		Search:     query.Search,
		SortBy:     query.SortBy,
		OrderBy:    query.OrderBy,
		Pagination: query.pagination(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Items, "meta": resp.PageInfo})
}

func (s *Server) GetProductGroupByID(c *gin.Context) {
	resp, err := s.productGroupSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateProductGroup(c *gin.Context) {
	var req productgroupdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.productGroupSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteProductGroup(c *gin.Context) {
	if err := s.productGroupSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func isProductGroupValidationError(err error) bool {
	switch {
	case errors.Is(err, productgroupdomain.ErrInvalidID),
		errors.Is(err, productgroupdomain.ErrInvalidName),
		errors.Is(err, productgroupdomain.ErrInvalidDescription):
		return true
	default:
		return false
	}
}
