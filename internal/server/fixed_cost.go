package server

import (
	"errors"
	"net/http"
	"strings"

	fixedcostdomain "github.com/InteliJR/pricehub/internal/fixedcost/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateFixedCost(c *gin.Context) {
	var req fixedcostdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.fixedCostSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListFixedCosts(c *gin.Context) {
	query, err := bindListQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.fixedCostSvc.List(c.Request.Context(), fixedcostdomain.ListRequest{
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

func (s *Server) GetFixedCostByID(c *gin.Context) {
	resp, err := s.fixedCostSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateFixedCost(c *gin.Context) {
	var req fixedcostdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.fixedCostSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteFixedCost(c *gin.Context) {
	resp, err := s.fixedCostSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CalculateFixedCostOverhead(c *gin.Context) {
	var req fixedcostdomain.CalculateOverheadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.fixedCostSvc.CalculateOverhead(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isFixedCostValidationError(err error) bool {
	switch {
	case errors.Is(err, fixedcostdomain.ErrInvalidID),
		errors.Is(err, fixedcostdomain.ErrInvalidCode),
		errors.Is(err, fixedcostdomain.ErrInvalidDescription),
		errors.Is(err, fixedcostdomain.ErrInvalidExpense),
		errors.Is(err, fixedcostdomain.ErrInvalidConsiderationPercentage),
		errors.Is(err, fixedcostdomain.ErrInvalidSalesVolume),
		errors.Is(err, fixedcostdomain.ErrInvalidProductIDs):
		return true
	default:
		return false
	}
}
