package server

import (
	"errors"
	"net/http"
	"strings"

	freightdomain "github.com/InteliJR/pricehub/internal/freight/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateFreight(c *gin.Context) {
	var req freightdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.freightSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListFreights(c *gin.Context) {
	query, err := bindListQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.freightSvc.List(c.Request.Context(), freightdomain.ListRequest{
		Search:        query.Search,
		Currency:      strings.TrimSpace(c.Query("currency")),
		OperationType: strings.TrimSpace(c.Query("operation_type")),
		SortBy:        query.SortBy,
		OrderBy:       query.OrderBy,
		Pagination:    query.pagination(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Items, "meta": resp.PageInfo})
}

func (s *Server) GetFreightStatistics(c *gin.Context) {
	stats, err := s.freightSvc.Statistics(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (s *Server) GetFreightByID(c *gin.Context) {
	resp, err := s.freightSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateFreight(c *gin.Context) {
	var req freightdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.freightSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteFreight(c *gin.Context) {
	if err := s.freightSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func isFreightValidationError(err error) bool {
	switch {
	case errors.Is(err, freightdomain.ErrInvalidID),
		errors.Is(err, freightdomain.ErrInvalidName),
		errors.Is(err, freightdomain.ErrInvalidDescription),
		errors.Is(err, freightdomain.ErrInvalidUnitPrice),
		errors.Is(err, freightdomain.ErrInvalidCurrency),
		errors.Is(err, freightdomain.ErrInvalidOriginUF),
		errors.Is(err, freightdomain.ErrInvalidOriginCity),
		errors.Is(err, freightdomain.ErrInvalidDestinationUF),
		errors.Is(err, freightdomain.ErrInvalidDestCity),
		errors.Is(err, freightdomain.ErrInvalidCargoType),
		errors.Is(err, freightdomain.ErrInvalidOperationType),
		errors.Is(err, freightdomain.ErrInvalidTaxName),
		errors.Is(err, freightdomain.ErrInvalidTaxRate):
		return true
	default:
		return false
	}
}
