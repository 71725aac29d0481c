package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	rawmaterialdomain "github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateRawMaterial(c *gin.Context) {
	var req rawmaterialdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.rawMaterialSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListRawMaterials(c *gin.Context) {
	query, err := bindListQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.rawMaterialSvc.List(c.Request.Context(), rawmaterialdomain.ListRequest{
		Search:          query.Search,
		MeasurementUnit: strings.TrimSpace(c.Query("measurement_unit")),
		InputGroup:      strings.TrimSpace(c.Query("input_group")),
		SortBy:          query.SortBy,
		OrderBy:         query.OrderBy,
		Pagination:      query.pagination(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Items, "meta": resp.PageInfo})
}

func (s *Server) GetRawMaterialByID(c *gin.Context) {
	resp, err := s.rawMaterialSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateRawMaterial(c *gin.Context) {
	var req rawmaterialdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.rawMaterialSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteRawMaterial(c *gin.Context) {
	if err := s.rawMaterialSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListRawMaterialChangeLogs(c *gin.Context) {
	query, err := bindListQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.rawMaterialSvc.ListChangeLogs(c.Request.Context(), strings.TrimSpace(c.Param("id")), query.pagination())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Items, "meta": resp.PageInfo})
}

func (s *Server) ListRecentRawMaterialChanges(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	items, err := s.rawMaterialSvc.RecentChanges(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func isRawMaterialValidationError(err error) bool {
	switch {
	case errors.Is(err, rawmaterialdomain.ErrInvalidID),
		errors.Is(err, rawmaterialdomain.ErrInvalidCode),
		errors.Is(err, rawmaterialdomain.ErrInvalidName),
		errors.Is(err, rawmaterialdomain.ErrInvalidDescription),
		errors.Is(err, rawmaterialdomain.ErrInvalidMeasurementUnit),
		errors.Is(err, rawmaterialdomain.ErrInvalidInputGroup),
		errors.Is(err, rawmaterialdomain.ErrInvalidPaymentTerm),
		errors.Is(err, rawmaterialdomain.ErrInvalidAcquisitionPrice),
		errors.Is(err, rawmaterialdomain.ErrInvalidCurrency),
		errors.Is(err, rawmaterialdomain.ErrInvalidConvertedPrice),
		errors.Is(err, rawmaterialdomain.ErrInvalidAdditionalCost),
		errors.Is(err, rawmaterialdomain.ErrInvalidFreightID),
		errors.Is(err, rawmaterialdomain.ErrInvalidTaxName),
		errors.Is(err, rawmaterialdomain.ErrInvalidTaxRate):
		return true
	default:
		return false
	}
}
