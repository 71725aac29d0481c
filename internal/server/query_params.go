package server

import (
	"strconv"
	"strings"

	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

// listQuery carries the query parameters shared by every list endpoint.
type listQuery struct {
	Search   string `form:"search"`
	SortBy   string `form:"sort_by"`
	OrderBy  string `form:"order_by"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func bindListQuery(c *gin.Context) (listQuery, error) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return listQuery{}, invalidRequestError()
	}
	query.Search = strings.TrimSpace(query.Search)
	query.SortBy = strings.TrimSpace(query.SortBy)
	query.OrderBy = strings.TrimSpace(query.OrderBy)
	return query, nil
}

func (q listQuery) pagination() pagination.Pagination {
	return pagination.Pagination{Page: q.Page, PageSize: q.PageSize}
}

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
