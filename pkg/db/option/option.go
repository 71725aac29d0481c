package option

import (
	"strings"

	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultSortColumn = "created_at"

// QueryOption mutates a gorm statement before it is executed.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type queryOptionFunc func(db *gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// Sort is a whitelisted ORDER BY column.
type Sort struct {
	Column string
	Desc   bool
}

// WithQuerySortBy resolves user supplied sort parameters against allowed columns.
// Unknown columns fall back to created_at; unknown directions fall back to desc.
func WithQuerySortBy(sortBy, orderBy string, allowed map[string]bool) Sort {
	column := strings.ToLower(strings.TrimSpace(sortBy))
	if !allowed[column] {
		column = defaultSortColumn
	}
	return Sort{
		Column: column,
		Desc:   !strings.EqualFold(strings.TrimSpace(orderBy), "asc"),
	}
}

func WithSortBy(sort Sort) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if sort.Column == "" {
			return db
		}
		return db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: sort.Column},
			Desc:   sort.Desc,
		})
	})
}

func WithPagination(p pagination.Pagination) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		p = p.Normalize()
		return db.Offset(p.Offset()).Limit(p.PageSize)
	})
}

// WithSearch adds a case-insensitive substring match over the given columns.
func WithSearch(term string, columns ...string) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + term + "%"
		conds := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, column := range columns {
			conds = append(conds, "LOWER("+column+") LIKE ?")
			args = append(args, like)
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	})
}

func Apply(db *gorm.DB, opts ...QueryOption) *gorm.DB {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		db = opt.Apply(db)
	}
	return db
}
