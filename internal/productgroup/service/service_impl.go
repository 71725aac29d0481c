package service

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/InteliJR/pricehub/internal/clock"
	"github.com/InteliJR/pricehub/internal/productgroup/domain"
	"github.com/InteliJR/pricehub/pkg/db"
	"github.com/InteliJR/pricehub/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

// statSorts are derived columns; a page is sorted by them after loading.
var statSorts = map[string]func(domain.Response) decimal.Decimal{
	"volume_percentage_by_quantity": func(r domain.Response) decimal.Decimal { return r.VolumePercentageByQuantity },
	"volume_percentage_by_value":    func(r domain.Response) decimal.Decimal { return r.VolumePercentageByValue },
	"average_price":                 func(r domain.Response) decimal.Decimal { return r.AveragePrice },
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("productgroup.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(req.Description)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrNameConflict
	}

	now := s.clock.Now()
	g := &domain.ProductGroup{
		ID:          s.genID.Generate().Int64(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, s.db, g); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameConflict
		}
		return nil, err
	}

	s.log.Info("product group created", zap.Int64("product_group_id", g.ID), zap.String("name", g.Name))

	resp := toResponse(g, domain.Stats{})
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	page := req.Pagination.Normalize()
	sortBy := strings.ToLower(strings.TrimSpace(req.SortBy))
	orderBy := strings.TrimSpace(req.OrderBy)

	statSort, byStat := statSorts[sortBy]
	filter := domain.ListFilter{
		Search:   strings.TrimSpace(req.Search),
		SortBy:   sortBy,
		OrderBy:  orderBy,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
	if sortBy == "" || byStat {
		filter.SortBy = "name"
		filter.OrderBy = "asc"
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, s.db)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(items))
	for i := range items {
		out = append(out, toResponse(&items[i], stats[items[i].ID]))
	}
	if byStat {
		desc := !strings.EqualFold(orderBy, "asc")
		sort.SliceStable(out, func(i, j int) bool {
			a, b := statSort(out[i]), statSort(out[j])
			if desc {
				return a.GreaterThan(b)
			}
			return a.LessThan(b)
		})
	}
	return &domain.ListResponse{Items: out, PageInfo: pagination.NewPageInfo(page, total)}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	g, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := toResponse(g, stats[g.ID])
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	var resp domain.Response
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := s.load(ctx, tx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name, err := validateName(*req.Name)
			if err != nil {
				return err
			}
			if name != g.Name {
				existing, err := s.repo.FindByName(ctx, tx, name)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != g.ID {
					return domain.ErrNameConflict
				}
			}
			g.Name = name
		}
		if req.Description != nil {
			description, err := validateDescription(req.Description)
			if err != nil {
				return err
			}
			g.Description = description
		}

		g.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, tx, g); err != nil {
			return err
		}

		stats, err := s.stats(ctx, tx)
		if err != nil {
			return err
		}
		resp = toResponse(g, stats[g.ID])
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameConflict
		}
		return nil, err
	}
	return &resp, nil
}

// Delete ungroups the group's products before removing it.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		detached, err := s.repo.DetachProducts(ctx, tx, g.ID, s.clock.Now())
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, g.ID); err != nil {
			return err
		}
		s.log.Info("product group deleted",
			zap.Int64("product_group_id", g.ID),
			zap.Int64("detached_products", detached),
		)
		return nil
	})
}

func (s *Service) stats(ctx context.Context, db *gorm.DB) (map[int64]domain.Stats, error) {
	volumes, err := s.repo.Volumes(ctx, db)
	if err != nil {
		return nil, err
	}
	return domain.ComputeStats(volumes), nil
}

func (s *Service) load(ctx context.Context, db *gorm.DB, id string) (*domain.ProductGroup, error) {
	groupID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	g, err := s.repo.FindByID(ctx, db, groupID.Int64())
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func validateName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", domain.ErrInvalidName
	}
	return name, nil
}

func validateDescription(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	text := strings.TrimSpace(*value)
	if text == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(text) > maxDescriptionLength {
		return nil, domain.ErrInvalidDescription
	}
	return &text, nil
}

func toResponse(g *domain.ProductGroup, stats domain.Stats) domain.Response {
	return domain.Response{
		ID:                         snowflake.ID(g.ID).String(),
		Name:                       g.Name,
		Description:                g.Description,
		ProductsCount:              stats.ProductsCount,
		VolumePercentageByQuantity: stats.VolumePercentageByQuantity,
		VolumePercentageByValue:    stats.VolumePercentageByValue,
		AveragePrice:               stats.AveragePrice,
		CreatedAt:                  g.CreatedAt,
		UpdatedAt:                  g.UpdatedAt,
	}
}
