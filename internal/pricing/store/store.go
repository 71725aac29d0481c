package store

import (
	"context"

	"github.com/bwmarrin/snowflake"
	fixedcostdomain "github.com/InteliJR/pricehub/internal/fixedcost/domain"
	"github.com/InteliJR/pricehub/internal/pricing/domain"
	rawmaterialdomain "github.com/InteliJR/pricehub/internal/rawmaterial/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	RawMaterials rawmaterialdomain.Repository
	FixedCosts   fixedcostdomain.Repository
}

type rawMaterialStore struct {
	db   *gorm.DB
	repo rawmaterialdomain.Repository
}

func NewRawMaterialStore(p Params) domain.RawMaterialStore {
	return &rawMaterialStore{db: p.DB, repo: p.RawMaterials}
}

func (s *rawMaterialStore) FindRawMaterialsByIDs(ctx context.Context, ids []snowflake.ID) ([]domain.RawMaterialRecord, error) {
	keys := make([]int64, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.Int64())
	}

	items, err := s.repo.FindByIDs(ctx, s.db, keys)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RawMaterialRecord, 0, len(items))
	for i := range items {
		out = append(out, toRecord(&items[i]))
	}
	return out, nil
}

func toRecord(m *rawmaterialdomain.RawMaterial) domain.RawMaterialRecord {
	rec := domain.RawMaterialRecord{
		ID:                snowflake.ID(m.ID),
		Code:              m.Code,
		Name:              m.Name,
		AcquisitionPrice:  m.AcquisitionPrice,
		Currency:          m.Currency,
		PriceConvertedBRL: m.PriceConvertedBRL,
		AdditionalCost:    m.AdditionalCost,
		TaxItems:          make([]domain.TaxItemRecord, 0, len(m.TaxItems)),
	}
	for _, item := range m.TaxItems {
		rec.TaxItems = append(rec.TaxItems, domain.TaxItemRecord{
			ID:          snowflake.ID(item.ID),
			Name:        item.Name,
			Rate:        item.Rate,
			Recoverable: item.Recoverable,
		})
	}
	if m.Freight != nil {
		freight := &domain.FreightRecord{
			ID:        snowflake.ID(m.Freight.ID),
			UnitPrice: m.Freight.UnitPrice,
			Currency:  m.Freight.Currency,
			Taxes:     make([]domain.FreightTaxRecord, 0, len(m.Freight.Taxes)),
		}
		for _, tax := range m.Freight.Taxes {
			freight.Taxes = append(freight.Taxes, domain.FreightTaxRecord{
				ID:   snowflake.ID(tax.ID),
				Name: tax.Name,
				Rate: tax.Rate,
			})
		}
		rec.Freight = freight
	}
	return rec
}

type fixedCostStore struct {
	db   *gorm.DB
	repo fixedcostdomain.Repository
}

func NewFixedCostStore(p Params) domain.FixedCostStore {
	return &fixedCostStore{db: p.DB, repo: p.FixedCosts}
}

func (s *fixedCostStore) FindFixedCostByID(ctx context.Context, id snowflake.ID) (*domain.FixedCostRecord, error) {
	f, err := s.repo.FindByID(ctx, s.db, id.Int64())
	if err != nil || f == nil {
		return nil, err
	}
	return &domain.FixedCostRecord{
		ID:              snowflake.ID(f.ID),
		OverheadPerUnit: f.OverheadPerUnit,
	}, nil
}
