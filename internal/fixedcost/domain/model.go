package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OverheadPlaces is the precision overheadPerUnit is stored with.
const OverheadPlaces = 4

type FixedCost struct {
	ID                      int64           `gorm:"primaryKey;autoIncrement:false"`
	Code                    *string         `gorm:"type:varchar(50);uniqueIndex:ux_fixed_costs_code"`
	Description             string          `gorm:"type:text;not null"`
	PersonnelExpenses       decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	GeneralExpenses         decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	ProLabore               decimal.Decimal `gorm:"column:pro_labore;type:numeric(18,4);not null"`
	Depreciation            decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	ConsiderationPercentage decimal.Decimal `gorm:"type:numeric(9,4);not null"`
	SalesVolume             decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	TotalCost               decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	OverheadPerUnit         decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	CreatedAt               time.Time       `gorm:"not null"`
	UpdatedAt               time.Time       `gorm:"not null"`
}

func (FixedCost) TableName() string { return "fixed_costs" }

// Recalculate derives TotalCost and OverheadPerUnit from the expense inputs.
func (f *FixedCost) Recalculate() {
	f.TotalCost = f.PersonnelExpenses.
		Add(f.GeneralExpenses).
		Add(f.ProLabore).
		Add(f.Depreciation)
	considered := f.TotalCost.Mul(f.ConsiderationPercentage.Shift(-2))
	f.OverheadPerUnit = considered.DivRound(f.SalesVolume, OverheadPlaces)
}
