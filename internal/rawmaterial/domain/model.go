package domain

import (
	"time"

	freightdomain "github.com/InteliJR/pricehub/internal/freight/domain"
	"github.com/shopspring/decimal"
)

type RawMaterial struct {
	ID                int64           `gorm:"primaryKey;autoIncrement:false"`
	Code              string          `gorm:"type:varchar(30);not null;uniqueIndex:ux_raw_materials_code"`
	Name              string          `gorm:"type:varchar(100);not null"`
	Description       *string         `gorm:"type:varchar(500)"`
	MeasurementUnit   string          `gorm:"type:varchar(4);not null"`
	InputGroup        *string         `gorm:"type:varchar(60)"`
	PaymentTerm       int             `gorm:"not null;default:0"`
	AcquisitionPrice  decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Currency          string          `gorm:"type:varchar(3);not null"`
	PriceConvertedBRL decimal.Decimal `gorm:"column:price_converted_brl;type:numeric(18,4);not null"`
	AdditionalCost    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	FreightID         *int64          `gorm:"index"`
	CreatedBy         *string         `gorm:"type:varchar(64)"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`

	TaxItems []TaxItem             `gorm:"foreignKey:RawMaterialID"`
	Freight  *freightdomain.Freight `gorm:"foreignKey:FreightID"`
}

func (RawMaterial) TableName() string { return "raw_materials" }

type TaxItem struct {
	ID            int64           `gorm:"primaryKey;autoIncrement:false"`
	RawMaterialID int64           `gorm:"not null;index"`
	Name          string          `gorm:"type:varchar(40);not null"`
	Rate          decimal.Decimal `gorm:"type:numeric(9,4);not null"`
	Recoverable   bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time       `gorm:"not null"`
}

func (TaxItem) TableName() string { return "raw_material_tax_items" }

// ChangeLog is one field-level edit of a raw material.
type ChangeLog struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false"`
	RawMaterialID int64     `gorm:"not null;index"`
	Field         string    `gorm:"type:varchar(40);not null"`
	OldValue      string    `gorm:"type:text;not null"`
	NewValue      string    `gorm:"type:text;not null"`
	ChangedBy     string    `gorm:"type:varchar(64);not null"`
	ChangedAt     time.Time `gorm:"not null;index"`
}

func (ChangeLog) TableName() string { return "raw_material_change_logs" }
