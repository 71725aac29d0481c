package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product keeps only the two summary prices of its last calculation.
type Product struct {
	ID                          int64             `gorm:"primaryKey;autoIncrement:false"`
	Code                        string            `gorm:"type:varchar(30);not null;uniqueIndex:ux_products_code"`
	Name                        string            `gorm:"type:varchar(255);not null"`
	Description                 *string           `gorm:"type:text"`
	FixedCostID                 *int64            `gorm:"index"`
	ProductGroupID              *int64            `gorm:"index"`
	CreatedBy                   *string           `gorm:"type:varchar(64)"`
	PriceWithoutTaxesAndFreight decimal.Decimal   `gorm:"type:numeric(18,2);not null"`
	PriceWithTaxesAndFreight    decimal.Decimal   `gorm:"type:numeric(18,2);not null"`
	Metadata                    datatypes.JSONMap
	CreatedAt                   time.Time         `gorm:"not null"`
	UpdatedAt                   time.Time         `gorm:"not null"`

	RawMaterials []ProductRawMaterial `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string { return "products" }

// ProductRawMaterial is one bill-of-materials line; Position keeps request order.
type ProductRawMaterial struct {
	ProductID     int64           `gorm:"primaryKey;autoIncrement:false"`
	RawMaterialID int64           `gorm:"primaryKey;autoIncrement:false;index"`
	Position      int             `gorm:"not null"`
	Quantity      decimal.Decimal `gorm:"type:numeric(18,4);not null"`
}

func (ProductRawMaterial) TableName() string { return "product_raw_materials" }
