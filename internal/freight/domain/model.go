package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PricePlaces is the stored scale of unit_price.
	PricePlaces = 4
	// RatePlaces is the stored scale of a freight tax rate.
	RatePlaces = 4
)

type Freight struct {
	ID              int64           `gorm:"primaryKey;autoIncrement:false"`
	Name            string          `gorm:"type:varchar(255);not null"`
	Description     *string         `gorm:"type:text"`
	UnitPrice       decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Currency        string          `gorm:"type:varchar(3);not null"`
	OriginUF        string          `gorm:"column:origin_uf;type:varchar(2);not null"`
	OriginCity      string          `gorm:"type:varchar(100);not null"`
	DestinationUF   string          `gorm:"column:destination_uf;type:varchar(2);not null"`
	DestinationCity string          `gorm:"type:varchar(100);not null"`
	CargoType       string          `gorm:"type:varchar(100);not null"`
	OperationType   string          `gorm:"type:varchar(10);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`

	Taxes []FreightTax `gorm:"foreignKey:FreightID;constraint:OnDelete:CASCADE"`
}

func (Freight) TableName() string { return "freights" }

type FreightTax struct {
	ID        int64           `gorm:"primaryKey;autoIncrement:false"`
	FreightID int64           `gorm:"not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Rate      decimal.Decimal `gorm:"type:numeric(9,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

func (FreightTax) TableName() string { return "freight_taxes" }
