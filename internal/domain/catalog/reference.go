package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/magento-sync/internal/domain/shared"
)

// Currency is a currency accepted by the system. Orders in a currency
// without a local record are rejected at import time.
type Currency struct {
	shared.BaseEntity
	Code string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (Currency) TableName() string {
	return "currencies"
}

// Carrier is a shipping carrier known locally
type Carrier struct {
	shared.BaseAggregateRoot
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (Carrier) TableName() string {
	return "carriers"
}

// Tax is a percentage tax definition. The rate is stored as a fraction
// (0.085 for 8.5%) and is unique; imports reuse the record matching an
// order line's rate.
type Tax struct {
	shared.BaseAggregateRoot
	Name string          `gorm:"type:varchar(100);not null"`
	Rate decimal.Decimal `gorm:"type:decimal(10,6);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Tax) TableName() string {
	return "taxes"
}

// NewTax creates a tax with the given fractional rate
func NewTax(name string, rate decimal.Decimal) *Tax {
	return &Tax{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Rate:              rate,
	}
}

// CurrencyRepository is the persistence port for currencies
type CurrencyRepository interface {
	// FindByCode returns the currency with the given code, or
	// shared.ErrNotFound
	FindByCode(ctx context.Context, code string) (*Currency, error)

	Create(ctx context.Context, c *Currency) error
}

// CarrierRepository is the persistence port for carriers
type CarrierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Carrier, error)
}

// TaxRepository is the persistence port for taxes
type TaxRepository interface {
	// FindByRate returns the taxes matching a fractional rate. An empty
	// result is shared.ErrNotFound.
	FindByRate(ctx context.Context, rate decimal.Decimal) ([]Tax, error)

	Create(ctx context.Context, t *Tax) error
}
