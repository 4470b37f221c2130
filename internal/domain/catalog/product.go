package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/magento-sync/internal/domain/shared"
)

// Product type codes as Magento reports them
const (
	ProductTypeSimple       = "simple"
	ProductTypeConfigurable = "configurable"
	ProductTypeBundle       = "bundle"
)

// Product is a catalog product. Products imported from a channel keep the
// Magento product id for cross-referencing; locally created products leave
// it nil.
type Product struct {
	shared.BaseAggregateRoot
	SKU              string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name             string          `gorm:"type:varchar(200);not null"`
	Description      string          `gorm:"type:text"`
	Type             string          `gorm:"type:varchar(30);not null;default:'simple'"`
	ListPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MagentoProductID *int64          `gorm:"index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product
func NewProduct(sku, name, productType string) *Product {
	if productType == "" {
		productType = ProductTypeSimple
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Type:              productType,
	}
}

// BOM is a bill of materials describing the component products of a
// bundle. One product has at most one BOM.
type BOM struct {
	shared.BaseAggregateRoot
	OutputProductID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Components      []BOMComponent `gorm:"foreignKey:BOMID"`
}

// TableName returns the table name for GORM
func (BOM) TableName() string {
	return "boms"
}

// BOMComponent is one input line of a BOM
type BOMComponent struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BOMID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (BOMComponent) TableName() string {
	return "bom_components"
}

// NewBOM creates a BOM for the given output product
func NewBOM(outputProductID uuid.UUID) *BOM {
	return &BOM{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OutputProductID:   outputProductID,
	}
}

// AddComponent appends an input line
func (b *BOM) AddComponent(productID uuid.UUID, quantity decimal.Decimal) {
	b.Components = append(b.Components, BOMComponent{
		ID:        uuid.New(),
		BOMID:     b.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// ProductRepository is the persistence port for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU returns the product with the given SKU, or
	// shared.ErrNotFound
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	Create(ctx context.Context, p *Product) error
}

// BOMRepository is the persistence port for bills of materials
type BOMRepository interface {
	// ExistsForProduct reports whether the product already has a BOM
	ExistsForProduct(ctx context.Context, outputProductID uuid.UUID) (bool, error)

	Create(ctx context.Context, b *BOM) error
}
