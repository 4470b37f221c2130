package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/erp/magento-sync/internal/domain/catalog"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by local id
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &p, nil
}

// FindBySKU finds a product by SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &p, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure interface compliance
var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormBOMRepository implements catalog.BOMRepository
type GormBOMRepository struct {
	db *gorm.DB
}

// NewGormBOMRepository creates a new GormBOMRepository
func NewGormBOMRepository(db *gorm.DB) *GormBOMRepository {
	return &GormBOMRepository{db: db}
}

// ExistsForProduct reports whether the product already has a BOM
func (r *GormBOMRepository) ExistsForProduct(ctx context.Context, outputProductID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.BOM{}).
		Where("output_product_id = ?", outputProductID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a BOM with its components
func (r *GormBOMRepository) Create(ctx context.Context, b *catalog.BOM) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Components").Create(b).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		for i := range b.Components {
			b.Components[i].BOMID = b.ID
			if err := tx.Create(&b.Components[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure interface compliance
var _ catalog.BOMRepository = (*GormBOMRepository)(nil)

// GormCurrencyRepository implements catalog.CurrencyRepository
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByCode finds a currency by code
func (r *GormCurrencyRepository) FindByCode(ctx context.Context, code string) (*catalog.Currency, error) {
	var c catalog.Currency
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&c).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &c, nil
}

// Create inserts a new currency
func (r *GormCurrencyRepository) Create(ctx context.Context, c *catalog.Currency) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure interface compliance
var _ catalog.CurrencyRepository = (*GormCurrencyRepository)(nil)

// GormCarrierRepository implements catalog.CarrierRepository
type GormCarrierRepository struct {
	db *gorm.DB
}

// NewGormCarrierRepository creates a new GormCarrierRepository
func NewGormCarrierRepository(db *gorm.DB) *GormCarrierRepository {
	return &GormCarrierRepository{db: db}
}

// FindByID finds a carrier by local id
func (r *GormCarrierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Carrier, error) {
	var c catalog.Carrier
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &c, nil
}

// Ensure interface compliance
var _ catalog.CarrierRepository = (*GormCarrierRepository)(nil)

// GormTaxRepository implements catalog.TaxRepository
type GormTaxRepository struct {
	db *gorm.DB
}

// NewGormTaxRepository creates a new GormTaxRepository
func NewGormTaxRepository(db *gorm.DB) *GormTaxRepository {
	return &GormTaxRepository{db: db}
}

// FindByRate finds the taxes matching a fractional rate
func (r *GormTaxRepository) FindByRate(ctx context.Context, rate decimal.Decimal) ([]catalog.Tax, error) {
	var taxes []catalog.Tax
	if err := r.db.WithContext(ctx).Where("rate = ?", rate).Find(&taxes).Error; err != nil {
		return nil, err
	}
	if len(taxes) == 0 {
		return nil, shared.ErrNotFound
	}
	return taxes, nil
}

// Create inserts a new tax
func (r *GormTaxRepository) Create(ctx context.Context, t *catalog.Tax) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure interface compliance
var _ catalog.TaxRepository = (*GormTaxRepository)(nil)
