package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/erp/magento-sync/internal/domain/catalog"
	"github.com/erp/magento-sync/internal/domain/shared"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{}, &catalog.BOM{}, &catalog.BOMComponent{},
		&catalog.Currency{}, &catalog.Carrier{}, &catalog.Tax{},
	)
	require.NoError(t, err)
	return db
}

func TestGormProductRepository_CreateAndFind(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := catalog.NewProduct("SKU-001", "Widget", catalog.ProductTypeSimple)
	magentoID := int64(9001)
	p.MagentoProductID = &magentoID
	p.ListPrice = decimal.NewFromFloat(19.99)
	require.NoError(t, repo.Create(ctx, p))

	found, err := repo.FindBySKU(ctx, "SKU-001")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, "Widget", found.Name)
	require.NotNil(t, found.MagentoProductID)
	assert.Equal(t, int64(9001), *found.MagentoProductID)

	byID, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-001", byID.SKU)

	_, err = repo.FindBySKU(ctx, "SKU-404")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_Create_DuplicateSKU(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, catalog.NewProduct("SKU-001", "Widget", "")))
	err := repo.Create(ctx, catalog.NewProduct("SKU-001", "Widget again", ""))

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormBOMRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormBOMRepository(db)
	ctx := context.Background()
	outputID := uuid.New()

	exists, err := repo.ExistsForProduct(ctx, outputID)
	require.NoError(t, err)
	assert.False(t, exists)

	b := catalog.NewBOM(outputID)
	b.AddComponent(uuid.New(), decimal.NewFromInt(2))
	b.AddComponent(uuid.New(), decimal.NewFromInt(1))
	require.NoError(t, repo.Create(ctx, b))

	exists, err = repo.ExistsForProduct(ctx, outputID)
	require.NoError(t, err)
	assert.True(t, exists)

	// One BOM per output product
	err = repo.Create(ctx, catalog.NewBOM(outputID))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormCurrencyRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormCurrencyRepository(db)
	ctx := context.Background()

	_, err := repo.FindByCode(ctx, "EUR")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	cur := &catalog.Currency{BaseEntity: shared.NewBaseEntity(), Code: "EUR", Name: "Euro"}
	require.NoError(t, repo.Create(ctx, cur))

	found, err := repo.FindByCode(ctx, "EUR")
	require.NoError(t, err)
	assert.Equal(t, cur.ID, found.ID)

	err = repo.Create(ctx, &catalog.Currency{BaseEntity: shared.NewBaseEntity(), Code: "EUR", Name: "Euro again"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormTaxRepository(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormTaxRepository(db)
	ctx := context.Background()
	rate := decimal.NewFromFloat(0.085)

	_, err := repo.FindByRate(ctx, rate)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.Create(ctx, catalog.NewTax("8.5%", rate)))

	taxes, err := repo.FindByRate(ctx, rate)
	require.NoError(t, err)
	require.Len(t, taxes, 1)
	assert.Equal(t, "8.5%", taxes[0].Name)
}

func TestGormCarrierRepository_FindByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewGormCarrierRepository(db)
	ctx := context.Background()

	carrier := &catalog.Carrier{BaseAggregateRoot: shared.NewBaseAggregateRoot(), Name: "United Parcel Service"}
	require.NoError(t, db.Create(carrier).Error)

	found, err := repo.FindByID(ctx, carrier.ID)
	require.NoError(t, err)
	assert.Equal(t, "United Parcel Service", found.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
