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

	"github.com/erp/magento-sync/internal/domain/sale"
	"github.com/erp/magento-sync/internal/domain/shared"
)

func setupSaleTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&sale.Sale{}, &sale.SaleLine{}, &sale.SaleLineTax{},
		&sale.ChannelException{}, &sale.SalePayment{}, &sale.PaymentTransaction{},
		&sale.Shipment{},
	)
	require.NoError(t, err)

	// The composite constraint lives in the SQL migrations; recreate it
	// here so duplicate imports are rejected the same way.
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX uq_sales_magento_channel ON sales (magento_id, channel_id) WHERE magento_id IS NOT NULL`,
	).Error)
	return db
}

func newPersistedSale(t *testing.T, repo *GormSaleRepository, channelID uuid.UUID, magentoID int64, incrementID string) *sale.Sale {
	t.Helper()
	mid := magentoID
	s := &sale.Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ChannelID:         channelID,
		MagentoID:         &mid,
		ChannelIdentifier: incrementID,
		Reference:         "MGN-" + incrementID,
		PartyID:           uuid.New(),
		CurrencyID:        uuid.New(),
		Status:            sale.StatusDraft,
	}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestGormSaleRepository_CreateAndFind(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	channelID := uuid.New()

	s := newPersistedSale(t, repo, channelID, 3000000001, "100000001")

	line, err := sale.NewSaleLine(s.ID, "Widget", decimal.NewFromFloat(19.99), decimal.NewFromInt(2), "unit")
	require.NoError(t, err)
	line.AttachTaxes(nil)
	require.NoError(t, s.AddLine(line))
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByMagentoID(ctx, channelID, 3000000001)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Widget", found.Lines[0].Description)

	byIncrement, err := repo.FindByChannelIdentifier(ctx, channelID, "100000001")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byIncrement.ID)

	byID, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "MGN-100000001", byID.Reference)
}

func TestGormSaleRepository_Find_NotFound(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	_, err := repo.FindByMagentoID(ctx, uuid.New(), 999)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByChannelIdentifier(ctx, uuid.New(), "999999999")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSaleRepository_Create_DuplicateOrder(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	channelID := uuid.New()

	newPersistedSale(t, repo, channelID, 3000000001, "100000001")

	magentoID := int64(3000000001)
	dup := &sale.Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ChannelID:         channelID,
		MagentoID:         &magentoID,
		ChannelIdentifier: "100000001",
		Status:            sale.StatusDraft,
	}

	err := repo.Create(ctx, dup)

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormSaleRepository_Create_SameOrderDifferentChannel(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)

	newPersistedSale(t, repo, uuid.New(), 3000000001, "100000001")
	// The same Magento order id in another channel is a distinct sale
	newPersistedSale(t, repo, uuid.New(), 3000000001, "100000001")
}

func TestGormSaleRepository_Create_LocalSalesNeverCollide(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	channelID := uuid.New()

	for i := 0; i < 2; i++ {
		s := &sale.Sale{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			ChannelID:         channelID,
			Status:            sale.StatusDraft,
		}
		assert.NoError(t, repo.Create(ctx, s))
	}
}

func TestGormSaleRepository_Save_RemovesDroppedLines(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	channelID := uuid.New()

	s := newPersistedSale(t, repo, channelID, 3000000001, "100000001")
	for _, name := range []string{"Widget", "Gadget"} {
		line, err := sale.NewSaleLine(s.ID, name, decimal.NewFromInt(10), decimal.NewFromInt(1), "unit")
		require.NoError(t, err)
		require.NoError(t, s.AddLine(line))
	}
	require.NoError(t, repo.Save(ctx, s))

	s.Lines = s.Lines[:1]
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Widget", found.Lines[0].Description)
}

func TestGormChannelExceptionRepository(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormChannelExceptionRepository(db)
	saleRepo := NewGormSaleRepository(db)
	ctx := context.Background()
	channelID := uuid.New()

	s := newPersistedSale(t, saleRepo, channelID, 3000000001, "100000001")

	has, err := repo.HasUnresolvedForSale(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, has)

	exc := sale.NewChannelException(s.ID, channelID, "Product #42 does not exist")
	require.NoError(t, repo.Create(ctx, exc))

	has, err = repo.HasUnresolvedForSale(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, has)

	exc.Resolve()
	require.NoError(t, repo.Save(ctx, exc))

	has, err = repo.HasUnresolvedForSale(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, has)

	excs, err := repo.FindBySale(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, excs, 1)
	assert.True(t, excs[0].Resolved)
}

func TestGormPaymentRepository(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormPaymentRepository(db)
	saleRepo := NewGormSaleRepository(db)
	ctx := context.Background()

	s := newPersistedSale(t, saleRepo, uuid.New(), 3000000001, "100000001")

	p, err := sale.NewSalePayment(s.ID, uuid.New(), 7001, decimal.NewFromFloat(39.98))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	payments, err := repo.FindBySale(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.True(t, decimal.NewFromFloat(39.98).Equal(payments[0].Amount))
	require.Len(t, payments[0].Transactions, 1)
	assert.Equal(t, sale.TransactionStateCompleted, payments[0].Transactions[0].State)
}

func TestGormShipmentRepository(t *testing.T) {
	db := setupSaleTestDB(t)
	repo := NewGormShipmentRepository(db)
	saleRepo := NewGormSaleRepository(db)
	ctx := context.Background()

	s := newPersistedSale(t, saleRepo, uuid.New(), 3000000001, "100000001")

	sh := sale.NewShipment(s.ID)
	require.NoError(t, repo.Save(ctx, sh))

	require.NoError(t, sh.Wait())
	require.NoError(t, repo.Save(ctx, sh))

	found, err := repo.FindByID(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ShipmentStateWaiting, found.State)

	list, err := repo.FindBySale(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sh.ID, list[0].ID)
}
