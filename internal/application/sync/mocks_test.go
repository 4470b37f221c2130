package sync

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/erp/magento-sync/internal/domain/catalog"
	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/magento"
	"github.com/erp/magento-sync/internal/domain/partner"
	"github.com/erp/magento-sync/internal/domain/sale"
)

// MockSaleRepository is a mock implementation of sale.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByMagentoID(ctx context.Context, channelID uuid.UUID, magentoID int64) (*sale.Sale, error) {
	args := m.Called(ctx, channelID, magentoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByChannelIdentifier(ctx context.Context, channelID uuid.UUID, incrementID string) (*sale.Sale, error) {
	args := m.Called(ctx, channelID, incrementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockSaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockChannelExceptionRepository is a mock implementation of
// sale.ChannelExceptionRepository
type MockChannelExceptionRepository struct {
	mock.Mock
}

func (m *MockChannelExceptionRepository) Create(ctx context.Context, exc *sale.ChannelException) error {
	args := m.Called(ctx, exc)
	return args.Error(0)
}

func (m *MockChannelExceptionRepository) HasUnresolvedForSale(ctx context.Context, saleID uuid.UUID) (bool, error) {
	args := m.Called(ctx, saleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChannelExceptionRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]sale.ChannelException, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).([]sale.ChannelException), args.Error(1)
}

func (m *MockChannelExceptionRepository) Save(ctx context.Context, exc *sale.ChannelException) error {
	args := m.Called(ctx, exc)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of sale.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *sale.SalePayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]sale.SalePayment, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).([]sale.SalePayment), args.Error(1)
}

// MockShipmentRepository is a mock implementation of sale.ShipmentRepository
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]sale.Shipment, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).([]sale.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) Save(ctx context.Context, sh *sale.Shipment) error {
	args := m.Called(ctx, sh)
	return args.Error(0)
}

// MockGatewayMappingRepository is a mock implementation of
// channel.GatewayMappingRepository
type MockGatewayMappingRepository struct {
	mock.Mock
}

func (m *MockGatewayMappingRepository) FindByMethodName(ctx context.Context, channelID uuid.UUID, methodName string) (*channel.PaymentGatewayMapping, error) {
	args := m.Called(ctx, channelID, methodName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.PaymentGatewayMapping), args.Error(1)
}

func (m *MockGatewayMappingRepository) Save(ctx context.Context, mapping *channel.PaymentGatewayMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

// MockCarrierMappingRepository is a mock implementation of
// channel.CarrierMappingRepository
type MockCarrierMappingRepository struct {
	mock.Mock
}

func (m *MockCarrierMappingRepository) FindByCode(ctx context.Context, channelID uuid.UUID, code string) (*channel.CarrierMapping, error) {
	args := m.Called(ctx, channelID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.CarrierMapping), args.Error(1)
}

func (m *MockCarrierMappingRepository) FindByCarrier(ctx context.Context, channelID, carrierID uuid.UUID) (*channel.CarrierMapping, error) {
	args := m.Called(ctx, channelID, carrierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.CarrierMapping), args.Error(1)
}

func (m *MockCarrierMappingRepository) Save(ctx context.Context, mapping *channel.CarrierMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

// MockPartyResolver is a mock implementation of channel.PartyResolver
type MockPartyResolver struct {
	mock.Mock
}

func (m *MockPartyResolver) FindOrCreateByMagentoID(ctx context.Context, ch *channel.Channel, magentoCustomerID int64, firstname, lastname, email string) (uuid.UUID, error) {
	args := m.Called(ctx, ch, magentoCustomerID, firstname, lastname, email)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockPartyResolver) CreateGuest(ctx context.Context, ch *channel.Channel, firstname, lastname, email string) (uuid.UUID, error) {
	args := m.Called(ctx, ch, firstname, lastname, email)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockAddressResolver is a mock implementation of channel.AddressResolver
type MockAddressResolver struct {
	mock.Mock
}

func (m *MockAddressResolver) FindOrCreateForParty(ctx context.Context, partyID uuid.UUID, addr *magento.AddressData) (uuid.UUID, error) {
	args := m.Called(ctx, partyID, addr)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockCurrencyResolver is a mock implementation of channel.CurrencyResolver
type MockCurrencyResolver struct {
	mock.Mock
}

func (m *MockCurrencyResolver) ResolveByCode(ctx context.Context, code string) (uuid.UUID, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockProductResolver is a mock implementation of channel.ProductResolver
type MockProductResolver struct {
	mock.Mock
}

func (m *MockProductResolver) ResolveBySKU(ctx context.Context, ch *channel.Channel, sku string) (*channel.ProductRef, error) {
	args := m.Called(ctx, ch, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*channel.ProductRef), args.Error(1)
}

// MockTaxResolver is a mock implementation of channel.TaxResolver
type MockTaxResolver struct {
	mock.Mock
}

func (m *MockTaxResolver) ResolveByRate(ctx context.Context, ch *channel.Channel, rate decimal.Decimal) ([]channel.TaxRef, error) {
	args := m.Called(ctx, ch, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]channel.TaxRef), args.Error(1)
}

// MockBOMResolver is a mock implementation of channel.BOMResolver
type MockBOMResolver struct {
	mock.Mock
}

func (m *MockBOMResolver) ResolveBundles(ctx context.Context, ch *channel.Channel, order *magento.OrderData) error {
	args := m.Called(ctx, ch, order)
	return args.Error(0)
}

// MockCarrierResolver is a mock implementation of channel.CarrierResolver
type MockCarrierResolver struct {
	mock.Mock
}

func (m *MockCarrierResolver) DisplayName(ctx context.Context, carrierID uuid.UUID) (string, error) {
	args := m.Called(ctx, carrierID)
	return args.String(0), args.Error(1)
}

// MockClientFactory is a mock implementation of magento.ClientFactory
type MockClientFactory struct {
	mock.Mock
}

func (m *MockClientFactory) OrderClient(creds magento.Credentials) (magento.OrderClient, error) {
	args := m.Called(creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(magento.OrderClient), args.Error(1)
}

func (m *MockClientFactory) ShipmentClient(creds magento.Credentials) (magento.ShipmentClient, error) {
	args := m.Called(creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(magento.ShipmentClient), args.Error(1)
}

func (m *MockClientFactory) ProductClient(creds magento.Credentials) (magento.ProductClient, error) {
	args := m.Called(creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(magento.ProductClient), args.Error(1)
}

// MockOrderClient is a mock implementation of magento.OrderClient
type MockOrderClient struct {
	mock.Mock
}

func (m *MockOrderClient) Info(ctx context.Context, incrementID string) (*magento.OrderData, error) {
	args := m.Called(ctx, incrementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*magento.OrderData), args.Error(1)
}

func (m *MockOrderClient) Cancel(ctx context.Context, incrementID string) error {
	args := m.Called(ctx, incrementID)
	return args.Error(0)
}

func (m *MockOrderClient) AddComment(ctx context.Context, incrementID, comment string) error {
	args := m.Called(ctx, incrementID, comment)
	return args.Error(0)
}

func (m *MockOrderClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockShipmentClient is a mock implementation of magento.ShipmentClient
type MockShipmentClient struct {
	mock.Mock
}

func (m *MockShipmentClient) AddTrack(ctx context.Context, shipmentIncrementID, carrierCode, title, trackingNumber string) (string, error) {
	args := m.Called(ctx, shipmentIncrementID, carrierCode, title, trackingNumber)
	return args.String(0), args.Error(1)
}

func (m *MockShipmentClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockProductClient is a mock implementation of magento.ProductClient
type MockProductClient struct {
	mock.Mock
}

func (m *MockProductClient) Info(ctx context.Context, sku string) (*magento.ProductData, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*magento.ProductData), args.Error(1)
}

func (m *MockProductClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPartyRepository is a mock implementation of partner.PartyRepository
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Party, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Party), args.Error(1)
}

func (m *MockPartyRepository) FindByMagentoCustomerID(ctx context.Context, channelID uuid.UUID, magentoCustomerID int64) (*partner.Party, error) {
	args := m.Called(ctx, channelID, magentoCustomerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Party), args.Error(1)
}

func (m *MockPartyRepository) Create(ctx context.Context, p *partner.Party) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockAddressRepository is a mock implementation of partner.AddressRepository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindMatch(ctx context.Context, partyID uuid.UUID, addr *partner.Address) (*partner.Address, error) {
	args := m.Called(ctx, partyID, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Address), args.Error(1)
}

func (m *MockAddressRepository) Create(ctx context.Context, addr *partner.Address) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockBOMRepository is a mock implementation of catalog.BOMRepository
type MockBOMRepository struct {
	mock.Mock
}

func (m *MockBOMRepository) ExistsForProduct(ctx context.Context, outputProductID uuid.UUID) (bool, error) {
	args := m.Called(ctx, outputProductID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBOMRepository) Create(ctx context.Context, b *catalog.BOM) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// MockCurrencyRepository is a mock implementation of catalog.CurrencyRepository
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindByCode(ctx context.Context, code string) (*catalog.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) Create(ctx context.Context, c *catalog.Currency) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockCarrierRepository is a mock implementation of catalog.CarrierRepository
type MockCarrierRepository struct {
	mock.Mock
}

func (m *MockCarrierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Carrier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Carrier), args.Error(1)
}

// MockTaxRepository is a mock implementation of catalog.TaxRepository
type MockTaxRepository struct {
	mock.Mock
}

func (m *MockTaxRepository) FindByRate(ctx context.Context, rate decimal.Decimal) ([]catalog.Tax, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Tax), args.Error(1)
}

func (m *MockTaxRepository) Create(ctx context.Context, t *catalog.Tax) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
