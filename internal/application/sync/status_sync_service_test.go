package sync

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/magento"
	"github.com/erp/magento-sync/internal/domain/sale"
	"github.com/erp/magento-sync/internal/domain/shared"
)

type statusFixture struct {
	sales     *MockSaleRepository
	shipments *MockShipmentRepository
	carriers  *MockCarrierMappingRepository
	names     *MockCarrierResolver
	clients   *MockClientFactory
	service   *StatusSyncService
}

func newStatusFixture() *statusFixture {
	f := &statusFixture{
		sales:     new(MockSaleRepository),
		shipments: new(MockShipmentRepository),
		carriers:  new(MockCarrierMappingRepository),
		names:     new(MockCarrierResolver),
		clients:   new(MockClientFactory),
	}
	f.service = NewStatusSyncService(f.sales, f.shipments, f.carriers, f.names, f.clients, zap.NewNop())
	return f
}

func cancelledSale(ch *channel.Channel) *sale.Sale {
	magentoID := int64(3000000001)
	return &sale.Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ChannelID:         ch.ID,
		MagentoID:         &magentoID,
		ChannelIdentifier: "100000001",
		Status:            sale.StatusCancelled,
	}
}

func TestStatusSyncService_ExportOrderStatus_Cancelled(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	s := cancelledSale(ch)

	client := new(MockOrderClient)
	f.clients.On("OrderClient", ch.Credentials()).Return(client, nil)
	client.On("Cancel", ctx, "100000001").Return(nil)
	client.On("Close").Return(nil)

	err := f.service.ExportOrderStatus(ctx, ch, s)

	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStatusSyncService_ExportOrderStatus_Done(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	s := cancelledSale(ch)
	s.Status = sale.StatusDone

	client := new(MockOrderClient)
	f.clients.On("OrderClient", ch.Credentials()).Return(client, nil)
	client.On("AddComment", ctx, "100000001", "complete").Return(nil)
	client.On("Close").Return(nil)

	err := f.service.ExportOrderStatus(ctx, ch, s)

	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStatusSyncService_ExportOrderStatus_SkipsNonTerminal(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	s := cancelledSale(ch)
	s.Status = sale.StatusProcessing

	err := f.service.ExportOrderStatus(ctx, ch, s)

	assert.NoError(t, err)
	f.clients.AssertNotCalled(t, "OrderClient", mock.Anything)
}

func TestStatusSyncService_ExportOrderStatus_SkipsLocalOnlySale(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	s := cancelledSale(ch)
	s.MagentoID = nil

	err := f.service.ExportOrderStatus(ctx, ch, s)

	assert.NoError(t, err)
	f.clients.AssertNotCalled(t, "OrderClient", mock.Anything)
}

func TestStatusSyncService_ExportOrderStatus_SwallowsStateConflict(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	s := cancelledSale(ch)

	client := new(MockOrderClient)
	f.clients.On("OrderClient", ch.Credentials()).Return(client, nil)
	// The remote order is already terminal; the push is already consistent
	client.On("Cancel", ctx, "100000001").
		Return(magento.NewFault(magento.FaultCodeStateConflict, "Order cannot be canceled."))
	client.On("Close").Return(nil)

	err := f.service.ExportOrderStatus(ctx, ch, s)

	assert.NoError(t, err)
}

func TestStatusSyncService_ExportOrderStatus_PropagatesOtherFaults(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	s := cancelledSale(ch)

	client := new(MockOrderClient)
	f.clients.On("OrderClient", ch.Credentials()).Return(client, nil)
	client.On("Cancel", ctx, "100000001").
		Return(magento.NewFault(magento.FaultCodeNotFound, "Requested order not exists."))
	client.On("Close").Return(nil)

	err := f.service.ExportOrderStatus(ctx, ch, s)

	assert.Error(t, err)
	assert.True(t, magento.IsNotFound(err))
}

func TestStatusSyncService_ExportTrackingInfo(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	carrierID := uuid.New()

	sh := sale.NewShipment(uuid.New())
	sh.MagentoIncrementID = "300000001"
	require.NoError(t, sh.SetTracking(carrierID, "1Z999AA10123456784"))

	f.carriers.On("FindByCarrier", ctx, ch.ID, carrierID).
		Return(&channel.CarrierMapping{
			BaseEntity: shared.NewBaseEntity(),
			Code:       "ups",
			Title:      "United Parcel Service",
			CarrierID:  carrierID,
		}, nil)
	client := new(MockShipmentClient)
	f.clients.On("ShipmentClient", ch.Credentials()).Return(client, nil)
	client.On("AddTrack", ctx, "300000001", "ups", "United Parcel Service", "1Z999AA10123456784").
		Return("300000001", nil)
	client.On("Close").Return(nil)
	f.shipments.On("Save", ctx, sh).Return(nil)

	incrementID, err := f.service.ExportTrackingInfo(ctx, ch, sh)

	require.NoError(t, err)
	assert.Equal(t, "300000001", incrementID)
	assert.True(t, sh.TrackingExported)
	client.AssertExpectations(t)
	f.shipments.AssertExpectations(t)
}

func TestStatusSyncService_ExportTrackingInfo_CustomCarrierFallback(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	carrierID := uuid.New()

	sh := sale.NewShipment(uuid.New())
	sh.MagentoIncrementID = "300000002"
	require.NoError(t, sh.SetTracking(carrierID, "RR123456785DE"))

	f.carriers.On("FindByCarrier", ctx, ch.ID, carrierID).Return(nil, shared.ErrNotFound)
	f.names.On("DisplayName", ctx, carrierID).Return("Deutsche Post", nil)
	client := new(MockShipmentClient)
	f.clients.On("ShipmentClient", ch.Credentials()).Return(client, nil)
	client.On("AddTrack", ctx, "300000002", "custom", "Deutsche Post", "RR123456785DE").
		Return("300000002", nil)
	client.On("Close").Return(nil)
	f.shipments.On("Save", ctx, sh).Return(nil)

	_, err := f.service.ExportTrackingInfo(ctx, ch, sh)

	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestStatusSyncService_ExportTrackingInfo_Precondition(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)

	sh := sale.NewShipment(uuid.New())

	_, err := f.service.ExportTrackingInfo(ctx, ch, sh)

	assert.ErrorIs(t, err, ErrTrackingPrecondition)
	f.clients.AssertNotCalled(t, "ShipmentClient", mock.Anything)
}

func TestStatusSyncService_PullOrderStatus_AdvancesShipments(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	s := cancelledSale(ch)
	s.Status = sale.StatusProcessing

	order := newTestOrder()
	order.Status = "complete"

	draft := *sale.NewShipment(s.ID)
	assigned := *sale.NewShipment(s.ID)
	assigned.State = sale.ShipmentStateAssigned
	f.shipments.On("FindBySale", ctx, s.ID).Return([]sale.Shipment{draft, assigned}, nil)
	f.shipments.On("Save", ctx, mock.AnythingOfType("*sale.Shipment")).Return(nil)

	err := f.service.PullOrderStatus(ctx, ch, s, order)

	require.NoError(t, err)
	// Every shipment catches up to done regardless of its starting state
	f.shipments.AssertNumberOfCalls(t, "Save", 2)
	for _, call := range f.shipments.Calls {
		if call.Method != "Save" {
			continue
		}
		sh := call.Arguments.Get(1).(*sale.Shipment)
		assert.Equal(t, sale.ShipmentStateDone, sh.State)
	}
}

func TestStatusSyncService_PullOrderStatus_IgnoresIncompleteOrder(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	s := cancelledSale(ch)
	s.Status = sale.StatusProcessing

	order := newTestOrder()
	order.Status = "processing"

	err := f.service.PullOrderStatus(ctx, ch, s, order)

	assert.NoError(t, err)
	f.shipments.AssertNotCalled(t, "FindBySale", mock.Anything, mock.Anything)
}

func TestStatusSyncService_PullOrderStatus_FetchesOrderWhenNil(t *testing.T) {
	f := newStatusFixture()
	ctx := context.Background()
	ch := newTestChannel(t)
	s := cancelledSale(ch)
	s.Status = sale.StatusProcessing

	order := newTestOrder()
	order.Status = "complete"

	client := new(MockOrderClient)
	f.clients.On("OrderClient", ch.Credentials()).Return(client, nil)
	client.On("Info", ctx, "100000001").Return(order, nil)
	client.On("Close").Return(nil)
	f.shipments.On("FindBySale", ctx, s.ID).Return([]sale.Shipment{}, nil)

	err := f.service.PullOrderStatus(ctx, ch, s, nil)

	assert.NoError(t, err)
	client.AssertExpectations(t)
}
