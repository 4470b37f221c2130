package channel

import (
	"context"

	"github.com/google/uuid"

	"github.com/erp/magento-sync/internal/domain/shared"
)

// CarrierMapping links a Magento carrier code to a local carrier within one
// channel. The sale of an imported order is assigned the local carrier, and
// tracking exports translate the local carrier back to the Magento code.
type CarrierMapping struct {
	shared.BaseEntity
	ChannelID uuid.UUID
	// Code is the Magento carrier code, the part of the shipping method
	// before the first underscore (e.g. "flatrate" for
	// "flatrate_flatrate").
	Code      string
	Title     string
	CarrierID uuid.UUID
	// ProductID is the service product billed for this carrier's
	// shipping lines, when one is configured.
	ProductID *uuid.UUID
}

// TableName returns the table name for GORM
func (CarrierMapping) TableName() string {
	return "channel_carrier_mappings"
}

// MagentoMapping returns the code/title pair sent to Magento for this
// carrier
func (m *CarrierMapping) MagentoMapping() (code, title string) {
	return m.Code, m.Title
}

// CarrierMappingRepository provides lookup of carrier mappings per channel
type CarrierMappingRepository interface {
	// FindByCode finds a mapping by Magento carrier code.
	// Returns shared.ErrNotFound when no mapping exists.
	FindByCode(ctx context.Context, channelID uuid.UUID, code string) (*CarrierMapping, error)

	// FindByCarrier finds a mapping by local carrier.
	// Returns shared.ErrNotFound when no mapping exists.
	FindByCarrier(ctx context.Context, channelID, carrierID uuid.UUID) (*CarrierMapping, error)

	// Save creates or updates a mapping
	Save(ctx context.Context, mapping *CarrierMapping) error
}

// PaymentGatewayMapping links a Magento payment method name to a local
// payment gateway within one channel
type PaymentGatewayMapping struct {
	shared.BaseEntity
	ChannelID  uuid.UUID
	MethodName string
	GatewayID  uuid.UUID
}

// TableName returns the table name for GORM
func (PaymentGatewayMapping) TableName() string {
	return "channel_gateway_mappings"
}

// GatewayMappingRepository provides lookup of payment gateway mappings per
// channel
type GatewayMappingRepository interface {
	// FindByMethodName finds a mapping by Magento payment method name.
	// Returns shared.ErrNotFound when no mapping exists; an order whose
	// payment method has no mapping is imported without a payment record.
	FindByMethodName(ctx context.Context, channelID uuid.UUID, methodName string) (*PaymentGatewayMapping, error)

	// Save creates or updates a mapping
	Save(ctx context.Context, mapping *PaymentGatewayMapping) error
}

// ChannelRepository persists channels
type ChannelRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Channel, error)
	Save(ctx context.Context, ch *Channel) error
}
