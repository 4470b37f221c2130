package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/magento-sync/internal/domain/channel"
)

// GormChannelRepository implements channel.ChannelRepository using GORM
type GormChannelRepository struct {
	db *gorm.DB
}

// NewGormChannelRepository creates a new GormChannelRepository
func NewGormChannelRepository(db *gorm.DB) *GormChannelRepository {
	return &GormChannelRepository{db: db}
}

// FindByID finds a channel by local id
func (r *GormChannelRepository) FindByID(ctx context.Context, id uuid.UUID) (*channel.Channel, error) {
	var ch channel.Channel
	if err := r.db.WithContext(ctx).First(&ch, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &ch, nil
}

// Save creates or updates a channel
func (r *GormChannelRepository) Save(ctx context.Context, ch *channel.Channel) error {
	return r.db.WithContext(ctx).Save(ch).Error
}

// Ensure GormChannelRepository implements ChannelRepository
var _ channel.ChannelRepository = (*GormChannelRepository)(nil)

// GormCarrierMappingRepository implements channel.CarrierMappingRepository
type GormCarrierMappingRepository struct {
	db *gorm.DB
}

// NewGormCarrierMappingRepository creates a new repository
func NewGormCarrierMappingRepository(db *gorm.DB) *GormCarrierMappingRepository {
	return &GormCarrierMappingRepository{db: db}
}

// FindByCode finds a mapping by its Magento carrier code within a channel
func (r *GormCarrierMappingRepository) FindByCode(ctx context.Context, channelID uuid.UUID, code string) (*channel.CarrierMapping, error) {
	var m channel.CarrierMapping
	if err := r.db.WithContext(ctx).
		Where("channel_id = ? AND code = ?", channelID, code).
		First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &m, nil
}

// FindByCarrier finds a mapping by the local carrier id within a channel
func (r *GormCarrierMappingRepository) FindByCarrier(ctx context.Context, channelID uuid.UUID, carrierID uuid.UUID) (*channel.CarrierMapping, error) {
	var m channel.CarrierMapping
	if err := r.db.WithContext(ctx).
		Where("channel_id = ? AND carrier_id = ?", channelID, carrierID).
		First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &m, nil
}

// Save creates or updates a mapping
func (r *GormCarrierMappingRepository) Save(ctx context.Context, m *channel.CarrierMapping) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Ensure interface compliance
var _ channel.CarrierMappingRepository = (*GormCarrierMappingRepository)(nil)

// GormGatewayMappingRepository implements channel.GatewayMappingRepository
type GormGatewayMappingRepository struct {
	db *gorm.DB
}

// NewGormGatewayMappingRepository creates a new repository
func NewGormGatewayMappingRepository(db *gorm.DB) *GormGatewayMappingRepository {
	return &GormGatewayMappingRepository{db: db}
}

// FindByMethodName finds a mapping by Magento payment method name within a
// channel
func (r *GormGatewayMappingRepository) FindByMethodName(ctx context.Context, channelID uuid.UUID, methodName string) (*channel.PaymentGatewayMapping, error) {
	var m channel.PaymentGatewayMapping
	if err := r.db.WithContext(ctx).
		Where("channel_id = ? AND method_name = ?", channelID, methodName).
		First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &m, nil
}

// Save creates or updates a mapping
func (r *GormGatewayMappingRepository) Save(ctx context.Context, m *channel.PaymentGatewayMapping) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Ensure interface compliance
var _ channel.GatewayMappingRepository = (*GormGatewayMappingRepository)(nil)
