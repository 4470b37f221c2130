package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/magento-sync/internal/domain/partner"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// GormPartyRepository implements partner.PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByID finds a party by local id
func (r *GormPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Party, error) {
	var p partner.Party
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &p, nil
}

// FindByMagentoCustomerID finds the party of a registered Magento customer
// within a channel
func (r *GormPartyRepository) FindByMagentoCustomerID(ctx context.Context, channelID uuid.UUID, magentoCustomerID int64) (*partner.Party, error) {
	var p partner.Party
	if err := r.db.WithContext(ctx).
		Where("channel_id = ? AND magento_customer_id = ?", channelID, magentoCustomerID).
		First(&p).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &p, nil
}

// Create inserts a new party
func (r *GormPartyRepository) Create(ctx context.Context, p *partner.Party) error {
	if err := r.db.WithContext(ctx).Omit("Addresses").Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure interface compliance
var _ partner.PartyRepository = (*GormPartyRepository)(nil)

// GormAddressRepository implements partner.AddressRepository
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindMatch finds an address of the party whose structural fields match
func (r *GormAddressRepository) FindMatch(ctx context.Context, partyID uuid.UUID, addr *partner.Address) (*partner.Address, error) {
	var existing partner.Address
	if err := r.db.WithContext(ctx).
		Where("party_id = ? AND name = ? AND street = ? AND city = ? AND region = ? AND postal_code = ? AND country_id = ? AND phone = ?",
			partyID, addr.Name, addr.Street, addr.City, addr.Region, addr.PostalCode, addr.CountryID, addr.Phone).
		First(&existing).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &existing, nil
}

// Create inserts a new address
func (r *GormAddressRepository) Create(ctx context.Context, addr *partner.Address) error {
	return r.db.WithContext(ctx).Create(addr).Error
}

// Ensure interface compliance
var _ partner.AddressRepository = (*GormAddressRepository)(nil)
