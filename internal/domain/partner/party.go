package partner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/erp/magento-sync/internal/domain/shared"
)

// GuestCustomerID is the sentinel Magento customer id carried by parties
// created from guest checkouts
const GuestCustomerID int64 = 0

// Party is a customer imported from a sales channel. The
// (channel_id, magento_customer_id) pair is unique for registered
// customers; guest parties carry the sentinel id and are never deduplicated.
type Party struct {
	shared.BaseAggregateRoot
	Name              string     `gorm:"type:varchar(200);not null"`
	Email             string     `gorm:"type:varchar(200);index"`
	ChannelID         *uuid.UUID `gorm:"type:uuid;index:idx_party_channel_customer,unique,where:magento_customer_id > 0"`
	MagentoCustomerID int64      `gorm:"not null;default:0;index:idx_party_channel_customer,unique,where:magento_customer_id > 0"`
	Addresses         []Address  `gorm:"foreignKey:PartyID"`
}

// TableName returns the table name for GORM
func (Party) TableName() string {
	return "parties"
}

// NewParty creates a party for a registered Magento customer
func NewParty(channelID uuid.UUID, magentoCustomerID int64, firstname, lastname, email string) *Party {
	name := FullName(firstname, lastname)
	if name == "" {
		name = fmt.Sprintf("Magento customer %d", magentoCustomerID)
	}
	return &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		ChannelID:         &channelID,
		MagentoCustomerID: magentoCustomerID,
	}
}

// NewGuestParty creates a party for a guest checkout
func NewGuestParty(channelID uuid.UUID, firstname, lastname, email string) *Party {
	name := FullName(firstname, lastname)
	if name == "" {
		name = "Guest"
	}
	return &Party{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		ChannelID:         &channelID,
		MagentoCustomerID: GuestCustomerID,
	}
}

// IsGuest reports whether the party came from a guest checkout
func (p *Party) IsGuest() bool {
	return p.MagentoCustomerID == GuestCustomerID
}

// FullName joins the first and last name, tolerating either being empty
func FullName(firstname, lastname string) string {
	return strings.TrimSpace(strings.TrimSpace(firstname) + " " + strings.TrimSpace(lastname))
}

// Address is a postal address attached to a party. Addresses are matched
// structurally on import so repeated orders reuse the same record.
type Address struct {
	shared.BaseEntity
	PartyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(200)"`
	Street     string    `gorm:"type:varchar(255)"`
	City       string    `gorm:"type:varchar(100)"`
	Region     string    `gorm:"type:varchar(100)"`
	PostalCode string    `gorm:"type:varchar(20)"`
	CountryID  string    `gorm:"type:varchar(10)"`
	Phone      string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "party_addresses"
}

// PartyRepository is the persistence port for parties
type PartyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Party, error)

	// FindByMagentoCustomerID returns the party mapped to a registered
	// Magento customer within a channel, or shared.ErrNotFound
	FindByMagentoCustomerID(ctx context.Context, channelID uuid.UUID, magentoCustomerID int64) (*Party, error)

	Create(ctx context.Context, p *Party) error
}

// AddressRepository is the persistence port for party addresses
type AddressRepository interface {
	// FindMatch returns an existing address of the party with the same
	// structural fields, or shared.ErrNotFound
	FindMatch(ctx context.Context, partyID uuid.UUID, addr *Address) (*Address, error)

	Create(ctx context.Context, addr *Address) error
}
