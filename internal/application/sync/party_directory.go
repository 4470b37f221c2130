package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/magento"
	"github.com/erp/magento-sync/internal/domain/partner"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// PartyDirectory resolves Magento customers and addresses to local party
// records, creating them on first sight. It implements
// channel.PartyResolver and channel.AddressResolver.
type PartyDirectory struct {
	parties   partner.PartyRepository
	addresses partner.AddressRepository
}

// NewPartyDirectory creates a PartyDirectory
func NewPartyDirectory(parties partner.PartyRepository, addresses partner.AddressRepository) *PartyDirectory {
	return &PartyDirectory{
		parties:   parties,
		addresses: addresses,
	}
}

// FindOrCreateByMagentoID returns the party mapped to a registered Magento
// customer, creating it when absent. A concurrent creation loses the
// insert race and falls back to the winner's record.
func (d *PartyDirectory) FindOrCreateByMagentoID(ctx context.Context, ch *channel.Channel, magentoCustomerID int64, firstname, lastname, email string) (uuid.UUID, error) {
	p, err := d.parties.FindByMagentoCustomerID(ctx, ch.ID, magentoCustomerID)
	if err == nil {
		return p.ID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, err
	}

	created := partner.NewParty(ch.ID, magentoCustomerID, firstname, lastname, email)
	if err := d.parties.Create(ctx, created); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			winner, ferr := d.parties.FindByMagentoCustomerID(ctx, ch.ID, magentoCustomerID)
			if ferr != nil {
				return uuid.Nil, ferr
			}
			return winner.ID, nil
		}
		return uuid.Nil, err
	}
	return created.ID, nil
}

// CreateGuest creates a party for a guest checkout. Guests are never
// deduplicated; every guest order gets a fresh party.
func (d *PartyDirectory) CreateGuest(ctx context.Context, ch *channel.Channel, firstname, lastname, email string) (uuid.UUID, error) {
	p := partner.NewGuestParty(ch.ID, firstname, lastname, email)
	if err := d.parties.Create(ctx, p); err != nil {
		return uuid.Nil, err
	}
	return p.ID, nil
}

// FindOrCreateForParty returns the party address matching the Magento
// address fragment, creating it when no structural match exists
func (d *PartyDirectory) FindOrCreateForParty(ctx context.Context, partyID uuid.UUID, addr *magento.AddressData) (uuid.UUID, error) {
	candidate := &partner.Address{
		BaseEntity: shared.NewBaseEntity(),
		PartyID:    partyID,
		Name:       partner.FullName(addr.Firstname, addr.Lastname),
		Street:     addr.Street,
		City:       addr.City,
		Region:     addr.Region,
		PostalCode: addr.PostalCode,
		CountryID:  addr.CountryID,
		Phone:      addr.Telephone,
	}

	existing, err := d.addresses.FindMatch(ctx, partyID, candidate)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, err
	}

	if err := d.addresses.Create(ctx, candidate); err != nil {
		return uuid.Nil, err
	}
	return candidate.ID, nil
}

var (
	_ channel.PartyResolver   = (*PartyDirectory)(nil)
	_ channel.AddressResolver = (*PartyDirectory)(nil)
)
