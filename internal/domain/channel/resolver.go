package channel

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/magento-sync/internal/domain/magento"
)

// ProductRef is a resolved local product reference
type ProductRef struct {
	ID   uuid.UUID
	Name string
}

// TaxRef is a resolved local tax definition
type TaxRef struct {
	ID   uuid.UUID
	Rate decimal.Decimal
}

// PartyResolver finds or creates local parties from Magento customer data
type PartyResolver interface {
	// FindOrCreateByMagentoID finds or creates the party mapped to a
	// Magento customer id. The name and email fill the party record on
	// first creation only.
	FindOrCreateByMagentoID(ctx context.Context, ch *Channel, magentoCustomerID int64, firstname, lastname, email string) (uuid.UUID, error)

	// CreateGuest creates a party for a guest checkout. Guest parties
	// carry the sentinel Magento customer id 0.
	CreateGuest(ctx context.Context, ch *Channel, firstname, lastname, email string) (uuid.UUID, error)
}

// AddressResolver finds or creates party addresses from Magento address
// fragments
type AddressResolver interface {
	FindOrCreateForParty(ctx context.Context, partyID uuid.UUID, addr *magento.AddressData) (uuid.UUID, error)
}

// CurrencyResolver resolves local currencies by Magento currency code
type CurrencyResolver interface {
	// ResolveByCode returns the local currency for a Magento currency
	// code. Returns shared.ErrNotFound when the code is unknown.
	ResolveByCode(ctx context.Context, code string) (uuid.UUID, error)
}

// ProductResolver resolves local products by Magento SKU through the
// channel's product catalog. A missing remote product surfaces as a
// magento.Fault with code 101.
type ProductResolver interface {
	ResolveBySKU(ctx context.Context, ch *Channel, sku string) (*ProductRef, error)
}

// TaxResolver finds or creates tax definitions for a fractional rate
// (e.g. 0.085 for an 8.5% tax)
type TaxResolver interface {
	ResolveByRate(ctx context.Context, ch *Channel, rate decimal.Decimal) ([]TaxRef, error)
}

// CarrierResolver exposes the display name of a local carrier, used as the
// fallback carrier title when exporting tracking info without a mapping
type CarrierResolver interface {
	DisplayName(ctx context.Context, carrierID uuid.UUID) (string, error)
}

// BOMResolver finds or creates bills of materials for the bundle products
// of an order payload. Called once per import as a side effect; orders
// without bundle items are a no-op.
type BOMResolver interface {
	ResolveBundles(ctx context.Context, ch *Channel, order *magento.OrderData) error
}
