package sync

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/magento"
	"github.com/erp/magento-sync/internal/domain/sale"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// ErrUnknownCurrency is returned when the order currency code has no local
// counterpart
var ErrUnknownCurrency = shared.NewDomainError("UNKNOWN_CURRENCY", "Order currency code is not configured locally")

// OrderMapper translates a Magento order payload into an unsaved sale
// draft. The draft carries the header only; lines are appended by the
// LineAssembler after the header is persisted.
type OrderMapper struct {
	parties    channel.PartyResolver
	addresses  channel.AddressResolver
	currencies channel.CurrencyResolver
}

// NewOrderMapper creates an OrderMapper
func NewOrderMapper(parties channel.PartyResolver, addresses channel.AddressResolver, currencies channel.CurrencyResolver) *OrderMapper {
	return &OrderMapper{
		parties:    parties,
		addresses:  addresses,
		currencies: currencies,
	}
}

// MapOrder builds an unsaved sale draft from the order payload. The draft
// has an empty line set and draft status.
func (m *OrderMapper) MapOrder(ctx context.Context, ch *channel.Channel, order *magento.OrderData) (*sale.Sale, error) {
	currencyID, err := m.currencies.ResolveByCode(ctx, order.CurrencyCode)
	if err != nil {
		if shared.IsDomainError(err) {
			return nil, ErrUnknownCurrency
		}
		return nil, err
	}

	partyID, err := m.resolveParty(ctx, ch, order)
	if err != nil {
		return nil, err
	}

	var invoiceAddressID uuid.UUID
	if order.BillingAddress != nil {
		invoiceAddressID, err = m.addresses.FindOrCreateForParty(ctx, partyID, order.BillingAddress)
		if err != nil {
			return nil, err
		}
	}

	var shipmentAddressID uuid.UUID
	if order.ShippingAddress != nil {
		shipmentAddressID, err = m.addresses.FindOrCreateForParty(ctx, partyID, order.ShippingAddress)
		if err != nil {
			return nil, err
		}
	}

	wa := ch.WorkflowActionFor(order.State)

	shipmentMethod := wa.ShipmentMethod
	if order.ShippingAddress == nil {
		// No shipping address means no physical shipment (e.g. digital
		// delivery), so the shipment method is forced to manual no
		// matter what the channel mapping says.
		shipmentMethod = channel.ShipmentMethodManual
		shipmentAddressID = invoiceAddressID
	}

	magentoID := order.OrderID
	s := &sale.Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ChannelID:         ch.ID,
		MagentoID:         &magentoID,
		ChannelIdentifier: order.IncrementID,
		Reference:         ch.OrderPrefix + order.IncrementID,
		SaleDate:          saleDateOf(order.CreatedAt),
		PartyID:           partyID,
		CurrencyID:        currencyID,
		InvoiceAddressID:  invoiceAddressID,
		ShipmentAddressID: shipmentAddressID,
		InvoiceMethod:     wa.InvoiceMethod,
		ShipmentMethod:    shipmentMethod,
		Status:            sale.StatusDraft,
		Lines:             make([]sale.SaleLine, 0),
	}
	return s, nil
}

// resolveParty finds or creates the party of the order. Orders without a
// Magento customer id are guest checkouts; the guest name falls back to the
// billing address names when the customer name fields are empty.
func (m *OrderMapper) resolveParty(ctx context.Context, ch *channel.Channel, order *magento.OrderData) (uuid.UUID, error) {
	if order.CustomerID != 0 {
		return m.parties.FindOrCreateByMagentoID(ctx, ch, order.CustomerID,
			order.CustomerFirstname, order.CustomerLastname, order.CustomerEmail)
	}

	firstname := order.CustomerFirstname
	lastname := order.CustomerLastname
	if order.BillingAddress != nil {
		if firstname == "" {
			firstname = order.BillingAddress.Firstname
		}
		if lastname == "" {
			lastname = order.BillingAddress.Lastname
		}
	}
	return m.parties.CreateGuest(ctx, ch, firstname, lastname, order.CustomerEmail)
}

// saleDateOf extracts the date portion of a Magento timestamp
// ("2013-04-08 10:32:12"); the time of day is discarded.
func saleDateOf(createdAt string) time.Time {
	datePart, _, _ := strings.Cut(createdAt, " ")
	t, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return time.Time{}
	}
	return t
}
