package sale

import (
	"context"

	"github.com/google/uuid"
)

// SaleRepository persists sales and their lines
type SaleRepository interface {
	// FindByID finds a sale with its lines by local id
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByMagentoID finds the sale imported from the given Magento
	// order within a channel. Returns shared.ErrNotFound when the order
	// was never imported.
	FindByMagentoID(ctx context.Context, channelID uuid.UUID, magentoID int64) (*Sale, error)

	// FindByChannelIdentifier finds a sale by Magento increment id
	// within a channel. Returns shared.ErrNotFound when absent.
	FindByChannelIdentifier(ctx context.Context, channelID uuid.UUID, incrementID string) (*Sale, error)

	// Create inserts a new sale header. A duplicate (magento id,
	// channel) pair surfaces as shared.ErrAlreadyExists, never as a
	// second row.
	Create(ctx context.Context, s *Sale) error

	// Save updates a sale together with its lines
	Save(ctx context.Context, s *Sale) error
}

// ChannelExceptionRepository persists quarantine records
type ChannelExceptionRepository interface {
	// Create inserts a new exception
	Create(ctx context.Context, exc *ChannelException) error

	// HasUnresolvedForSale reports whether any unresolved exception is
	// attached to the sale
	HasUnresolvedForSale(ctx context.Context, saleID uuid.UUID) (bool, error)

	// FindBySale lists all exceptions attached to a sale
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]ChannelException, error)

	// Save updates an exception (e.g. after manual resolution)
	Save(ctx context.Context, exc *ChannelException) error
}

// PaymentRepository persists sale payments
type PaymentRepository interface {
	// Create inserts a payment with its transactions
	Create(ctx context.Context, p *SalePayment) error

	// FindBySale lists payments of a sale
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]SalePayment, error)
}

// ShipmentRepository persists shipments
type ShipmentRepository interface {
	// FindByID finds a shipment by local id
	FindByID(ctx context.Context, id uuid.UUID) (*Shipment, error)

	// FindBySale lists the shipments of a sale
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Shipment, error)

	// Save creates or updates a shipment
	Save(ctx context.Context, sh *Shipment) error
}
