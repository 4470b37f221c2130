package magento

import (
	"context"
	"errors"
	"fmt"
)

// Well-known Magento API fault codes. The sales API reports business-level
// failures as numeric fault codes; only these two are interpreted by the
// core, all others propagate untouched.
const (
	// FaultCodeNotFound is returned when the requested entity does not
	// exist on Magento (e.g. a product SKU with no remote counterpart).
	FaultCodeNotFound = 101
	// FaultCodeStateConflict is returned when the order is already in a
	// terminal state or the requested change conflicts with the Magento
	// order workflow.
	FaultCodeStateConflict = 103
)

// Fault is an error reported by the Magento API with a numeric code
type Fault struct {
	Code    int
	Message string
}

// Error implements the error interface
func (f *Fault) Error() string {
	return fmt.Sprintf("magento: fault %d: %s", f.Code, f.Message)
}

// NewFault creates a fault with the given code and message
func NewFault(code int, message string) *Fault {
	return &Fault{Code: code, Message: message}
}

// IsNotFound reports whether err is a Magento fault with the not-found code
func IsNotFound(err error) bool {
	var f *Fault
	return errors.As(err, &f) && f.Code == FaultCodeNotFound
}

// IsStateConflict reports whether err is a Magento fault signalling a
// workflow conflict (order already terminal on the remote side)
func IsStateConflict(err error) bool {
	var f *Fault
	return errors.As(err, &f) && f.Code == FaultCodeStateConflict
}

// Credentials identify one Magento instance and API user
type Credentials struct {
	URL     string
	APIUser string
	APIKey  string
}

// Validate checks that all credential fields are present
func (c Credentials) Validate() error {
	if c.URL == "" || c.APIUser == "" || c.APIKey == "" {
		return errors.New("magento: incomplete API credentials")
	}
	return nil
}

// OrderClient is the port for the Magento sales order API. Implementations
// hold an open session; Close must be called on every exit path.
type OrderClient interface {
	// Info fetches the full order payload by increment id
	Info(ctx context.Context, incrementID string) (*OrderData, error)

	// Cancel cancels the order on Magento
	Cancel(ctx context.Context, incrementID string) error

	// AddComment appends a status comment to the order on Magento
	AddComment(ctx context.Context, incrementID, comment string) error

	// Close releases the API session
	Close() error
}

// ShipmentClient is the port for the Magento shipment API
type ShipmentClient interface {
	// AddTrack attaches carrier tracking info to a Magento shipment and
	// returns the remote shipment increment id
	AddTrack(ctx context.Context, shipmentIncrementID, carrierCode, title, trackingNumber string) (string, error)

	// Close releases the API session
	Close() error
}

// ProductClient is the port for the Magento catalog product API
type ProductClient interface {
	// Info fetches a product payload by SKU. A SKU unknown to Magento
	// surfaces as a Fault with code FaultCodeNotFound.
	Info(ctx context.Context, sku string) (*ProductData, error)

	// Close releases the API session
	Close() error
}

// ClientFactory builds API clients from channel credentials. A client is
// constructed once per operation and closed when the operation returns.
type ClientFactory interface {
	OrderClient(creds Credentials) (OrderClient, error)
	ShipmentClient(creds Credentials) (ShipmentClient, error)
	ProductClient(creds Credentials) (ProductClient, error)
}
