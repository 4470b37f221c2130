package sale

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erp/magento-sync/internal/domain/shared"
)

// ShipmentState represents the workflow state of an outgoing shipment
type ShipmentState string

const (
	ShipmentStateDraft    ShipmentState = "DRAFT"
	ShipmentStateWaiting  ShipmentState = "WAITING"
	ShipmentStateAssigned ShipmentState = "ASSIGNED"
	ShipmentStatePacked   ShipmentState = "PACKED"
	ShipmentStateDone     ShipmentState = "DONE"
)

// IsValid checks if the state is a valid ShipmentState
func (s ShipmentState) IsValid() bool {
	switch s {
	case ShipmentStateDraft, ShipmentStateWaiting, ShipmentStateAssigned, ShipmentStatePacked, ShipmentStateDone:
		return true
	}
	return false
}

// String returns the string representation of ShipmentState
func (s ShipmentState) String() string {
	return string(s)
}

// next returns the state that follows s in the shipment workflow
func (s ShipmentState) next() (ShipmentState, bool) {
	switch s {
	case ShipmentStateDraft:
		return ShipmentStateWaiting, true
	case ShipmentStateWaiting:
		return ShipmentStateAssigned, true
	case ShipmentStateAssigned:
		return ShipmentStatePacked, true
	case ShipmentStatePacked:
		return ShipmentStateDone, true
	}
	return s, false
}

// Shipment is an outgoing shipment of a sale. The workflow is strictly
// sequential: draft, waiting, assigned, packed, done, one step at a time.
type Shipment struct {
	shared.BaseAggregateRoot
	SaleID             uuid.UUID
	State              ShipmentState
	TrackingNumber     string
	CarrierID          *uuid.UUID
	TrackingExported   bool
	MagentoIncrementID string
}

// TableName returns the table name for GORM
func (Shipment) TableName() string {
	return "shipments"
}

// NewShipment creates a draft shipment for a sale
func NewShipment(saleID uuid.UUID) *Shipment {
	return &Shipment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		State:             ShipmentStateDraft,
	}
}

// Advance moves the shipment to the next workflow state. Only the single
// state-appropriate transition is performed; states are never skipped.
func (sh *Shipment) Advance() error {
	next, ok := sh.State.next()
	if !ok {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Shipment in %s state cannot advance", sh.State))
	}
	sh.State = next
	sh.UpdatedAt = time.Now()
	return nil
}

// Wait moves a draft shipment to waiting
func (sh *Shipment) Wait() error {
	return sh.step(ShipmentStateDraft)
}

// Assign moves a waiting shipment to assigned
func (sh *Shipment) Assign() error {
	return sh.step(ShipmentStateWaiting)
}

// Pack moves an assigned shipment to packed
func (sh *Shipment) Pack() error {
	return sh.step(ShipmentStateAssigned)
}

// MarkDone moves a packed shipment to done
func (sh *Shipment) MarkDone() error {
	return sh.step(ShipmentStatePacked)
}

func (sh *Shipment) step(from ShipmentState) error {
	if sh.State != from {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Shipment is in %s state, expected %s", sh.State, from))
	}
	return sh.Advance()
}

// SetTracking assigns the carrier and tracking number used for the
// tracking export
func (sh *Shipment) SetTracking(carrierID uuid.UUID, trackingNumber string) error {
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number cannot be empty")
	}
	sh.CarrierID = &carrierID
	sh.TrackingNumber = trackingNumber
	sh.UpdatedAt = time.Now()
	return nil
}

// MarkTrackingExported records that tracking info reached Magento
func (sh *Shipment) MarkTrackingExported() {
	sh.TrackingExported = true
	sh.UpdatedAt = time.Now()
}
