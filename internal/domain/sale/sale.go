package sale

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// Status represents the lifecycle state of a sale
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusDone       Status = "DONE"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusProcessing, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusDone || target == StatusCancelled
	case StatusDone, StatusCancelled:
		return false // Terminal states
	}
	return false
}

// SaleLineTax attaches a tax definition to a sale line
type SaleLineTax struct {
	ID     uuid.UUID
	LineID uuid.UUID
	TaxID  uuid.UUID
	Rate   decimal.Decimal
}

// TableName returns the table name for GORM
func (SaleLineTax) TableName() string {
	return "sale_line_taxes"
}

// SaleLine represents one line of a sale. A line either corresponds 1:1 to
// a Magento line item (MagentoID set) or is synthetic (shipping charge,
// discount) with no Magento identity.
type SaleLine struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	MagentoID   *int64
	Description string
	UnitPrice   decimal.Decimal
	Unit        string
	Quantity    decimal.Decimal
	Note        string
	ProductID   *uuid.UUID
	Taxes       []SaleLineTax `gorm:"foreignKey:LineID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// NewSaleLine creates a sale line
func NewSaleLine(saleID uuid.UUID, description string, unitPrice, quantity decimal.Decimal, unit string) (*SaleLine, error) {
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	now := time.Now()
	return &SaleLine{
		ID:          uuid.New(),
		SaleID:      saleID,
		Description: description,
		UnitPrice:   unitPrice,
		Unit:        unit,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsSynthetic reports whether the line has no Magento counterpart
// (shipping or discount line)
func (l *SaleLine) IsSynthetic() bool {
	return l.MagentoID == nil
}

// Amount returns quantity * unit price
func (l *SaleLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// AttachTaxes attaches resolved tax definitions to the line
func (l *SaleLine) AttachTaxes(taxes []channel.TaxRef) {
	for _, t := range taxes {
		l.Taxes = append(l.Taxes, SaleLineTax{
			ID:     uuid.New(),
			LineID: l.ID,
			TaxID:  t.ID,
			Rate:   t.Rate,
		})
	}
}

// Sale represents a local sale imported from a Magento order. At most one
// sale exists per (magento id, channel); the persistence layer enforces the
// pair as a unique constraint.
type Sale struct {
	shared.BaseAggregateRoot
	ChannelID         uuid.UUID
	MagentoID         *int64
	ChannelIdentifier string
	Reference         string
	SaleDate          time.Time
	PartyID           uuid.UUID
	CurrencyID        uuid.UUID
	InvoiceAddressID  uuid.UUID
	ShipmentAddressID uuid.UUID
	InvoiceMethod     channel.InvoiceMethod
	ShipmentMethod    channel.ShipmentMethod
	CarrierID         *uuid.UUID
	Status            Status
	Lines             []SaleLine `gorm:"foreignKey:SaleID"`
	ConfirmedAt       *time.Time
	DoneAt            *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SetCarrier assigns the shipping carrier for the sale
func (s *Sale) SetCarrier(carrierID uuid.UUID) {
	s.CarrierID = &carrierID
	s.UpdatedAt = time.Now()
}

// AddLine appends a line to the sale.
// Only allowed in DRAFT status.
func (s *Sale) AddLine(line *SaleLine) error {
	if s.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft sale")
	}
	line.SaleID = s.ID
	s.Lines = append(s.Lines, *line)
	s.UpdatedAt = time.Now()
	return nil
}

// Confirm confirms the sale, transitioning from DRAFT to CONFIRMED.
// Requires at least one line. Callers must apply the channel-exception gate
// before confirming; hasChannelException reflects whether any unresolved
// exception is attached to this sale.
func (s *Sale) Confirm(hasChannelException bool) error {
	if hasChannelException {
		return shared.NewDomainError("CHANNEL_EXCEPTION",
			fmt.Sprintf("Sale %s has unresolved channel exceptions", s.Reference))
	}
	if !s.Status.CanTransitionTo(StatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm sale in %s status", s.Status))
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm sale without lines")
	}

	now := time.Now()
	s.Status = StatusConfirmed
	s.ConfirmedAt = &now
	s.UpdatedAt = now
	return nil
}

// Process moves a confirmed sale to PROCESSING
func (s *Sale) Process() error {
	if !s.Status.CanTransitionTo(StatusProcessing) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot process sale in %s status", s.Status))
	}
	s.Status = StatusProcessing
	s.UpdatedAt = time.Now()
	return nil
}

// Done marks the sale as done
func (s *Sale) Done() error {
	if !s.Status.CanTransitionTo(StatusDone) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot finish sale in %s status", s.Status))
	}
	now := time.Now()
	s.Status = StatusDone
	s.DoneAt = &now
	s.UpdatedAt = now
	return nil
}

// Cancel cancels the sale
func (s *Sale) Cancel() error {
	if !s.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel sale in %s status", s.Status))
	}
	now := time.Now()
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	return nil
}

// ApplyWorkflowAction drives the sale towards the state mapped from its
// remote order state. A business-rule refusal surfaces as a DomainError;
// callers convert it to a channel exception instead of failing the import.
func (s *Sale) ApplyWorkflowAction(action channel.Action, hasChannelException bool) error {
	switch action {
	case channel.ActionImportAsDraft, channel.ActionDoNotImport:
		return nil
	case channel.ActionConfirm:
		return s.Confirm(hasChannelException)
	case channel.ActionProcess:
		if err := s.Confirm(hasChannelException); err != nil {
			return err
		}
		return s.Process()
	default:
		return shared.NewDomainError("INVALID_ACTION", fmt.Sprintf("Unknown workflow action %q", action))
	}
}

// Duplicate returns a copy of the sale with a fresh local identity and the
// Magento identity cleared. A duplicated sale is a new local object with no
// remote counterpart, so the (magento id, channel) invariant never links it
// to its origin.
func (s *Sale) Duplicate() *Sale {
	dup := *s
	dup.BaseAggregateRoot = shared.NewBaseAggregateRoot()
	dup.MagentoID = nil
	dup.ChannelIdentifier = ""
	dup.Status = StatusDraft
	dup.ConfirmedAt = nil
	dup.DoneAt = nil
	dup.CancelledAt = nil

	dup.Lines = make([]SaleLine, len(s.Lines))
	for i := range s.Lines {
		line := s.Lines[i]
		line.ID = uuid.New()
		line.SaleID = dup.ID
		taxes := make([]SaleLineTax, len(line.Taxes))
		for j, t := range line.Taxes {
			t.ID = uuid.New()
			t.LineID = line.ID
			taxes[j] = t
		}
		line.Taxes = taxes
		dup.Lines[i] = line
	}
	return &dup
}

// TotalAmount returns the sum of all line amounts
func (s *Sale) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Amount())
	}
	return total
}

// IsDraft returns true if the sale is in draft status
func (s *Sale) IsDraft() bool {
	return s.Status == StatusDraft
}

// IsDone returns true if the sale is done
func (s *Sale) IsDone() bool {
	return s.Status == StatusDone
}

// IsCancelled returns true if the sale is cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// HasMagentoIdentity reports whether the sale is linked to a remote order
func (s *Sale) HasMagentoIdentity() bool {
	return s.MagentoID != nil
}
