package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/magento-sync/internal/domain/shared"
)

// TransactionState is the state of a payment transaction
type TransactionState string

const (
	TransactionStateDraft     TransactionState = "DRAFT"
	TransactionStateCompleted TransactionState = "COMPLETED"
	TransactionStateFailed    TransactionState = "FAILED"
)

// PaymentTransaction records one gateway transaction posted for a payment
type PaymentTransaction struct {
	ID        uuid.UUID
	PaymentID uuid.UUID
	GatewayID uuid.UUID
	Amount    decimal.Decimal
	State     TransactionState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (PaymentTransaction) TableName() string {
	return "sale_payment_transactions"
}

// SalePayment records the payment reported by Magento for an imported sale.
// At most one payment is created per import, and only when a gateway
// mapping exists for the remote payment method and a nonzero paid amount
// was reported.
type SalePayment struct {
	shared.BaseEntity
	SaleID       uuid.UUID
	GatewayID    uuid.UUID
	MagentoID    int64
	Amount       decimal.Decimal
	Transactions []PaymentTransaction `gorm:"foreignKey:PaymentID"`
}

// TableName returns the table name for GORM
func (SalePayment) TableName() string {
	return "sale_payments"
}

// NewSalePayment creates a payment with one completed transaction, the
// shape Magento reports for captured amounts
func NewSalePayment(saleID, gatewayID uuid.UUID, magentoID int64, amount decimal.Decimal) (*SalePayment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	p := &SalePayment{
		BaseEntity: shared.NewBaseEntity(),
		SaleID:     saleID,
		GatewayID:  gatewayID,
		MagentoID:  magentoID,
		Amount:     amount,
	}
	now := time.Now()
	p.Transactions = []PaymentTransaction{{
		ID:        uuid.New(),
		PaymentID: p.ID,
		GatewayID: gatewayID,
		Amount:    amount,
		State:     TransactionStateCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	return p, nil
}
