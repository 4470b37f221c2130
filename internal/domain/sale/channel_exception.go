package sale

import (
	"github.com/google/uuid"

	"github.com/erp/magento-sync/internal/domain/shared"
)

// ChannelException quarantines a recoverable local rejection tied to a
// specific sale. It is created when a workflow transition is refused or a
// remote product cannot be resolved during import, and stays attached until
// someone resolves it manually. An unresolved exception blocks the sale
// from being confirmed.
type ChannelException struct {
	shared.BaseEntity
	SaleID    uuid.UUID
	ChannelID uuid.UUID
	Log       string
	Resolved  bool
}

// TableName returns the table name for GORM
func (ChannelException) TableName() string {
	return "channel_exceptions"
}

// NewChannelException creates an exception attached to a sale
func NewChannelException(saleID, channelID uuid.UUID, log string) *ChannelException {
	return &ChannelException{
		BaseEntity: shared.NewBaseEntity(),
		SaleID:     saleID,
		ChannelID:  channelID,
		Log:        log,
	}
}

// Resolve marks the exception as handled
func (e *ChannelException) Resolve() {
	e.Resolved = true
}
