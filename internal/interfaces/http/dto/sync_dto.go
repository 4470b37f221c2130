package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportOrderRequest is the body for importing a single order by its
// Magento increment id
type ImportOrderRequest struct {
	IncrementID string `json:"increment_id" binding:"required"`
}

// SaleLineResponse represents one sale line in API responses
type SaleLineResponse struct {
	ID          string          `json:"id"`
	MagentoID   *int64          `json:"magento_id,omitempty"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Note        string          `json:"note,omitempty"`
	ProductID   *string         `json:"product_id,omitempty"`
}

// SaleResponse represents an imported sale in API responses
type SaleResponse struct {
	ID                string             `json:"id"`
	ChannelID         string             `json:"channel_id"`
	MagentoID         *int64             `json:"magento_id,omitempty"`
	ChannelIdentifier string             `json:"channel_identifier,omitempty"`
	Reference         string             `json:"reference"`
	SaleDate          time.Time          `json:"sale_date"`
	Status            string             `json:"status"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	Lines             []SaleLineResponse `json:"lines"`
}

// ImportOrderResponse wraps the import result. Skipped is true when the
// channel's workflow configuration maps the order state to no import.
type ImportOrderResponse struct {
	Skipped bool          `json:"skipped"`
	Sale    *SaleResponse `json:"sale,omitempty"`
}

// ExportTrackingResponse reports the Magento shipment increment id a
// tracking export was attached to
type ExportTrackingResponse struct {
	ShipmentIncrementID string `json:"shipment_increment_id"`
}

// ShipmentResponse represents a shipment in API responses
type ShipmentResponse struct {
	ID               string `json:"id"`
	SaleID           string `json:"sale_id"`
	State            string `json:"state"`
	TrackingNumber   string `json:"tracking_number,omitempty"`
	TrackingExported bool   `json:"tracking_exported"`
}
