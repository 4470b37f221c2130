package magento

import (
	"github.com/shopspring/decimal"
)

// OrderData is the order payload returned by the Magento sales API.
// Monetary and quantity fields arrive as strings on the wire; the client
// adapter parses them into decimals before the payload reaches the core.
type OrderData struct {
	OrderID             int64
	IncrementID         string
	State               string
	Status              string
	CurrencyCode        string
	CustomerID          int64
	CustomerFirstname   string
	CustomerLastname    string
	CustomerEmail       string
	BillingAddress      *AddressData
	ShippingAddress     *AddressData
	CreatedAt           string
	Items               []OrderItemData
	ShippingMethod      string
	ShippingDescription string
	ShippingAmount      decimal.Decimal
	DiscountAmount      decimal.Decimal
	DiscountDescription string
	Payment             PaymentData
}

// OrderItemData is a single line item of a Magento order
type OrderItemData struct {
	ItemID       int64
	ProductID    int64
	ParentItemID *int64
	SKU          string
	Name         string
	Comments     string
	Price        decimal.Decimal
	QtyOrdered   decimal.Decimal
	TaxPercent   decimal.Decimal
	// BundleOption is true when the item carries a bundle_option entry in
	// its product options, i.e. it participates in a bundle product.
	BundleOption bool
}

// IsBundleChild reports whether the item is a child of a bundle product.
// Bundle children never produce their own sale lines.
func (i *OrderItemData) IsBundleChild() bool {
	return i.BundleOption && i.ParentItemID != nil
}

// IsTopLevel reports whether the item is a top-level item (no parent)
func (i *OrderItemData) IsTopLevel() bool {
	return i.ParentItemID == nil
}

// AddressData is a billing or shipping address fragment of an order payload
type AddressData struct {
	AddressID  int64
	Firstname  string
	Lastname   string
	Street     string
	City       string
	Region     string
	PostalCode string
	CountryID  string
	Telephone  string
}

// PaymentData is the payment summary of an order payload
type PaymentData struct {
	PaymentID  int64
	Method     string
	AmountPaid decimal.Decimal
}

// ProductData is the product payload returned by the Magento catalog API
type ProductData struct {
	ProductID   int64
	SKU         string
	Name        string
	Description string
	Type        string
	Price       decimal.Decimal
}
