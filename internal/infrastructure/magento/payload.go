package magento

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/erp/magento-sync/internal/domain/magento"
)

// orderDataFromRecord converts the generic record returned by
// sales_order.info into the typed payload the core consumes. Magento
// serializes most numerics as strings; everything is coerced defensively
// because the exact wire types vary between Magento versions.
func orderDataFromRecord(record map[string]interface{}) *magento.OrderData {
	order := &magento.OrderData{
		OrderID:             asInt64(record["order_id"]),
		IncrementID:         asString(record["increment_id"]),
		State:               asString(record["state"]),
		Status:              asString(record["status"]),
		CurrencyCode:        asString(record["order_currency_code"]),
		CustomerID:          asInt64(record["customer_id"]),
		CustomerFirstname:   asString(record["customer_firstname"]),
		CustomerLastname:    asString(record["customer_lastname"]),
		CustomerEmail:       asString(record["customer_email"]),
		CreatedAt:           asString(record["created_at"]),
		ShippingMethod:      asString(record["shipping_method"]),
		ShippingDescription: asString(record["shipping_description"]),
		ShippingAmount:      asDecimal(record["shipping_amount"]),
		DiscountAmount:      asDecimal(record["discount_amount"]),
		DiscountDescription: asString(record["discount_description"]),
	}

	if addr, ok := record["billing_address"].(map[string]interface{}); ok {
		order.BillingAddress = addressFromRecord(addr)
	}
	if addr, ok := record["shipping_address"].(map[string]interface{}); ok {
		order.ShippingAddress = addressFromRecord(addr)
	}

	if items, ok := record["items"].([]interface{}); ok {
		for _, raw := range items {
			item, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			order.Items = append(order.Items, itemFromRecord(item))
		}
	}

	if payment, ok := record["payment"].(map[string]interface{}); ok {
		order.Payment = magento.PaymentData{
			PaymentID:  asInt64(payment["payment_id"]),
			Method:     asString(payment["method"]),
			AmountPaid: asDecimal(payment["amount_paid"]),
		}
	}

	return order
}

func itemFromRecord(record map[string]interface{}) magento.OrderItemData {
	item := magento.OrderItemData{
		ItemID:     asInt64(record["item_id"]),
		ProductID:  asInt64(record["product_id"]),
		SKU:        asString(record["sku"]),
		Name:       asString(record["name"]),
		Comments:   asString(record["comments"]),
		Price:      asDecimal(record["price"]),
		QtyOrdered: asDecimal(record["qty_ordered"]),
		TaxPercent: asDecimal(record["tax_percent"]),
	}

	if parent := asInt64(record["parent_item_id"]); parent != 0 {
		item.ParentItemID = &parent
	}
	if options, ok := record["product_options"].(map[string]interface{}); ok {
		_, item.BundleOption = options["bundle_option"]
	}
	return item
}

func addressFromRecord(record map[string]interface{}) *magento.AddressData {
	return &magento.AddressData{
		AddressID:  asInt64(record["address_id"]),
		Firstname:  asString(record["firstname"]),
		Lastname:   asString(record["lastname"]),
		Street:     asString(record["street"]),
		City:       asString(record["city"]),
		Region:     asString(record["region"]),
		PostalCode: asString(record["postcode"]),
		CountryID:  asString(record["country_id"]),
		Telephone:  asString(record["telephone"]),
	}
}

// productDataFromRecord converts a catalog_product.info record into the
// typed product payload
func productDataFromRecord(record map[string]interface{}) *magento.ProductData {
	return &magento.ProductData{
		ProductID:   asInt64(record["product_id"]),
		SKU:         asString(record["sku"]),
		Name:        asString(record["name"]),
		Description: asString(record["description"]),
		Type:        asString(record["type"]),
		Price:       asDecimal(record["price"]),
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

func asDecimal(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(t)
	case int64:
		return decimal.NewFromInt(t)
	default:
		return decimal.Zero
	}
}
