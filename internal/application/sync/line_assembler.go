package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/magento"
	"github.com/erp/magento-sync/internal/domain/sale"
	"github.com/erp/magento-sync/internal/domain/shared"
)

const (
	defaultShippingDescription = "Magento Shipping"
	defaultDiscountDescription = "Magento Discount"
)

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalHundred = decimal.NewFromInt(100)
)

// LineAssembler appends lines to a persisted sale draft from the order
// payload's item list and its shipping/discount summary. It is invoked
// exactly once per import; lines are appended in payload order, then the
// shipping line, then the discount line.
type LineAssembler struct {
	products   channel.ProductResolver
	taxes      channel.TaxResolver
	boms       channel.BOMResolver
	carriers   channel.CarrierMappingRepository
	exceptions sale.ChannelExceptionRepository
	logger     *zap.Logger
}

// NewLineAssembler creates a LineAssembler
func NewLineAssembler(
	products channel.ProductResolver,
	taxes channel.TaxResolver,
	boms channel.BOMResolver,
	carriers channel.CarrierMappingRepository,
	exceptions sale.ChannelExceptionRepository,
	logger *zap.Logger,
) *LineAssembler {
	return &LineAssembler{
		products:   products,
		taxes:      taxes,
		boms:       boms,
		carriers:   carriers,
		exceptions: exceptions,
		logger:     logger,
	}
}

// AssembleLines appends the sale lines for the order payload. The sale
// must already be persisted: quarantine records created for unresolvable
// products reference its id.
func (a *LineAssembler) AssembleLines(ctx context.Context, ch *channel.Channel, s *sale.Sale, order *magento.OrderData) error {
	for i := range order.Items {
		item := &order.Items[i]

		// Children of a bundle product never get their own line; the
		// bundle parent line stands in for the whole bundle.
		if item.IsBundleChild() {
			continue
		}

		line, err := a.itemLine(ctx, ch, s, item)
		if err != nil {
			return err
		}
		if line == nil {
			continue
		}
		if err := s.AddLine(line); err != nil {
			return err
		}
	}

	// Bundle composition is resolved into bills of materials, not into
	// extra lines. No-op for orders without bundle items.
	if err := a.boms.ResolveBundles(ctx, ch, order); err != nil {
		return err
	}

	if order.ShippingMethod != "" {
		line, err := a.shippingLine(ctx, ch, s, order)
		if err != nil {
			return err
		}
		if err := s.AddLine(line); err != nil {
			return err
		}
	}

	if !order.DiscountAmount.IsZero() {
		line, err := a.discountLine(ch, s, order)
		if err != nil {
			return err
		}
		if err := s.AddLine(line); err != nil {
			return err
		}
	}

	return nil
}

// itemLine builds the line for one top-level order item. Non-top-level
// items produce no line.
func (a *LineAssembler) itemLine(ctx context.Context, ch *channel.Channel, s *sale.Sale, item *magento.OrderItemData) (*sale.SaleLine, error) {
	if !item.IsTopLevel() {
		return nil, nil
	}

	product, err := a.products.ResolveBySKU(ctx, ch, item.SKU)
	if err != nil {
		if !magento.IsNotFound(err) {
			return nil, err
		}
		// The product is unknown on Magento. Quarantine the sale
		// instead of aborting: the line is imported without a product
		// reference and a human sorts it out later.
		exc := sale.NewChannelException(s.ID, ch.ID,
			fmt.Sprintf("Product #%d does not exist", item.ProductID))
		if err := a.exceptions.Create(ctx, exc); err != nil {
			return nil, err
		}
		a.logger.Warn("product not found on magento, sale quarantined",
			zap.String("sale_id", s.ID.String()),
			zap.String("sku", item.SKU),
			zap.Int64("product_id", item.ProductID))
		product = nil
	}

	description := item.Name
	if description == "" && product != nil {
		description = product.Name
	}

	line, err := sale.NewSaleLine(s.ID, description, item.Price, item.QtyOrdered, ch.DefaultUnit)
	if err != nil {
		return nil, err
	}
	magentoID := item.ItemID
	line.MagentoID = &magentoID
	line.Note = item.Comments
	if product != nil {
		productID := product.ID
		line.ProductID = &productID
	}

	if !item.TaxPercent.IsZero() {
		taxes, err := a.taxes.ResolveByRate(ctx, ch, item.TaxPercent.Div(decimalHundred))
		if err != nil {
			return nil, err
		}
		line.AttachTaxes(taxes)
	}

	return line, nil
}

// shippingLine builds the synthetic shipping charge line and assigns the
// sale's carrier when the shipping method's carrier code is mapped.
func (a *LineAssembler) shippingLine(ctx context.Context, ch *channel.Channel, s *sale.Sale, order *magento.OrderData) (*sale.SaleLine, error) {
	description := order.ShippingDescription
	if description == "" {
		description = defaultShippingDescription
	}

	line, err := sale.NewSaleLine(s.ID, description, order.ShippingAmount, decimalOne, ch.DefaultUnit)
	if err != nil {
		return nil, err
	}
	line.Note = strings.Join([]string{
		defaultShippingDescription,
		order.ShippingMethod,
		order.ShippingDescription,
	}, " - ")

	// Standard Magento encodes the carrier as the shipping method's code
	// prefix, e.g. "flatrate" for "flatrate_flatrate".
	code, _, _ := strings.Cut(order.ShippingMethod, "_")
	mapping, err := a.carriers.FindByCode(ctx, ch.ID, code)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return line, nil
	}

	s.SetCarrier(mapping.CarrierID)
	if mapping.ProductID != nil {
		productID := *mapping.ProductID
		line.ProductID = &productID
	}
	return line, nil
}

// discountLine builds the synthetic discount line
func (a *LineAssembler) discountLine(ch *channel.Channel, s *sale.Sale, order *magento.OrderData) (*sale.SaleLine, error) {
	description := order.DiscountDescription
	if description == "" {
		description = defaultDiscountDescription
	}

	line, err := sale.NewSaleLine(s.ID, description, order.DiscountAmount, decimalOne, ch.DefaultUnit)
	if err != nil {
		return nil, err
	}
	line.Note = order.DiscountDescription
	return line, nil
}
