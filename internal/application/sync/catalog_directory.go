package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erp/magento-sync/internal/domain/catalog"
	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/magento"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// CatalogDirectory resolves products, currencies, carriers and taxes for
// order imports. Products missing locally are pulled from the Magento
// catalog API and created on the fly; a SKU unknown to Magento surfaces as
// the API's not-found fault. It implements channel.ProductResolver,
// channel.BOMResolver, channel.CurrencyResolver, channel.TaxResolver and
// channel.CarrierResolver.
type CatalogDirectory struct {
	products   catalog.ProductRepository
	boms       catalog.BOMRepository
	currencies catalog.CurrencyRepository
	carriers   catalog.CarrierRepository
	taxes      catalog.TaxRepository
	clients    magento.ClientFactory
	logger     *zap.Logger
}

// NewCatalogDirectory creates a CatalogDirectory
func NewCatalogDirectory(
	products catalog.ProductRepository,
	boms catalog.BOMRepository,
	currencies catalog.CurrencyRepository,
	carriers catalog.CarrierRepository,
	taxes catalog.TaxRepository,
	clients magento.ClientFactory,
	logger *zap.Logger,
) *CatalogDirectory {
	return &CatalogDirectory{
		products:   products,
		boms:       boms,
		currencies: currencies,
		carriers:   carriers,
		taxes:      taxes,
		clients:    clients,
		logger:     logger,
	}
}

// ResolveBySKU returns the local product for a Magento SKU, importing it
// from the channel's catalog API when it does not exist locally
func (d *CatalogDirectory) ResolveBySKU(ctx context.Context, ch *channel.Channel, sku string) (*channel.ProductRef, error) {
	p, err := d.products.FindBySKU(ctx, sku)
	if err == nil {
		return &channel.ProductRef{ID: p.ID, Name: p.Name}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	imported, err := d.importProduct(ctx, ch, sku)
	if err != nil {
		return nil, err
	}
	return &channel.ProductRef{ID: imported.ID, Name: imported.Name}, nil
}

// importProduct fetches the product from Magento and creates the local
// record. The remote fault for an unknown SKU propagates untouched so the
// caller can quarantine the order.
func (d *CatalogDirectory) importProduct(ctx context.Context, ch *channel.Channel, sku string) (*catalog.Product, error) {
	client, err := d.clients.ProductClient(ch.Credentials())
	if err != nil {
		return nil, err
	}
	defer client.Close()

	data, err := client.Info(ctx, sku)
	if err != nil {
		return nil, err
	}

	p := catalog.NewProduct(data.SKU, data.Name, data.Type)
	if p.Name == "" {
		p.Name = data.SKU
	}
	p.Description = data.Description
	p.ListPrice = data.Price
	magentoID := data.ProductID
	p.MagentoProductID = &magentoID

	if err := d.products.Create(ctx, p); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return d.products.FindBySKU(ctx, sku)
		}
		return nil, err
	}

	d.logger.Info("imported product from channel",
		zap.String("sku", p.SKU),
		zap.String("channel", ch.Name),
	)
	return p, nil
}

// ResolveBundles creates bills of materials for the bundle products of an
// order. A bundle parent's BOM lists each child product with its per-unit
// quantity; parents that already have a BOM are left alone.
func (d *CatalogDirectory) ResolveBundles(ctx context.Context, ch *channel.Channel, order *magento.OrderData) error {
	for i := range order.Items {
		parent := &order.Items[i]
		if !parent.IsTopLevel() {
			continue
		}

		children := bundleChildrenOf(order, parent.ItemID)
		if len(children) == 0 {
			continue
		}

		if err := d.resolveBundle(ctx, ch, parent, children); err != nil {
			return err
		}
	}
	return nil
}

func (d *CatalogDirectory) resolveBundle(ctx context.Context, ch *channel.Channel, parent *magento.OrderItemData, children []*magento.OrderItemData) error {
	parentRef, err := d.ResolveBySKU(ctx, ch, parent.SKU)
	if err != nil {
		return err
	}

	exists, err := d.boms.ExistsForProduct(ctx, parentRef.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	bom := catalog.NewBOM(parentRef.ID)
	for _, child := range children {
		childRef, err := d.ResolveBySKU(ctx, ch, child.SKU)
		if err != nil {
			return err
		}
		bom.AddComponent(childRef.ID, perUnitQuantity(child.QtyOrdered, parent.QtyOrdered))
	}

	if err := d.boms.Create(ctx, bom); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	d.logger.Info("created bundle BOM",
		zap.String("sku", parent.SKU),
		zap.Int("components", len(children)),
	)
	return nil
}

// bundleChildrenOf collects the bundle children of a top-level item
func bundleChildrenOf(order *magento.OrderData, parentItemID int64) []*magento.OrderItemData {
	var children []*magento.OrderItemData
	for i := range order.Items {
		item := &order.Items[i]
		if item.IsBundleChild() && *item.ParentItemID == parentItemID {
			children = append(children, item)
		}
	}
	return children
}

// perUnitQuantity converts an ordered child quantity into the quantity per
// single parent unit
func perUnitQuantity(childQty, parentQty decimal.Decimal) decimal.Decimal {
	if parentQty.IsZero() {
		return childQty
	}
	return childQty.Div(parentQty)
}

// ResolveByCode returns the local currency id for a Magento currency code
func (d *CatalogDirectory) ResolveByCode(ctx context.Context, code string) (uuid.UUID, error) {
	c, err := d.currencies.FindByCode(ctx, code)
	if err != nil {
		return uuid.Nil, err
	}
	return c.ID, nil
}

// ResolveByRate returns the taxes matching a fractional rate, creating a
// definition when none exists
func (d *CatalogDirectory) ResolveByRate(ctx context.Context, ch *channel.Channel, rate decimal.Decimal) ([]channel.TaxRef, error) {
	taxes, err := d.taxes.FindByRate(ctx, rate)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		created := catalog.NewTax(taxNameFor(rate), rate)
		if cerr := d.taxes.Create(ctx, created); cerr != nil {
			if errors.Is(cerr, shared.ErrAlreadyExists) {
				taxes, err = d.taxes.FindByRate(ctx, rate)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, cerr
			}
		} else {
			taxes = []catalog.Tax{*created}
		}
	}

	refs := make([]channel.TaxRef, len(taxes))
	for i, t := range taxes {
		refs[i] = channel.TaxRef{ID: t.ID, Rate: t.Rate}
	}
	return refs, nil
}

// taxNameFor builds the display name of an auto-created tax
func taxNameFor(rate decimal.Decimal) string {
	return fmt.Sprintf("Magento Tax %s%%", rate.Mul(decimalHundred).String())
}

// DisplayName returns the name of a local carrier
func (d *CatalogDirectory) DisplayName(ctx context.Context, carrierID uuid.UUID) (string, error) {
	c, err := d.carriers.FindByID(ctx, carrierID)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

var (
	_ channel.ProductResolver  = (*CatalogDirectory)(nil)
	_ channel.BOMResolver      = (*CatalogDirectory)(nil)
	_ channel.CurrencyResolver = (*CatalogDirectory)(nil)
	_ channel.TaxResolver      = (*CatalogDirectory)(nil)
	_ channel.CarrierResolver  = (*CatalogDirectory)(nil)
)
