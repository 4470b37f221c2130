package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/magento-sync/internal/domain/sale"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// GormSaleRepository implements sale.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its lines by local id
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var s sale.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Taxes").
		First(&s, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &s, nil
}

// FindByMagentoID finds a sale by its Magento order id within a channel
func (r *GormSaleRepository) FindByMagentoID(ctx context.Context, channelID uuid.UUID, magentoID int64) (*sale.Sale, error) {
	var s sale.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Taxes").
		Where("channel_id = ? AND magento_id = ?", channelID, magentoID).
		First(&s).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &s, nil
}

// FindByChannelIdentifier finds a sale by Magento increment id within a
// channel
func (r *GormSaleRepository) FindByChannelIdentifier(ctx context.Context, channelID uuid.UUID, incrementID string) (*sale.Sale, error) {
	var s sale.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Taxes").
		Where("channel_id = ? AND channel_identifier = ?", channelID, incrementID).
		First(&s).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &s, nil
}

// Create inserts a new sale header. The unique constraint on
// (magento_id, channel_id) rejects duplicate imports; the violation
// surfaces as shared.ErrAlreadyExists so callers can fall back to lookup.
func (r *GormSaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	if err := r.db.WithContext(ctx).Omit("Lines").Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates a sale together with its lines. Lines removed from the
// aggregate are deleted, the rest is upserted in one transaction.
func (r *GormSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(s).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		currentLineIDs := make([]uuid.UUID, len(s.Lines))
		for i, line := range s.Lines {
			currentLineIDs[i] = line.ID
		}

		if len(currentLineIDs) > 0 {
			if err := tx.Where("sale_id = ? AND id NOT IN ?", s.ID, currentLineIDs).
				Delete(&sale.SaleLine{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("sale_id = ?", s.ID).
				Delete(&sale.SaleLine{}).Error; err != nil {
				return err
			}
		}

		for i := range s.Lines {
			s.Lines[i].SaleID = s.ID
			if err := tx.Omit("Taxes").Save(&s.Lines[i]).Error; err != nil {
				return err
			}
			for j := range s.Lines[i].Taxes {
				s.Lines[i].Taxes[j].LineID = s.Lines[i].ID
				if err := tx.Save(&s.Lines[i].Taxes[j]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Ensure GormSaleRepository implements SaleRepository
var _ sale.SaleRepository = (*GormSaleRepository)(nil)

// GormChannelExceptionRepository implements sale.ChannelExceptionRepository
type GormChannelExceptionRepository struct {
	db *gorm.DB
}

// NewGormChannelExceptionRepository creates a new repository
func NewGormChannelExceptionRepository(db *gorm.DB) *GormChannelExceptionRepository {
	return &GormChannelExceptionRepository{db: db}
}

// Create inserts a new exception
func (r *GormChannelExceptionRepository) Create(ctx context.Context, exc *sale.ChannelException) error {
	return r.db.WithContext(ctx).Create(exc).Error
}

// HasUnresolvedForSale reports whether any unresolved exception is attached
// to the sale
func (r *GormChannelExceptionRepository) HasUnresolvedForSale(ctx context.Context, saleID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&sale.ChannelException{}).
		Where("sale_id = ? AND resolved = ?", saleID, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindBySale lists all exceptions attached to a sale
func (r *GormChannelExceptionRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]sale.ChannelException, error) {
	var excs []sale.ChannelException
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&excs).Error; err != nil {
		return nil, err
	}
	return excs, nil
}

// Save updates an exception
func (r *GormChannelExceptionRepository) Save(ctx context.Context, exc *sale.ChannelException) error {
	return r.db.WithContext(ctx).Save(exc).Error
}

// Ensure interface compliance
var _ sale.ChannelExceptionRepository = (*GormChannelExceptionRepository)(nil)

// GormPaymentRepository implements sale.PaymentRepository
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create inserts a payment with its transactions
func (r *GormPaymentRepository) Create(ctx context.Context, p *sale.SalePayment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Transactions").Create(p).Error; err != nil {
			return err
		}
		for i := range p.Transactions {
			p.Transactions[i].PaymentID = p.ID
			if err := tx.Create(&p.Transactions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindBySale lists payments of a sale
func (r *GormPaymentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]sale.SalePayment, error) {
	var payments []sale.SalePayment
	if err := r.db.WithContext(ctx).
		Preload("Transactions").
		Where("sale_id = ?", saleID).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Ensure interface compliance
var _ sale.PaymentRepository = (*GormPaymentRepository)(nil)

// GormShipmentRepository implements sale.ShipmentRepository
type GormShipmentRepository struct {
	db *gorm.DB
}

// NewGormShipmentRepository creates a new repository
func NewGormShipmentRepository(db *gorm.DB) *GormShipmentRepository {
	return &GormShipmentRepository{db: db}
}

// FindByID finds a shipment by local id
func (r *GormShipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Shipment, error) {
	var sh sale.Shipment
	if err := r.db.WithContext(ctx).First(&sh, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &sh, nil
}

// FindBySale lists the shipments of a sale
func (r *GormShipmentRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]sale.Shipment, error) {
	var shipments []sale.Shipment
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&shipments).Error; err != nil {
		return nil, err
	}
	return shipments, nil
}

// Save creates or updates a shipment
func (r *GormShipmentRepository) Save(ctx context.Context, sh *sale.Shipment) error {
	return r.db.WithContext(ctx).Save(sh).Error
}

// Ensure interface compliance
var _ sale.ShipmentRepository = (*GormShipmentRepository)(nil)
