package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/magento"
	"github.com/erp/magento-sync/internal/domain/sale"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// OrderImportService owns the find-or-create workflow for Magento orders.
// It guarantees the (magento id, channel) uniqueness invariant: an order is
// imported at most once per channel, and repeated imports return the
// existing sale untouched.
type OrderImportService struct {
	sales      sale.SaleRepository
	exceptions sale.ChannelExceptionRepository
	payments   sale.PaymentRepository
	gateways   channel.GatewayMappingRepository
	mapper     *OrderMapper
	assembler  *LineAssembler
	clients    magento.ClientFactory
	logger     *zap.Logger
}

// NewOrderImportService creates an OrderImportService
func NewOrderImportService(
	sales sale.SaleRepository,
	exceptions sale.ChannelExceptionRepository,
	payments sale.PaymentRepository,
	gateways channel.GatewayMappingRepository,
	mapper *OrderMapper,
	assembler *LineAssembler,
	clients magento.ClientFactory,
	logger *zap.Logger,
) *OrderImportService {
	return &OrderImportService{
		sales:      sales,
		exceptions: exceptions,
		payments:   payments,
		gateways:   gateways,
		mapper:     mapper,
		assembler:  assembler,
		clients:    clients,
		logger:     logger,
	}
}

// FindOrCreateFromOrderData finds the sale already imported for the order
// payload, or creates it. Returns (nil, nil) when the channel's workflow
// mapping marks the order's remote state as do-not-import: the skip is
// deliberate, not a failure.
func (s *OrderImportService) FindOrCreateFromOrderData(ctx context.Context, ch *channel.Channel, order *magento.OrderData) (*sale.Sale, error) {
	existing, err := s.sales.FindByMagentoID(ctx, ch.ID, order.OrderID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	return s.createFromOrderData(ctx, ch, order)
}

// FindOrCreateByIncrementID finds the sale for a Magento increment id, or
// fetches the order payload from Magento and imports it
func (s *OrderImportService) FindOrCreateByIncrementID(ctx context.Context, ch *channel.Channel, incrementID string) (*sale.Sale, error) {
	existing, err := s.sales.FindByChannelIdentifier(ctx, ch.ID, incrementID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	client, err := s.clients.OrderClient(ch.Credentials())
	if err != nil {
		return nil, err
	}
	defer client.Close()

	order, err := client.Info(ctx, incrementID)
	if err != nil {
		return nil, err
	}

	return s.FindOrCreateFromOrderData(ctx, ch, order)
}

// createFromOrderData runs the create path: map the header, persist it,
// assemble lines, persist again, create the payment, then attempt the
// workflow transition. The two saves are the recovery boundary: a fault
// during line assembly aborts the import without leaving lines half
// appended to a committed sale.
func (s *OrderImportService) createFromOrderData(ctx context.Context, ch *channel.Channel, order *magento.OrderData) (*sale.Sale, error) {
	wa := ch.WorkflowActionFor(order.State)
	if wa.Action == channel.ActionDoNotImport {
		s.logger.Info("order skipped by workflow mapping",
			zap.String("channel", ch.Name),
			zap.String("increment_id", order.IncrementID),
			zap.String("remote_state", order.State))
		return nil, nil
	}

	draft, err := s.mapper.MapOrder(ctx, ch, order)
	if err != nil {
		return nil, err
	}

	if err := s.sales.Create(ctx, draft); err != nil {
		// A concurrent import of the same order may win the race; the
		// unique constraint rejects the loser, which then just returns
		// the winner's sale.
		if errors.Is(err, shared.ErrAlreadyExists) {
			return s.sales.FindByMagentoID(ctx, ch.ID, order.OrderID)
		}
		return nil, err
	}

	if err := s.assembler.AssembleLines(ctx, ch, draft, order); err != nil {
		return nil, err
	}
	if err := s.sales.Save(ctx, draft); err != nil {
		return nil, err
	}

	if err := s.createPayment(ctx, ch, draft, order.Payment); err != nil {
		return nil, err
	}

	if err := s.transition(ctx, ch, draft, wa.Action); err != nil {
		return nil, err
	}

	return draft, nil
}

// createPayment creates the sale payment when a gateway mapping exists for
// the remote payment method and a nonzero paid amount was reported. A
// missing mapping or zero amount imports the sale without a payment.
func (s *OrderImportService) createPayment(ctx context.Context, ch *channel.Channel, sl *sale.Sale, payment magento.PaymentData) error {
	mapping, err := s.gateways.FindByMethodName(ctx, ch.ID, payment.Method)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	if !payment.AmountPaid.IsPositive() {
		return nil
	}

	p, err := sale.NewSalePayment(sl.ID, mapping.GatewayID, payment.PaymentID, payment.AmountPaid)
	if err != nil {
		return err
	}
	return s.payments.Create(ctx, p)
}

// transition drives the sale to its mapped workflow action. A business
// rule rejection is quarantined: exactly one channel exception is created
// and the sale stays persisted in its pre-transition state, so the import
// as a whole still succeeds.
func (s *OrderImportService) transition(ctx context.Context, ch *channel.Channel, sl *sale.Sale, action channel.Action) error {
	hasException, err := s.exceptions.HasUnresolvedForSale(ctx, sl.ID)
	if err != nil {
		return err
	}

	err = sl.ApplyWorkflowAction(action, hasException)
	if err == nil {
		return s.sales.Save(ctx, sl)
	}
	if !shared.IsDomainError(err) {
		return err
	}

	exc := sale.NewChannelException(sl.ID, ch.ID,
		fmt.Sprintf("Error occurred on transitioning to state %s.\nError Message: %s", action, err.Error()))
	if err := s.exceptions.Create(ctx, exc); err != nil {
		return err
	}
	s.logger.Warn("workflow transition rejected, sale quarantined",
		zap.String("sale_id", sl.ID.String()),
		zap.String("reference", sl.Reference),
		zap.String("action", action.String()))
	return nil
}

// ConfirmSale confirms a draft sale. Confirmation is blocked while any
// unresolved channel exception is attached to the sale.
func (s *OrderImportService) ConfirmSale(ctx context.Context, saleID uuid.UUID) error {
	sl, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return err
	}

	hasException, err := s.exceptions.HasUnresolvedForSale(ctx, sl.ID)
	if err != nil {
		return err
	}
	if err := sl.Confirm(hasException); err != nil {
		return err
	}
	return s.sales.Save(ctx, sl)
}

// DuplicateSale copies a sale into a new draft with no Magento identity.
// The copy is a plain local sale; it can never collide with its origin
// under the uniqueness invariant.
func (s *OrderImportService) DuplicateSale(ctx context.Context, saleID uuid.UUID) (*sale.Sale, error) {
	sl, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	dup := sl.Duplicate()
	if err := s.sales.Create(ctx, dup); err != nil {
		return nil, err
	}
	if err := s.sales.Save(ctx, dup); err != nil {
		return nil, err
	}
	return dup, nil
}
