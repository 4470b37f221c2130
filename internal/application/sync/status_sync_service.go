package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/magento"
	"github.com/erp/magento-sync/internal/domain/sale"
	"github.com/erp/magento-sync/internal/domain/shared"
)

// completionComment is the status comment Magento receives when a sale is
// done locally
const completionComment = "complete"

// magentoStatusComplete is the remote status that triggers local shipment
// catch-up
const magentoStatusComplete = "complete"

// customCarrierCode is the generic Magento carrier code used when no
// carrier mapping exists for the shipment's carrier
const customCarrierCode = "custom"

// ErrTrackingPrecondition is returned when a tracking export is attempted
// without a tracking number or carrier. This is a caller bug, not a
// recoverable condition.
var ErrTrackingPrecondition = shared.NewDomainError("TRACKING_PRECONDITION", "Shipment needs a tracking number and a carrier before tracking export")

// StatusSyncService keeps order and shipment status consistent between the
// local sale and its Magento counterpart, in both directions.
type StatusSyncService struct {
	sales     sale.SaleRepository
	shipments sale.ShipmentRepository
	carriers  channel.CarrierMappingRepository
	names     channel.CarrierResolver
	clients   magento.ClientFactory
	logger    *zap.Logger
}

// NewStatusSyncService creates a StatusSyncService
func NewStatusSyncService(
	sales sale.SaleRepository,
	shipments sale.ShipmentRepository,
	carriers channel.CarrierMappingRepository,
	names channel.CarrierResolver,
	clients magento.ClientFactory,
	logger *zap.Logger,
) *StatusSyncService {
	return &StatusSyncService{
		sales:     sales,
		shipments: shipments,
		carriers:  carriers,
		names:     names,
		clients:   clients,
		logger:    logger,
	}
}

// ExportOrderStatus pushes a terminal local state to Magento: a cancelled
// sale cancels the remote order, a done sale adds a completion comment.
// Sales without a Magento identity (locally created or duplicated) are a
// no-op. A remote workflow conflict (fault 103) means the remote order is
// already terminal and is treated as already-consistent.
func (s *StatusSyncService) ExportOrderStatus(ctx context.Context, ch *channel.Channel, sl *sale.Sale) error {
	if !sl.HasMagentoIdentity() {
		return nil
	}
	if !sl.IsCancelled() && !sl.IsDone() {
		return nil
	}

	client, err := s.clients.OrderClient(ch.Credentials())
	if err != nil {
		return err
	}
	defer client.Close()

	if sl.IsCancelled() {
		err = client.Cancel(ctx, sl.ChannelIdentifier)
	} else {
		err = client.AddComment(ctx, sl.ChannelIdentifier, completionComment)
	}
	if err != nil {
		if magento.IsStateConflict(err) {
			s.logger.Warn("magento rejected status push as workflow conflict, treating as consistent",
				zap.String("increment_id", sl.ChannelIdentifier),
				zap.String("status", sl.Status.String()))
			return nil
		}
		return err
	}
	return nil
}

// ExportTrackingInfo sends the shipment's carrier and tracking number to
// Magento and marks the shipment as exported. The shipment must already
// carry both; calling without them is a precondition violation. Returns
// the Magento shipment increment id.
func (s *StatusSyncService) ExportTrackingInfo(ctx context.Context, ch *channel.Channel, sh *sale.Shipment) (string, error) {
	if sh.TrackingNumber == "" || sh.CarrierID == nil {
		return "", ErrTrackingPrecondition
	}

	code, title, err := s.carrierMapping(ctx, ch, *sh.CarrierID)
	if err != nil {
		return "", err
	}

	client, err := s.clients.ShipmentClient(ch.Credentials())
	if err != nil {
		return "", err
	}
	defer client.Close()

	incrementID, err := client.AddTrack(ctx, sh.MagentoIncrementID, code, title, sh.TrackingNumber)
	if err != nil {
		return "", err
	}

	sh.MarkTrackingExported()
	if err := s.shipments.Save(ctx, sh); err != nil {
		return "", err
	}
	return incrementID, nil
}

// carrierMapping resolves the Magento carrier code/title pair for a local
// carrier, falling back to the generic custom code with the carrier's
// display name when no mapping is configured
func (s *StatusSyncService) carrierMapping(ctx context.Context, ch *channel.Channel, carrierID uuid.UUID) (string, string, error) {
	mapping, err := s.carriers.FindByCarrier(ctx, ch.ID, carrierID)
	if err == nil {
		code, title := mapping.MagentoMapping()
		return code, title, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return "", "", err
	}

	name, err := s.names.DisplayName(ctx, carrierID)
	if err != nil {
		return "", "", err
	}
	return customCarrierCode, name, nil
}

// PullOrderStatus advances the sale's shipments when the remote order is
// complete. When order is nil the payload is fetched from Magento first.
// Each shipment catches up through the full workflow one state-appropriate
// step at a time; invoice handling is left out deliberately.
func (s *StatusSyncService) PullOrderStatus(ctx context.Context, ch *channel.Channel, sl *sale.Sale, order *magento.OrderData) error {
	if order == nil {
		client, err := s.clients.OrderClient(ch.Credentials())
		if err != nil {
			return err
		}
		defer client.Close()

		order, err = client.Info(ctx, sl.ChannelIdentifier)
		if err != nil {
			return err
		}
	}

	if order.Status != magentoStatusComplete {
		return nil
	}

	shipments, err := s.shipments.FindBySale(ctx, sl.ID)
	if err != nil {
		return err
	}

	for i := range shipments {
		sh := &shipments[i]
		if sh.State == sale.ShipmentStateDraft {
			if err := sh.Wait(); err != nil {
				return err
			}
		}
		if sh.State == sale.ShipmentStateWaiting {
			if err := sh.Assign(); err != nil {
				return err
			}
		}
		if sh.State == sale.ShipmentStateAssigned {
			if err := sh.Pack(); err != nil {
				return err
			}
		}
		if sh.State == sale.ShipmentStatePacked {
			if err := sh.MarkDone(); err != nil {
				return err
			}
		}
		if err := s.shipments.Save(ctx, sh); err != nil {
			return err
		}
	}
	return nil
}
