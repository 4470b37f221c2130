package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/magento-sync/internal/application/sync"
	"github.com/erp/magento-sync/internal/domain/channel"
	"github.com/erp/magento-sync/internal/domain/sale"
	"github.com/erp/magento-sync/internal/interfaces/http/dto"
)

// SyncHandler exposes order import and status synchronization operations
type SyncHandler struct {
	BaseHandler
	channels  channel.ChannelRepository
	sales     sale.SaleRepository
	shipments sale.ShipmentRepository
	importer  *sync.OrderImportService
	status    *sync.StatusSyncService
	logger    *zap.Logger
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(
	channels channel.ChannelRepository,
	sales sale.SaleRepository,
	shipments sale.ShipmentRepository,
	importer *sync.OrderImportService,
	status *sync.StatusSyncService,
	logger *zap.Logger,
) *SyncHandler {
	return &SyncHandler{
		channels:  channels,
		sales:     sales,
		shipments: shipments,
		importer:  importer,
		status:    status,
		logger:    logger,
	}
}

// ImportOrder imports a single order from the channel's Magento instance
// by its increment id
// POST /api/v1/channels/:id/orders/import
func (h *SyncHandler) ImportOrder(c *gin.Context) {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid channel id")
		return
	}

	var req dto.ImportOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ch, err := h.channels.FindByID(c.Request.Context(), channelID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sl, err := h.importer.FindOrCreateByIncrementID(c.Request.Context(), ch, req.IncrementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := dto.ImportOrderResponse{Skipped: sl == nil}
	if sl != nil {
		saleResp := toSaleResponse(sl)
		resp.Sale = &saleResp
	}
	h.Success(c, resp)
}

// ConfirmSale confirms a draft sale unless an unresolved channel exception
// blocks it
// POST /api/v1/sales/:id/confirm
func (h *SyncHandler) ConfirmSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid sale id")
		return
	}

	if err := h.importer.ConfirmSale(c.Request.Context(), saleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// DuplicateSale copies a sale into a fresh draft without its Magento
// identity
// POST /api/v1/sales/:id/duplicate
func (h *SyncHandler) DuplicateSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid sale id")
		return
	}

	dup, err := h.importer.DuplicateSale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSaleResponse(dup))
}

// ExportStatus pushes the sale's cancelled or done state to Magento
// POST /api/v1/sales/:id/status/export
func (h *SyncHandler) ExportStatus(c *gin.Context) {
	sl, ch, ok := h.saleWithChannel(c)
	if !ok {
		return
	}

	if err := h.status.ExportOrderStatus(c.Request.Context(), ch, sl); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// PullStatus fetches the order's remote status and advances local
// shipments when Magento reports the order complete
// POST /api/v1/sales/:id/status/pull
func (h *SyncHandler) PullStatus(c *gin.Context) {
	sl, ch, ok := h.saleWithChannel(c)
	if !ok {
		return
	}

	if err := h.status.PullOrderStatus(c.Request.Context(), ch, sl, nil); err != nil {
		h.HandleError(c, err)
		return
	}

	shipments, err := h.shipments.FindBySale(c.Request.Context(), sl.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := make([]dto.ShipmentResponse, len(shipments))
	for i := range shipments {
		resp[i] = toShipmentResponse(&shipments[i])
	}
	h.Success(c, resp)
}

// ExportTracking attaches the shipment's tracking information to the
// Magento shipment
// POST /api/v1/shipments/:id/tracking/export
func (h *SyncHandler) ExportTracking(c *gin.Context) {
	shipmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid shipment id")
		return
	}

	sh, err := h.shipments.FindByID(c.Request.Context(), shipmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	sl, err := h.sales.FindByID(c.Request.Context(), sh.SaleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	ch, err := h.channels.FindByID(c.Request.Context(), sl.ChannelID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	incrementID, err := h.status.ExportTrackingInfo(c.Request.Context(), ch, sh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.ExportTrackingResponse{ShipmentIncrementID: incrementID})
}

// GetSale returns a sale with its lines
// GET /api/v1/sales/:id
func (h *SyncHandler) GetSale(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid sale id")
		return
	}

	sl, err := h.sales.FindByID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSaleResponse(sl))
}

func (h *SyncHandler) saleWithChannel(c *gin.Context) (*sale.Sale, *channel.Channel, bool) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid sale id")
		return nil, nil, false
	}

	sl, err := h.sales.FindByID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return nil, nil, false
	}
	ch, err := h.channels.FindByID(c.Request.Context(), sl.ChannelID)
	if err != nil {
		h.HandleError(c, err)
		return nil, nil, false
	}
	return sl, ch, true
}

func toSaleResponse(sl *sale.Sale) dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, len(sl.Lines))
	for i := range sl.Lines {
		lines[i] = toSaleLineResponse(&sl.Lines[i])
	}
	return dto.SaleResponse{
		ID:                sl.ID.String(),
		ChannelID:         sl.ChannelID.String(),
		MagentoID:         sl.MagentoID,
		ChannelIdentifier: sl.ChannelIdentifier,
		Reference:         sl.Reference,
		SaleDate:          sl.SaleDate,
		Status:            sl.Status.String(),
		TotalAmount:       sl.TotalAmount(),
		Lines:             lines,
	}
}

func toSaleLineResponse(l *sale.SaleLine) dto.SaleLineResponse {
	resp := dto.SaleLineResponse{
		ID:          l.ID.String(),
		MagentoID:   l.MagentoID,
		Description: l.Description,
		UnitPrice:   l.UnitPrice,
		Quantity:    l.Quantity,
		Unit:        l.Unit,
		Note:        l.Note,
	}
	if l.ProductID != nil {
		id := l.ProductID.String()
		resp.ProductID = &id
	}
	return resp
}

func toShipmentResponse(sh *sale.Shipment) dto.ShipmentResponse {
	return dto.ShipmentResponse{
		ID:               sh.ID.String(),
		SaleID:           sh.SaleID.String(),
		State:            sh.State.String(),
		TrackingNumber:   sh.TrackingNumber,
		TrackingExported: sh.TrackingExported,
	}
}
