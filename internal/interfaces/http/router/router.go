package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	applogger "github.com/erp/magento-sync/internal/infrastructure/logger"
	"github.com/erp/magento-sync/internal/interfaces/http/handler"
	"github.com/erp/magento-sync/internal/interfaces/http/middleware"
)

// Config holds router dependencies
type Config struct {
	SyncHandler *handler.SyncHandler
	Logger      *zap.Logger
	Env         string
}

// New builds the gin engine with all middleware and routes registered
func New(cfg Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(applogger.GinMiddleware(cfg.Logger))
	r.Use(applogger.Recovery(cfg.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		channels := v1.Group("/channels")
		{
			channels.POST("/:id/orders/import", cfg.SyncHandler.ImportOrder)
		}

		sales := v1.Group("/sales")
		{
			sales.GET("/:id", cfg.SyncHandler.GetSale)
			sales.POST("/:id/confirm", cfg.SyncHandler.ConfirmSale)
			sales.POST("/:id/duplicate", cfg.SyncHandler.DuplicateSale)
			sales.POST("/:id/status/export", cfg.SyncHandler.ExportStatus)
			sales.POST("/:id/status/pull", cfg.SyncHandler.PullStatus)
		}

		shipments := v1.Group("/shipments")
		{
			shipments.POST("/:id/tracking/export", cfg.SyncHandler.ExportTracking)
		}
	}

	return r
}
