package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/erp/magento-sync/internal/application/sync"
	"github.com/erp/magento-sync/internal/infrastructure/config"
	"github.com/erp/magento-sync/internal/infrastructure/logger"
	magentoclient "github.com/erp/magento-sync/internal/infrastructure/magento"
	"github.com/erp/magento-sync/internal/infrastructure/persistence"
	"github.com/erp/magento-sync/internal/interfaces/http/handler"
	"github.com/erp/magento-sync/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting magento-sync",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	channelRepo := persistence.NewGormChannelRepository(db.DB)
	carrierMappingRepo := persistence.NewGormCarrierMappingRepository(db.DB)
	gatewayMappingRepo := persistence.NewGormGatewayMappingRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	exceptionRepo := persistence.NewGormChannelExceptionRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	partyRepo := persistence.NewGormPartyRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	bomRepo := persistence.NewGormBOMRepository(db.DB)
	currencyRepo := persistence.NewGormCurrencyRepository(db.DB)
	carrierRepo := persistence.NewGormCarrierRepository(db.DB)
	taxRepo := persistence.NewGormTaxRepository(db.DB)

	// Magento API clients
	clients := magentoclient.NewClientFactory()

	// Resolvers and services
	parties := sync.NewPartyDirectory(partyRepo, addressRepo)
	catalogDir := sync.NewCatalogDirectory(productRepo, bomRepo, currencyRepo, carrierRepo, taxRepo, clients, log)

	mapper := sync.NewOrderMapper(parties, parties, catalogDir)
	assembler := sync.NewLineAssembler(catalogDir, catalogDir, catalogDir, carrierMappingRepo, exceptionRepo, log)
	importer := sync.NewOrderImportService(saleRepo, exceptionRepo, paymentRepo, gatewayMappingRepo, mapper, assembler, clients, log)
	statusSync := sync.NewStatusSyncService(saleRepo, shipmentRepo, carrierMappingRepo, catalogDir, clients, log)

	syncHandler := handler.NewSyncHandler(channelRepo, saleRepo, shipmentRepo, importer, statusSync, log)

	engine := router.New(router.Config{
		SyncHandler: syncHandler,
		Logger:      log,
		Env:         cfg.App.Env,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
