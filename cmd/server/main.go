package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datamart-service/config"
	"datamart-service/internal/api"
	"datamart-service/internal/cart"
	"datamart-service/internal/catalog"
	"datamart-service/internal/checkout"
	"datamart-service/internal/decode"
	"datamart-service/internal/ingest"
	"datamart-service/internal/notify"
	"datamart-service/internal/util"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting datamart service")

	tp, err := util.InitTracer("datamart-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	store := catalog.NewSeededStore()
	log.Printf("Catalog seeded with %d listings", store.Len())

	publisher := notify.NewPublisher(notify.NewLogNotifier())

	userCart := cart.New()
	engine := checkout.NewEngine(userCart, publisher, checkout.Config{
		WalletAddress:   cfg.Payment.WalletAddress,
		SettlementDelay: cfg.Payment.SettlementDelay,
		AutoClearDelay:  cfg.Payment.AutoClearDelay,
		SuccessRate:     cfg.Payment.SuccessRate,
	})
	defer engine.Close()

	uploads := ingest.NewUploadService(decode.NewDecoder(), store, publisher)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(store, userCart, engine, uploads, cfg.Ingest.MaxUploadBytes)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
