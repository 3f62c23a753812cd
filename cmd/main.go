package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"stockdash.com/internal/api/handler"
	"stockdash.com/internal/cache"
	"stockdash.com/internal/config"
	"stockdash.com/internal/database"
	"stockdash.com/internal/logger"
	"stockdash.com/internal/market"
	"stockdash.com/internal/metrics"
	"stockdash.com/internal/router"
	"stockdash.com/internal/service"
)

func startServer() {

	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(config.App.Log)
	logrus.SetFormatter(appLogger.Entry().Logger.Formatter)
	logrus.SetLevel(appLogger.Entry().Logger.GetLevel())
	logrus.SetOutput(os.Stdout)

	if !config.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Init(config.App.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	appMetrics := metrics.New()
	quoteCache := cache.New(config.App.Redis)
	if closer, ok := quoteCache.(io.Closer); ok {
		defer closer.Close()
	}
	marketClient := market.NewClient(config.App.Market, appMetrics)

	marketService := service.NewMarketService(marketClient, quoteCache, config.App.Market.MaxConcurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	refresher := service.NewPriceRefresher(
		marketService,
		time.Duration(config.App.Market.RefreshIntervalSeconds)*time.Second,
	)
	go refresher.Start(ctx)

	r := router.New(router.Options{
		Development:    config.App.IsDevelopment(),
		AllowedOrigins: config.App.Server.AllowedOrigins,
		Logger:         appLogger,
		Metrics:        appMetrics,
	}, router.Handlers{
		Market:  handler.NewMarketHandler(marketService),
		Health:  handler.NewHealthHandler(quoteCache),
		Metrics: handler.NewMetricsHandler(appMetrics),
	})

	addr := fmt.Sprintf(":%d", config.App.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":        config.App.Server.Port,
			"environment": config.App.Server.Environment,
		}).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

func main() {
	startServer()
}
