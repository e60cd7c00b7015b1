package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"dashboard/internal/alert_relay"
	"dashboard/internal/config"
	"dashboard/internal/metrics"
	"dashboard/internal/scanner_client"
	"dashboard/internal/server"
	"dashboard/internal/session"
)

func main() {
	// .env is optional
	envErr := godotenv.Load()

	// Load configuration
	cfgPath := config.Path()
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("Failed to load config", zap.String("path", cfgPath), zap.Error(err))
	}

	logger, err := newLogger(cfg.Logging.Development)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("Failed to load .env file", zap.Error(envErr))
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gatewayMetrics, err := metrics.NewGatewayMetrics(registry)
	if err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	// Scanner backend client
	scanner := scanner_client.NewClient(cfg.Scanner.BaseURL, logger,
		scanner_client.WithTimeout(cfg.ScannerTimeout()),
		scanner_client.WithRecorder(gatewayMetrics))
	logger.Info("Scanner client initialized", zap.String("base_url", scanner.BaseURL()))

	sessions := session.NewManager(scanner, session.Settings{
		UserID:    cfg.Scanner.UserID,
		AdminName: cfg.Profile.AdminName,
		UserName:  cfg.Profile.UserName,
	}, cfg.SessionTTL(), logger)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Telegram alerts (optional)
	if cfg.Alerts.Enabled {
		sender, err := alert_relay.NewTelegramSender(cfg.Alerts.TelegramBotToken, cfg.Alerts.ChatID, logger)
		if err != nil {
			logger.Warn("Failed to initialize Telegram alerts, continuing without them", zap.Error(err))
		} else {
			relay := alert_relay.NewRelay(scanner, sender, cfg.PollInterval(), logger)
			go relay.Run(ctx)
		}
	}

	srv, err := server.NewServer(cfg, sessions, registry, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}
	if err := srv.Run(ctx, cfg.Server.Port); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	logger.Info("Application stopped.")
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
