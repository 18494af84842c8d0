package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"heartrisk/config"
	qhttp "heartrisk/http"
	"heartrisk/logging"
	"heartrisk/ml"
	"heartrisk/monitoring"
	"heartrisk/render"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction form and JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	initLogger(cfg)

	// 2. Load model once for the life of the process
	model, err := ml.SharedModel(cfg.Model.Path)
	if err != nil {
		logger.Error("failed to load model", zap.String("path", cfg.Model.Path), zap.Error(err))
		return err
	}
	logger.Info("model loaded", zap.String("path", cfg.Model.Path))

	locales, err := render.NewLocalizer(cfg.Locale.Default, cfg.Locale.CacheSize)
	if err != nil {
		return err
	}

	// 3. Start HTTP server
	handler := qhttp.NewHandler(ml.NewPredictor(model, logger), locales, monitoring.NewPredictionMetrics(), logger)
	server := qhttp.NewServer(qhttp.ServerConfig{
		Port:           cfg.HTTP.Port,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, handler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if path != "" {
		go func() {
			err := config.Watch(ctx, path, logger, func(next *config.Config) {
				if logLevel == "" {
					level.SetLevel(logging.ParseLevel(next.Log.Level))
				}
				if next.Model.Path != cfg.Model.Path || next.HTTP.Port != cfg.HTTP.Port {
					logger.Warn("model and http settings apply on restart only")
				}
			})
			if err != nil {
				logger.Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
			return err
		}
	}

	if err := server.Stop(); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
	logger.Info("exiting")
	return nil
}
