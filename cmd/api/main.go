package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"weird/internal/api"
	"weird/internal/config"
	"weird/internal/data"
	"weird/internal/models"
	"weird/pkg/utils"
)

func main() {
	cfgPath := flag.String("config", "", "YAML or TOML config file")
	dataPath := flag.String("data", "", "CSV dataset to fit at startup")
	fixture := flag.Bool("fixture", false, "Fit the synthetic fixture at startup")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	logger := utils.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	opts := cfg.FitOptions()
	clf := &models.WeiRD{Epsilon: opts.Epsilon, Scheme: opts.Scheme}
	switch {
	case *dataPath != "":
		ds, err := data.ReadCSV(*dataPath)
		if err != nil {
			logger.Fatal("Failed to read dataset", zap.String("path", *dataPath), zap.Error(err))
		}
		if err := clf.Fit(ds.X, ds.Y); err != nil {
			logger.Fatal("Failed to fit dataset", zap.Error(err))
		}
		logger.Info("Model fitted from CSV", zap.String("path", *dataPath), zap.Int("samples", ds.Len()))
	case *fixture:
		f := cfg.DataFixture()
		ds := data.Synthesize(f, data.NewRand(f.Seed))
		if err := clf.Fit(ds.X, ds.Y); err != nil {
			logger.Fatal("Failed to fit fixture", zap.Error(err))
		}
		logger.Info("Model fitted from fixture", zap.Int("samples", ds.Len()), zap.Int64("seed", f.Seed))
	default:
		logger.Info("Starting unfitted, POST /fit to train")
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.New(clf, logger, cfg.Server.APIKey).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		logger.Info("Listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}
