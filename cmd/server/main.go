package main

import (
	"context"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/attendance"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/config"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/routes"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/sessions"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

func newLogger(env string) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync()

	var mirror storage.Mirror
	if cfg.MirrorDSN != "" {
		m, err := storage.OpenMirror(cfg.MirrorDSN)
		if err != nil {
			logger.Fatal("failed to open mirror", zap.Error(err))
		}
		mirror = m
	} else {
		logger.Warn("MIRROR_DSN not set, running without remote mirror")
	}

	store, err := storage.Open(cfg.DataFile, mirror, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	manager := sessions.NewManager(store, logger, cfg.SessionTTL)
	reconciler := attendance.NewReconciler(store, logger, attendance.Options{
		AllowUnknownSessions: cfg.AllowUnknownSessions,
		SessionTTL:           cfg.SessionTTL,
	})
	manager.SetSweeper(reconciler)
	agg := attendance.NewAggregator(store)

	watcher := sessions.NewWatcher(store, manager, logger, cfg.ExpiryPollInterval)
	watcher.Start(context.Background())
	defer watcher.Stop()

	r := routes.NewRouter(cfg, store, manager, reconciler, agg, logger)

	logger.Info("server running", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
