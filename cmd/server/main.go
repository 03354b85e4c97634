package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/ghostplan/matrix/internal/config"
	"github.com/ghostplan/matrix/internal/repository/mongodb"
	"github.com/ghostplan/matrix/internal/repository/sheets"
	"github.com/ghostplan/matrix/internal/scheduler"
	"github.com/ghostplan/matrix/internal/server/handlers"
	"github.com/ghostplan/matrix/internal/server/router"
	"github.com/ghostplan/matrix/internal/service/editor"
	"github.com/ghostplan/matrix/internal/service/grid"
	"github.com/ghostplan/matrix/internal/service/masters"
	"github.com/ghostplan/matrix/internal/service/snapshot"
	"github.com/ghostplan/matrix/pkg/clients/ghost"
	"github.com/ghostplan/matrix/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	auth := ghost.NewAuthSession(cfg.Ghost)
	if err := auth.Init(context.Background()); err != nil {
		baseLogger.Fatal("failed to authenticate against ghost api", zap.Error(err))
	}
	ghostClient := ghost.NewClient(cfg.Ghost, auth)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	mastersCache := masters.NewCache(ghostClient, cfg.Matrix.MastersTTL, baseLogger.Named("svc.masters"))
	registry := editor.NewRegistry(cfg.Matrix.SessionTTL)
	saver := editor.NewSaver(ghostClient, mongoRepo, baseLogger.Named("svc.saver"))

	gridSvc, err := grid.NewService(ghostClient, mastersCache, registry, saver, cfg.Matrix.FiscalYearStart, baseLogger.Named("svc.grid"))
	if err != nil {
		baseLogger.Fatal("failed to init grid service", zap.Error(err))
	}

	var snapshotSvc *snapshot.Service
	if cfg.Snapshot.Enabled {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		snapshotSvc = snapshot.NewService(gridSvc, sheetsRepo, cfg.Snapshot.SheetRange, baseLogger.Named("svc.snapshot"))
	}

	matrixHandler := handlers.NewMatrixHandler(gridSvc, baseLogger.Named("handlers.matrix"))
	engine := router.New(matrixHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, snapshotSvc, registry, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
