package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dentexpo/expo-manager/internal/chart"
	"github.com/dentexpo/expo-manager/internal/config"
	"github.com/dentexpo/expo-manager/internal/database"
	"github.com/dentexpo/expo-manager/internal/export"
	"github.com/dentexpo/expo-manager/internal/handler"
	"github.com/dentexpo/expo-manager/internal/logging"
	"github.com/dentexpo/expo-manager/internal/queue"
	"github.com/dentexpo/expo-manager/internal/report"
	"github.com/dentexpo/expo-manager/internal/repository"
	"github.com/dentexpo/expo-manager/internal/router"
)

func main() {
	cfg := config.Load("")

	logger := logging.New(cfg.Logging)
	logger.Info("starting expo-manager", map[string]any{"env": cfg.Server.Env})

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	products := repository.NewProductRepo(db)
	exhibitions := repository.NewExhibitionRepo(db)
	records := repository.NewRecordRepo(db)
	stats := repository.NewStatsRepo(db)
	users := repository.NewUserRepo(db)

	builder := report.NewBuilder(products, exhibitions, records, cfg.Date)
	exports := export.NewService(cfg.Export)
	charts := chart.NewRenderer(cfg.Chart, cfg.Export.ImageDPI)

	cacheCfg := config.LoadCacheConfig()
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, response cache disabled", nil)
	}

	h := &handler.Handler{
		Products:    products,
		Exhibitions: exhibitions,
		Records:     records,
		Stats:       stats,
		Users:       users,
		Builder:     builder,
		Exports:     exports,
		Charts:      charts,
		Log:         logger,
		Auth:        cfg.Auth,
		Cache:       cacheCfg,
		Dates:       cfg.Date,
		Redis:       rdb,
		AsyncExport: os.Getenv("EXPORT_ASYNC") != "0",
	}

	// Background worker for queued exports; it keeps retrying the
	// broker on its own, so a missing broker only disables async mode.
	if h.AsyncExport {
		worker := queue.NewWorker(builder, exports, logger)
		go worker.Run(ctx)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	router.Register(e, h, cacheCfg, rdb)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			logger.Info("http server stopped", map[string]any{"reason": err.Error()})
		}
	}()
	logger.Info("listening", map[string]any{"port": cfg.Server.Port})

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", err, nil)
	}
	logger.Info("stopped", nil)
}
