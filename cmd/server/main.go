package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wbtomas-png/ordreflyt-sub001/internal/config"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/handler"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/infra"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/repository"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/router"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/service"
	"github.com/wbtomas-png/ordreflyt-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Redis is optional: without it the catalog cache degrades to pass-through
	// and confirmation emails are skipped.
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache and job queue")
		rdb = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := infra.NewStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	// Repositories
	productRepo := repository.NewProductRepository(db)
	fileRepo := repository.NewProductFileRepository(db)
	imageRepo := repository.NewProductImageRepository(db)
	relationRepo := repository.NewProductRelationRepository(db)
	allowlistRepo := repository.NewAllowlistRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	cache := infra.NewCatalogCache(rdb)

	// Async workers
	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
		handlers := &worker.Handlers{
			Email: worker.NewEmailWorker(infra.NewMailer(cfg)),
		}
		worker.StartPool(ctx, rdb, handlers, cfg.WorkerPoolSize)
	}

	// Services
	importSvc := service.NewImportService(productRepo, fileRepo, imageRepo, relationRepo, cache)
	productSvc := service.NewProductService(productRepo, cache)
	orderSvc := service.NewOrderService(orderRepo, productRepo, dispatcher)
	allowlistSvc := service.NewAllowlistService(allowlistRepo)

	engine := router.New(cfg, &router.Handlers{
		Health:    handler.NewHealthHandler(db, rdb),
		Products:  handler.NewProductHandler(productSvc),
		Import:    handler.NewImportHandler(importSvc),
		Orders:    handler.NewOrderHandler(orderSvc),
		Allowlist: handler.NewAllowlistHandler(allowlistSvc),
		Files:     handler.NewFileHandler(storage),
	}, allowlistRepo)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
