package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"asistencia/internal/config"
	"asistencia/internal/infra"
	"asistencia/internal/repository"
	"asistencia/internal/router"
	"asistencia/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL not set, sync jobs run in-process")
	}

	// Sync sink. Workers are wired here (composition root) so the pool has
	// the repositories it snapshots from.
	sheetsClient := infra.NewSheetsClient(cfg)
	if !cfg.SheetsConfigured() {
		log.Warn().Msg("Google Sheets credentials missing, spreadsheet mirror disabled")
	}
	syncWorker := worker.NewSheetsSyncWorker(
		sheetsClient,
		repository.NewConfigRepository(db),
		repository.NewEmpleadoRepository(db),
		repository.NewAsistenciaRepository(db),
		repository.NewPuntoRepository(db),
	)
	dispatcher := worker.NewDispatcher(rdb, syncWorker, cfg.WorkerPoolSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	workers := &sync.WaitGroup{}
	if rdb != nil {
		workers = worker.StartWorkerPool(ctx, rdb, syncWorker, cfg.WorkerPoolSize)
	}

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("env", cfg.Env).Msgf("asistencia backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	dispatcher.Wait()
	cancel()
	workers.Wait()
	log.Info().Str("breaker", sheetsClient.BreakerState().String()).Msg("closing sheets client")
	sheetsClient.Close()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev gets the pretty console writer, production plain JSON.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
