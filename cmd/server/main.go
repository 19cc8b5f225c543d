package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comprasverdu/internal/config"
	"comprasverdu/internal/elabastecedor"
	"comprasverdu/internal/infra"
	"comprasverdu/internal/repository"
	"comprasverdu/internal/router"
	"comprasverdu/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Gateway de solo lectura contra ELABASTECEDOR. Conecta lazy: si el
	// legado está caído al arrancar, la app levanta igual y sirve con
	// referencia vacía.
	gw := elabastecedor.New(cfg.Abastecedor)
	defer gw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Workers: refresco asíncrono del espejo de artículos (encolado por el
	// listado) y sincronización periódica del maestro de proveedores.
	articuloRepo := repository.NewArticuloRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	worker.StartWorkerPool(ctx, rdb, articuloRepo, cfg.WorkerPoolSize)
	worker.StartProveedorCron(ctx, gw, proveedorRepo)

	r := router.New(cfg, db, rdb, gw)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("comprasverdu backend listening on :%d", cfg.Port)
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
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
