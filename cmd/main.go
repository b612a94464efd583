package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library_catalog/internal/config"
	"library_catalog/internal/handlers"
	"library_catalog/internal/logger"
	"library_catalog/internal/metrics"
	"library_catalog/internal/repository"
	"library_catalog/internal/repository/db"
	"library_catalog/internal/server"
	"library_catalog/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger level comes from config, so this failure uses a throwaway
		// logger at the error level.
		logger.New("error").Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.LogLevel)

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, cfg.JWT)
	collector := metrics.NewCollector()
	apiHandler := handlers.NewHandler(services, log, collector, cfg.WebDir)
	defer apiHandler.Close()

	srv := &server.Server{}
	go func() {
		log.Infow("starting http server", "port", cfg.Port)
		if err := srv.Run(cfg.Port, apiHandler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(srv, log)
}

// waitForShutdown blocks on SIGINT/SIGTERM and drains in-flight requests.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
