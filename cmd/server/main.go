package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/popcatalog/popcatalog-go/internal/backup"
	"github.com/popcatalog/popcatalog-go/internal/cache"
	"github.com/popcatalog/popcatalog-go/internal/config"
	"github.com/popcatalog/popcatalog-go/internal/model"
	"github.com/popcatalog/popcatalog-go/internal/notify"
	"github.com/popcatalog/popcatalog-go/internal/ops"
	"github.com/popcatalog/popcatalog-go/internal/repository"
	"github.com/popcatalog/popcatalog-go/internal/server"
	"github.com/popcatalog/popcatalog-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	funkoCache := cache.New(cfg.CacheSize, cfg.CacheMaxAge)
	funkoCache.StartSweeper(cfg.CacheSweepEvery)
	defer funkoCache.Shutdown()

	hub := notify.NewHub()
	defer hub.Close()

	funkoRepo := repository.NewFunkoRepository(db)
	funkoService := service.NewFunkoService(funkoRepo, funkoCache, hub, model.NewSequenceGenerator())
	authService := service.NewAuthService(repository.NewUserRepository(), cfg.TokenSecret, cfg.TokenTTL)

	events, unsubscribe := hub.Subscribe()
	defer unsubscribe()
	go logNotifications(events)

	importCatalog(funkoService, cfg.ImportCSV)

	if cfg.OpsAddr != "" {
		opsServer := ops.NewServer(cfg.OpsAddr, funkoCache)
		go func() {
			slog.Info("ops server listening", "addr", cfg.OpsAddr)
			if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("ops server error", "error", err)
			}
		}()
		defer opsServer.Close()
	}

	tlsConfig, err := server.LoadTLSConfig(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		slog.Error("TLS configuration failed", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg.Addr(), tlsConfig, authService, funkoService)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, net.ErrClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	if err := srv.Close(); err != nil {
		slog.Error("closing listener", "error", err)
	}

	exportCatalog(funkoService, cfg.BackupJSON)
	slog.Info("server stopped")
}

// importCatalog bulk-loads the startup CSV if it exists.
func importCatalog(svc *service.FunkoService, path string) {
	if _, err := os.Stat(path); err != nil {
		slog.Warn("no import file, starting with an empty catalog", "path", path)
		return
	}

	funkos, err := backup.ReadCSV(path)
	if err != nil {
		slog.Error("reading import file", "path", path, "error", err)
		return
	}

	loaded := svc.Import(context.Background(), funkos)
	slog.Info("catalog imported", "path", path, "loaded", loaded)
}

// exportCatalog writes the JSON backup at shutdown.
func exportCatalog(svc *service.FunkoService, path string) {
	funkos, err := svc.FindAll(context.Background())
	if err != nil {
		slog.Error("reading catalog for backup", "error", err)
		return
	}
	if err := backup.WriteJSON(path, funkos); err != nil {
		slog.Error("writing backup", "path", path, "error", err)
		return
	}
	slog.Info("catalog backed up", "path", path, "funkos", len(funkos))
}

func logNotifications(events <-chan model.Notification) {
	for n := range events {
		switch n.Kind {
		case model.NotificationCreated:
			slog.Info("funko created", "id", n.Funko.ID, "name", n.Funko.Name)
		case model.NotificationUpdated:
			slog.Info("funko updated", "id", n.Funko.ID, "name", n.Funko.Name)
		case model.NotificationDeleted:
			slog.Info("funko deleted", "id", n.Funko.ID, "name", n.Funko.Name)
		}
	}
}
