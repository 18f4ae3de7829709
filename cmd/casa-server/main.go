// Package main is the entry point for the La Casa Oscura game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MViana87/LaCasaOscura/server/internal/domain/world"
	"github.com/MViana87/LaCasaOscura/server/internal/engine"
	"github.com/MViana87/LaCasaOscura/server/internal/events"
	"github.com/MViana87/LaCasaOscura/server/internal/infra/audio"
	"github.com/MViana87/LaCasaOscura/server/internal/infra/storage"
	"github.com/MViana87/LaCasaOscura/server/internal/network"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/config"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/logger"
	"github.com/MViana87/LaCasaOscura/server/internal/platform/metrics"
)

const persistTimeout = 2 * time.Second

func main() {
	log.Println("[CASA-SERVER] Initializing 'La Casa Oscura' Authoritative Server...")

	appLogger := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		appLogger.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Initializing SQLite database '" + cfg.DBPath + "'...")
	db, err := storage.InitSQLite(cfg.DBPath, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()

	eventRepo := storage.NewSQLiteEventRepository(db)
	sessionRepo := storage.NewSQLiteSessionRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Backfill session summaries in case the last run died mid-session.
	if rebuilt, err := storage.NewReconstructor(eventRepo, sessionRepo).RebuildAll(ctx); err != nil {
		appLogger.Warn("Session summary rebuild failed: " + err.Error())
	} else if rebuilt > 0 {
		appLogger.Info(fmt.Sprintf("Rebuilt %d session summaries from the event ledger.", rebuilt))
	}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(storage.NewPersister(eventRepo, sessionRepo, persistTimeout))

	appLogger.Info("Building the house...")
	house := world.Build()
	if err := house.Validate(); err != nil {
		appLogger.Error("World validation failed: " + err.Error())
		os.Exit(1)
	}

	var backend audio.Backend = audio.Noop{}
	if cfg.AudioEnabled {
		beepBackend, err := audio.NewBeepBackend(cfg.MasterVolume)
		if err != nil {
			// Audio is optional; the simulation must never depend on it.
			appLogger.Warn("Audio backend unavailable, continuing silent: " + err.Error())
		} else {
			backend = beepBackend
			appLogger.Info("Audio backend initialized.")
		}
	}

	params := engine.DefaultParams()
	mapper := engine.NewTensionMapper(backend, params.Curve)
	session := engine.NewSession(house, eventLog, mapper, appLogger, params)
	loop := engine.NewLoop(session, engine.NewInputBuffer(), appLogger, cfg.TickRate, cfg.ActionChannelBuffer)
	go loop.Run(ctx)

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(appLogger, cfg.BroadcastChannelBuffer)
	go hub.Run(ctx)
	hub.StartSnapshotPoller(ctx, loop, cfg.SnapshotRate)
	hub.StartEventPoller(ctx, eventLog)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", network.ServeWS(hub, loop, cfg.ClientSendBuffer))
	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())
	network.NewPresentationBridge(loop, appLogger).RegisterRoutes(mux)
	network.NewReplayHandler(eventLog, appLogger).RegisterRoutes(mux)

	server := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		log.Println("[CASA-SERVER] HTTP API & WS Server listening on " + cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[CASA-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[CASA-SERVER] Shutting down...")
	loop.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed: " + err.Error())
	}
}
