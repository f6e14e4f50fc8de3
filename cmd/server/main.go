package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ko-stant/hex-tactics-engine/internal/config"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profiling := GetProfilingConfigFromEnv()
	StartProfiling(profiling)
	var metrics *PerformanceMetrics
	if profiling.Enabled {
		metrics = NewPerformanceMetrics()
		StartMetricsReporting(ctx, metrics, profiling.ReportInterval)
	}

	matches := NewMatchManager(cfg, logger)
	connections := NewConnectionManager()

	mux := http.NewServeMux()
	NewServer(ctx, matches, connections, metrics, logger).RegisterRoutes(mux)

	debugConfig := GetDebugConfigFromEnv()
	debugConfig.Enabled = cfg.Debug
	NewDebugSystem(debugConfig, matches, connections, logger).RegisterDebugRoutes(mux)
	if debugConfig.Enabled {
		log.Printf("debug routes enabled under /debug/")
	}

	server := &http.Server{Addr: ":" + cfg.Port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		matches.CloseAll()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on :%s (%dx%d board, %s movement)", cfg.Port, cfg.Grid.Cols, cfg.Grid.Rows, cfg.Movement.Policy)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
