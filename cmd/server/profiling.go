package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/Ko-stant/hex-tactics-engine/internal/protocol"
)

// ProfilingConfig holds configuration for profiling
type ProfilingConfig struct {
	Enabled        bool
	Port           string
	ReportInterval time.Duration
}

// StartProfiling starts the profiling server and sets up profiling
func StartProfiling(config ProfilingConfig) {
	if !config.Enabled {
		return
	}

	// Set up runtime profiling parameters
	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)

	// Start pprof server on separate port
	if config.Port != "" {
		go func() {
			log.Printf("Starting pprof server on :%s", config.Port)
			log.Printf("CPU profile: http://localhost:%s/debug/pprof/profile", config.Port)
			log.Printf("Heap profile: http://localhost:%s/debug/pprof/heap", config.Port)
			log.Printf("Goroutine profile: http://localhost:%s/debug/pprof/goroutine", config.Port)
			log.Printf("Block profile: http://localhost:%s/debug/pprof/block", config.Port)
			log.Printf("Mutex profile: http://localhost:%s/debug/pprof/mutex", config.Port)

			if err := http.ListenAndServe(":"+config.Port, nil); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	log.Printf("Profiling enabled. Access profiles at:")
	log.Printf("  - CPU: curl http://localhost:%s/debug/pprof/profile?seconds=30 > cpu.prof", config.Port)
	log.Printf("  - Memory: curl http://localhost:%s/debug/pprof/heap > mem.prof", config.Port)
	log.Printf("  - Goroutines: curl http://localhost:%s/debug/pprof/goroutine > goroutine.prof", config.Port)
}

// GetProfilingConfigFromEnv creates profiling config from environment variables
func GetProfilingConfigFromEnv() ProfilingConfig {
	enabled := os.Getenv("ENABLE_PROFILING") == "true"
	port := os.Getenv("PPROF_PORT")
	if port == "" {
		port = "42069"
	}

	var reportInterval time.Duration
	if v := os.Getenv("METRICS_REPORT_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			reportInterval = d
		}
	}

	return ProfilingConfig{
		Enabled:        enabled,
		Port:           port,
		ReportInterval: reportInterval,
	}
}

// PerformanceMetrics holds performance tracking data
type PerformanceMetrics struct {
	TileClicksProcessed int64
	TurnsEnded          int64
	SnapshotsBuilt      int64
	AvgTileClickTime    time.Duration
	AvgEndTurnTime      time.Duration
	AvgSnapshotTime     time.Duration
	PeakGoroutines      int
	PeakMemoryUsage     uint64
	StartTime           time.Time

	mutex sync.Mutex
}

// NewPerformanceMetrics creates a new performance metrics tracker
func NewPerformanceMetrics() *PerformanceMetrics {
	return &PerformanceMetrics{
		StartTime: time.Now(),
	}
}

func runningAverage(avg time.Duration, n int64, sample time.Duration) time.Duration {
	return (avg*time.Duration(n-1) + sample) / time.Duration(n)
}

// TrackTileClick records metrics for a tile click
func (pm *PerformanceMetrics) TrackTileClick(duration time.Duration) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.TileClicksProcessed++
	pm.AvgTileClickTime = runningAverage(pm.AvgTileClickTime, pm.TileClicksProcessed, duration)
}

// TrackEndTurn records metrics for an end of turn
func (pm *PerformanceMetrics) TrackEndTurn(duration time.Duration) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.TurnsEnded++
	pm.AvgEndTurnTime = runningAverage(pm.AvgEndTurnTime, pm.TurnsEnded, duration)
}

// TrackSnapshot records metrics for building a snapshot
func (pm *PerformanceMetrics) TrackSnapshot(duration time.Duration) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.SnapshotsBuilt++
	pm.AvgSnapshotTime = runningAverage(pm.AvgSnapshotTime, pm.SnapshotsBuilt, duration)
}

// UpdateSystemMetrics updates system-level metrics
func (pm *PerformanceMetrics) UpdateSystemMetrics() {
	goroutines := runtime.NumGoroutine()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	if goroutines > pm.PeakGoroutines {
		pm.PeakGoroutines = goroutines
	}
	if m.Alloc > pm.PeakMemoryUsage {
		pm.PeakMemoryUsage = m.Alloc
	}
}

// LogMetrics logs current performance metrics
func (pm *PerformanceMetrics) LogMetrics() {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	uptime := time.Since(pm.StartTime)
	log.Printf("=== Performance Metrics ===")
	log.Printf("Uptime: %v", uptime)
	log.Printf("Tile clicks processed: %d", pm.TileClicksProcessed)
	log.Printf("Turns ended: %d", pm.TurnsEnded)
	log.Printf("Snapshots built: %d", pm.SnapshotsBuilt)
	log.Printf("Average tile click time: %v", pm.AvgTileClickTime)
	log.Printf("Average end turn time: %v", pm.AvgEndTurnTime)
	log.Printf("Average snapshot time: %v", pm.AvgSnapshotTime)
	log.Printf("Peak goroutines: %d", pm.PeakGoroutines)
	log.Printf("Peak memory usage: %d bytes", pm.PeakMemoryUsage)

	if pm.TileClicksProcessed > 0 {
		clicksPerSecond := float64(pm.TileClicksProcessed) / uptime.Seconds()
		log.Printf("Tile clicks per second: %.2f", clicksPerSecond)
	}
}

// InstrumentedEngine wraps MatchEngine with performance tracking
type InstrumentedEngine struct {
	engine  MatchEngine
	metrics *PerformanceMetrics
}

func NewInstrumentedEngine(engine MatchEngine, metrics *PerformanceMetrics) *InstrumentedEngine {
	return &InstrumentedEngine{
		engine:  engine,
		metrics: metrics,
	}
}

func (ie *InstrumentedEngine) TileClick(req protocol.RequestTileClick) error {
	start := time.Now()
	err := ie.engine.TileClick(req)
	ie.metrics.TrackTileClick(time.Since(start))
	ie.metrics.UpdateSystemMetrics()
	return err
}

func (ie *InstrumentedEngine) BackgroundClick() error {
	return ie.engine.BackgroundClick()
}

func (ie *InstrumentedEngine) EndTurn() error {
	start := time.Now()
	err := ie.engine.EndTurn()
	ie.metrics.TrackEndTurn(time.Since(start))
	ie.metrics.UpdateSystemMetrics()
	return err
}

func (ie *InstrumentedEngine) Snapshot() protocol.Snapshot {
	start := time.Now()
	snap := ie.engine.Snapshot()
	ie.metrics.TrackSnapshot(time.Since(start))
	return snap
}

// StartMetricsReporting starts periodic metrics reporting
func StartMetricsReporting(ctx context.Context, metrics *PerformanceMetrics, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.LogMetrics()
			}
		}
	}()
}
