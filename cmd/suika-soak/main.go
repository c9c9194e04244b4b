package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/suika/config"
	"github.com/plus3/suika/physics"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The wall-clock duration the soak should run for.")
	configPath := flag.String("config", "", "Path to a YAML config file. The embedded defaults are used when empty.")
	dropEvery := flag.Duration("drop-every", 750*time.Millisecond, "Simulated time between random drops.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	verbose := flag.Bool("v", false, "Log game events.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts, err := cfg.GameOptions(logger)
	if err != nil {
		log.Fatalf("Failed to build game options: %v", err)
	}

	// Drop positions get their own stream so they never mirror the queue's draws.
	seed := cfg.Rand()
	dropRand := rand.New(rand.NewPCG(seed.Uint64()^0xa5a5a5a5a5a5a5a5, seed.Uint64()))

	log.Println("Starting soak test...")

	report := &Report{
		Duration:       *duration,
		Policy:         cfg.Policy.Kind,
		DropEvery:      *dropEvery,
		Droppable:      cfg.Spawn.Droppable,
		Ranks:          opts.Table.Count(),
		GCPauseMetrics: *gcPauseMetrics,
		StepTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	soak, err := NewSoak(physics.NewSim(cfg.SimConfig()), opts, cfg.Window.TPS, *dropEvery, dropRand, report)
	if err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			if err := soak.Tick(); err != nil {
				log.Fatalf("Soak failed: %v", err)
			}
		}
	}

	soak.Finish()
	report.TotalTime = time.Since(startTime)
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Soak finished.")

	fmt.Println("\n\n--- Soak Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
