package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/VoidMesh/horizon/internal/api"
	"github.com/VoidMesh/horizon/internal/config"
	"github.com/VoidMesh/horizon/internal/input"
	"github.com/VoidMesh/horizon/internal/logging"
	"github.com/VoidMesh/horizon/internal/noise"
	"github.com/VoidMesh/horizon/internal/replay"
	"github.com/VoidMesh/horizon/internal/sim"
	"github.com/VoidMesh/horizon/internal/stream"
	"github.com/VoidMesh/horizon/internal/terrain"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	// Setup logging
	logger := logging.Setup(cfg.Logging, os.Stderr)
	logger.Debug("Configuration loaded",
		"server_port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"patch_size", cfg.Terrain.Size,
		"segments", cfg.Terrain.Segments)

	// Build the world
	seed := noise.ParseSeed(cfg.Terrain.Seed)
	world, err := terrain.NewWorld(cfg.Terrain, seed)
	if err != nil {
		log.Fatal("Failed to create world", "error", err)
	}
	patch, err := world.NewPatch(cfg.Terrain)
	if err != nil {
		log.Fatal("Failed to create terrain patch", "error", err)
	}
	logger.Info("World created", "seed", seed, "noise", world.Noise, "vertices", patch.VertexCount())

	hub := stream.NewHub(logger)

	// Input is scripted when INPUT_SCRIPT is set, otherwise the observer idles.
	var in sim.Input = input.NewKeyboard(0)
	ticker := sim.NewTickerScheduler(cfg.Simulation.FrameRate)
	defer ticker.Stop()
	var sched sim.Scheduler = ticker
	if path := os.Getenv("INPUT_SCRIPT"); path != "" {
		script, err := replay.LoadFile(path)
		if err != nil {
			log.Fatal("Failed to load input script", "error", err)
		}
		player := replay.NewPlayer(script, true)
		in = player
		sched = player.Pace(sched)
		logger.Info("Input script loaded", "script", script.Name, "frames", script.Frames)
	}

	s, err := sim.New(sim.ConfigFrom(cfg.Simulation), patch, sim.Deps{
		Input:    in,
		Renderer: hub,
		HUD:      hub,
		Logger:   logger,
	})
	if err != nil {
		log.Fatal("Failed to create simulation", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	simDone := make(chan error, 1)
	go func() {
		simDone <- s.Run(ctx, sched)
	}()

	// Initialize API handlers
	handler := api.NewHandler(hub, world, logger)
	router := api.SetupRoutes(handler, hub)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting Horizon server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
		logger.Debug("Server stopped listening")
	}()

	// Wait for interrupt signal or the simulation ending on its own
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutting down server...", "signal", sig.String())
		s.Stop()
		if err := <-simDone; err != nil {
			logger.Error("Simulation failed", "error", err)
		}
	case err := <-simDone:
		if err != nil {
			logger.Error("Simulation failed", "error", err)
		} else {
			logger.Info("Simulation finished")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	hub.Close()

	stats := s.Stats()
	logger.Info("Server exited", "frames", stats.Frames, "ticks", stats.Ticks)
}
