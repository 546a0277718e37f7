package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/VoidMesh/horizon/cmd/debug/models"
	"github.com/VoidMesh/horizon/internal/config"
	"github.com/VoidMesh/horizon/internal/input"
	"github.com/VoidMesh/horizon/internal/logging"
	"github.com/VoidMesh/horizon/internal/noise"
	"github.com/VoidMesh/horizon/internal/render/terminal"
	"github.com/VoidMesh/horizon/internal/sim"
	"github.com/VoidMesh/horizon/internal/terrain"
)

func main() {
	seedFlag := flag.String("seed", "", "World seed (overrides TERRAIN_SEED)")
	logLevel := flag.String("log", "", "Log level (debug, info, warn, error)")
	hold := flag.Duration("hold", 150*time.Millisecond, "Release keys not re-reported within this long (0 disables)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}
	if *seedFlag != "" {
		cfg.Terrain.Seed = *seedFlag
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	// The TUI owns the terminal; logs only go to a file when DEBUG is set.
	var logOut io.Writer = io.Discard
	if len(os.Getenv("DEBUG")) > 0 {
		f, err := os.OpenFile("debug.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Println("fatal:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.Setup(cfg.Logging, logOut)

	seed := noise.ParseSeed(cfg.Terrain.Seed)
	world, err := terrain.NewWorld(cfg.Terrain, seed)
	if err != nil {
		fatal("Failed to create world", err)
	}
	patch, err := world.NewPatch(cfg.Terrain)
	if err != nil {
		fatal("Failed to create terrain patch", err)
	}

	heightmap, err := terminal.NewHeightmap(60, 24, world.Sampler.Bound())
	if err != nil {
		fatal("Failed to create heightmap", err)
	}
	keyboard := input.NewKeyboard(*hold)
	hud := models.NewHUDPanel()

	s, err := sim.New(sim.ConfigFrom(cfg.Simulation), patch, sim.Deps{
		Input:    keyboard,
		Renderer: heightmap,
		HUD:      hud,
		Logger:   logger,
	})
	if err != nil {
		fatal("Failed to create simulation", err)
	}

	app := models.NewApp(s, keyboard, heightmap, hud, cfg.Simulation.FrameInterval(), logger)
	program := tea.NewProgram(app, tea.WithAltScreen())

	logger.Info("Starting Horizon terminal host", "seed", seed, "sim_id", s.ID())

	if _, err := program.Run(); err != nil {
		fatal("Error running terminal host", err)
	}
	if err := app.Err(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}

	stats := s.Stats()
	fmt.Printf("Stopped after %d frames, %d ticks (seed %d)\n", stats.Frames, stats.Ticks, seed)
}

// fatal reports to the terminal as well, since logs may be discarded.
func fatal(msg string, err error) {
	log.Error(msg, "error", err)
	fmt.Fprintf(os.Stderr, "fatal: %s: %v\n", msg, err)
	os.Exit(1)
}
