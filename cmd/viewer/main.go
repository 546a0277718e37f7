package main

import (
	"flag"
	"os"
	"time"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/VoidMesh/horizon/internal/config"
	"github.com/VoidMesh/horizon/internal/logging"
	"github.com/VoidMesh/horizon/internal/noise"
	"github.com/VoidMesh/horizon/internal/sim"
	"github.com/VoidMesh/horizon/internal/terrain"
)

func main() {
	seedFlag := flag.String("seed", "", "World seed (overrides TERRAIN_SEED)")
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	fovy := flag.Float64("fov", 60, "Vertical field of view in degrees")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}
	if *seedFlag != "" {
		cfg.Terrain.Seed = *seedFlag
	}
	logger := logging.Setup(cfg.Logging, os.Stderr)

	seed := noise.ParseSeed(cfg.Terrain.Seed)
	world, err := terrain.NewWorld(cfg.Terrain, seed)
	if err != nil {
		log.Fatal("Failed to create world", "error", err)
	}
	patch, err := world.NewPatch(cfg.Terrain)
	if err != nil {
		log.Fatal("Failed to create terrain patch", "error", err)
	}

	sc := &scene{bound: world.Sampler.Bound(), fovy: float32(*fovy)}
	s, err := sim.New(sim.ConfigFrom(cfg.Simulation), patch, sim.Deps{
		Input:    keyboard{},
		Renderer: sc,
		HUD:      sc,
		Logger:   logger,
	})
	if err != nil {
		log.Fatal("Failed to create simulation", "error", err)
	}

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(*width), int32(*height), "Horizon")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Simulation.FrameRate))

	logger.Info("Viewer started", "seed", seed, "sim_id", s.ID(), "triangles", patch.TriangleCount())

	// raylib paces the loop; its monotonic clock supplies frame timestamps.
	for !rl.WindowShouldClose() && !s.Stopped() {
		if rl.IsKeyPressed(rl.KeyQ) {
			s.Stop()
			break
		}

		ts := time.Duration(rl.GetTime() * float64(time.Second))

		rl.BeginDrawing()
		err := s.Frame(ts)
		rl.DrawFPS(int32(*width)-90, 10)
		rl.EndDrawing()

		if err != nil {
			logger.Error("Frame failed", "error", err)
			break
		}
	}

	stats := s.Stats()
	logger.Info("Viewer closed", "frames", stats.Frames, "ticks", stats.Ticks)
}
