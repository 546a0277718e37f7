package replay

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/VoidMesh/horizon/internal/config"
	"github.com/VoidMesh/horizon/internal/logging"
	"github.com/VoidMesh/horizon/internal/noise"
	"github.com/VoidMesh/horizon/internal/sim"
	"github.com/VoidMesh/horizon/internal/terrain"
)

// Result summarizes one completed replay.
type Result struct {
	Name     string
	ID       uuid.UUID
	Seed     int64
	Frames   uint64
	Ticks    uint64
	Uploads  int
	Observer sim.Observer
	CenterX  float64
	CenterZ  float64
	// TerrainHash fingerprints the final patch heights; equal seeds and
	// scripts produce equal hashes.
	TerrainHash uint64
	Wall        time.Duration
}

// counter is the render sink for headless replays.
type counter struct {
	frames  int
	uploads int
}

func (c *counter) Render(frame sim.Frame) error {
	c.frames++
	if frame.Mesh.Dirty {
		c.uploads++
	}
	return nil
}

// Run plays a script against a fresh simulation built from cfg and returns
// once every scripted frame has been processed.
func Run(ctx context.Context, cfg *config.Config, script *Script) (Result, error) {
	if err := script.Validate(); err != nil {
		return Result{}, err
	}

	seed := noise.ParseSeed(cfg.Terrain.Seed)
	world, err := terrain.NewWorld(cfg.Terrain, seed)
	if err != nil {
		return Result{}, err
	}
	patch, err := world.NewPatch(cfg.Terrain)
	if err != nil {
		return Result{}, err
	}

	player := NewPlayer(script, false)
	sink := &counter{}
	s, err := sim.New(sim.ConfigFrom(cfg.Simulation), patch, sim.Deps{
		Input:    player,
		Renderer: sink,
		Logger:   logging.GetLogger(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to create simulation for %q: %w", script.Name, err)
	}

	logger := logging.WithSimulation(s.ID().String()).With("script", script.Name)
	logger.Debug("Replay started", "frames", script.Frames, "seed", seed)

	start := time.Now()
	if err := s.Run(ctx, player); err != nil {
		return Result{}, fmt.Errorf("replay %q failed: %w", script.Name, err)
	}

	stats := s.Stats()
	if stats.Frames < uint64(script.Frames) {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("replay %q interrupted after %d frames: %w", script.Name, stats.Frames, err)
		}
	}
	cx, cz := patch.Center()
	res := Result{
		Name:        script.Name,
		ID:          s.ID(),
		Seed:        seed,
		Frames:      stats.Frames,
		Ticks:       stats.Ticks,
		Uploads:     sink.uploads,
		Observer:    s.Observer(),
		CenterX:     cx,
		CenterZ:     cz,
		TerrainHash: hashHeights(patch),
		Wall:        time.Since(start),
	}

	logger.Info("Replay finished",
		"frames", res.Frames,
		"ticks", res.Ticks,
		"x", res.Observer.Position.X(),
		"z", res.Observer.Position.Z(),
		"duration", res.Wall)
	return res, nil
}

// RunAll runs each script on its own simulation with at most parallelism
// running at once. Results are in script order. An unset seed is resolved
// once so every script sees the same world.
func RunAll(ctx context.Context, cfg *config.Config, scripts []*Script, parallelism int) ([]Result, error) {
	shared := *cfg
	shared.Terrain.Seed = strconv.FormatInt(noise.ParseSeed(cfg.Terrain.Seed), 10)
	// Octave slices are only read, sharing them is fine.

	start := time.Now()
	results := make([]Result, len(scripts))
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}

	for i, script := range scripts {
		g.Go(func() error {
			res, err := Run(ctx, &shared, script)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logging.WithDuration("replay_all", time.Since(start)).Info("Replays finished", "scripts", len(scripts), "parallel", parallelism)
	return results, nil
}

func hashHeights(p *terrain.Patch) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for i := 0; i < p.VertexCount(); i++ {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.HeightAt(i)))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// Log writes a one-line summary per result.
func Log(logger *log.Logger, results []Result) {
	for _, r := range results {
		pos := r.Observer.Position
		logger.Info(r.Name,
			"id", r.ID,
			"frames", r.Frames,
			"ticks", r.Ticks,
			"position", fmt.Sprintf("(%.4f, %.4f, %.4f)", pos.X(), pos.Y(), pos.Z()),
			"terrain", fmt.Sprintf("%016x", r.TerrainHash))
	}
}
