package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/VoidMesh/horizon/internal/clock"
	"github.com/VoidMesh/horizon/internal/config"
	"github.com/VoidMesh/horizon/internal/terrain"
)

// Config holds the constants fixed at simulation start.
type Config struct {
	FixedStep     float64
	MaxFrameTime  float64
	MoveSpeed     float64
	CameraOffset  mgl64.Vec3
	StartPosition mgl64.Vec3
}

// DefaultConfig returns the reference constants: 60 Hz ticks, a quarter
// second frame clamp and 100 units/s movement.
func DefaultConfig() Config {
	return Config{
		FixedStep:    clock.DefaultFixedStep,
		MaxFrameTime: clock.DefaultMaxFrameTime,
		MoveSpeed:    100,
		CameraOffset: mgl64.Vec3{0, 150, 300},
	}
}

// ConfigFrom converts the loaded simulation settings.
func ConfigFrom(c config.SimulationConfig) Config {
	return Config{
		FixedStep:     c.FixedStep(),
		MaxFrameTime:  c.MaxFrameTime.Seconds(),
		MoveSpeed:     c.MoveSpeed,
		CameraOffset:  mgl64.Vec3(c.CameraOffset),
		StartPosition: mgl64.Vec3(c.StartPosition),
	}
}

// Deps are the external collaborators. Input and Renderer are required; a nil
// HUD drops debug text and a nil Logger uses the default logger.
type Deps struct {
	Input    Input
	Renderer Renderer
	HUD      HUD
	Logger   *log.Logger
}

// Simulation owns one observer, one terrain patch and one clock. Apart from
// Stop and Stopped it is not safe for concurrent use; Run and Frame must be
// called from a single goroutine.
type Simulation struct {
	id     uuid.UUID
	cfg    Config
	patch  *terrain.Patch
	clock  *clock.Clock
	timer  clock.FrameTimer
	logger *log.Logger

	input    Input
	renderer Renderer
	hud      HUD

	observer   Observer
	stats      Stats
	hudFailing bool
	stopped    atomic.Bool
}

// New wires a simulation and recenters the patch under the start position.
func New(cfg Config, patch *terrain.Patch, deps Deps) (*Simulation, error) {
	if patch == nil {
		return nil, ErrNilPatch
	}
	if deps.Input == nil {
		return nil, ErrNilInput
	}
	if deps.Renderer == nil {
		return nil, ErrNilRenderer
	}
	if math.IsNaN(cfg.MoveSpeed) || math.IsInf(cfg.MoveSpeed, 0) || cfg.MoveSpeed < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, cfg.MoveSpeed)
	}

	clk, err := clock.New(cfg.FixedStep, cfg.MaxFrameTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create simulation clock: %w", err)
	}

	id := uuid.New()
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Simulation{
		id:       id,
		cfg:      cfg,
		patch:    patch,
		clock:    clk,
		logger:   logger.With("sim_id", id.String()),
		input:    deps.Input,
		renderer: deps.Renderer,
		hud:      deps.HUD,
		observer: Observer{Position: cfg.StartPosition},
	}
	patch.Recenter(cfg.StartPosition.X(), cfg.StartPosition.Z())

	s.logger.Debug("Simulation created",
		"fixed_step", cfg.FixedStep,
		"max_frame_time", cfg.MaxFrameTime,
		"vertices", patch.VertexCount())
	return s, nil
}

// Tick advances the observer by one fixed step and recenters the terrain
// under it.
func (s *Simulation) Tick(step float64) {
	speed := s.cfg.MoveSpeed
	s.observer.Velocity = mgl64.Vec3{
		axis(s.input, KeyLeft, KeyRight) * speed,
		0,
		axis(s.input, KeyForward, KeyBack) * speed,
	}
	s.observer.Position = s.observer.Position.Add(s.observer.Velocity.Mul(step))
	s.patch.Recenter(s.observer.Position.X(), s.observer.Position.Z())
}

// axis is -1 when only neg is held, +1 when only pos is held and 0 otherwise.
func axis(in Input, neg, pos Key) float64 {
	n, p := in.IsPressed(neg), in.IsPressed(pos)
	switch {
	case n && !p:
		return -1
	case p && !n:
		return 1
	default:
		return 0
	}
}

// Frame is the per-frame entry point. ts is the frame timestamp; the first
// frame only establishes the time base. All ticks due are drained before the
// single render. Render failures are returned, HUD failures are not.
func (s *Simulation) Frame(ts time.Duration) error {
	elapsed := s.timer.Elapsed(ts)

	var frame Frame
	n, err := s.clock.Advance(elapsed, s.Tick, func() error {
		s.stats.Frames++
		s.stats.Ticks = s.clock.Ticks()
		s.stats.LastElapsed = elapsed

		frame = Frame{
			Number:   s.stats.Frames,
			Alpha:    s.clock.Alpha(),
			Mesh:     s.patch.Mesh(),
			Camera:   s.Camera(),
			Observer: s.observer,
		}
		return nil
	})
	if err != nil {
		return err
	}
	frame.Ticks = n
	s.stats.LastTicks = n

	if err := s.renderer.Render(frame); err != nil {
		return fmt.Errorf("failed to render frame %d: %w", frame.Number, err)
	}
	s.patch.MarkUploaded()

	s.showHUD()
	return nil
}

func (s *Simulation) showHUD() {
	if s.hud == nil {
		return
	}
	if err := s.hud.Show(FormatDebug(s.Debug())); err != nil {
		if !s.hudFailing {
			s.logger.Warn("HUD unavailable, dropping debug text", "error", err)
			s.hudFailing = true
		}
		return
	}
	if s.hudFailing {
		s.logger.Info("HUD recovered")
		s.hudFailing = false
	}
}

// Run requests frames from sched and processes each one to completion until
// Stop is called, ctx is done or sched reports ErrDone. Stop and
// cancellation only take effect between frames. A render error ends the run
// and is returned.
func (s *Simulation) Run(ctx context.Context, sched Scheduler) error {
	s.logger.Info("Simulation loop started")
	defer func() {
		s.logger.Info("Simulation loop stopped", "frames", s.stats.Frames, "ticks", s.stats.Ticks)
	}()

	for {
		if s.stopped.Load() || ctx.Err() != nil {
			return nil
		}

		ts, err := sched.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrDone) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to schedule frame: %w", err)
		}

		if s.stopped.Load() {
			return nil
		}
		if err := s.Frame(ts); err != nil {
			return err
		}
	}
}

// Stop asks Run to return before the next frame. It is safe to call from any
// goroutine and more than once.
func (s *Simulation) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		s.logger.Debug("Stop requested")
	}
}

func (s *Simulation) Stopped() bool {
	return s.stopped.Load()
}

func (s *Simulation) ID() uuid.UUID {
	return s.id
}

func (s *Simulation) Observer() Observer {
	return s.observer
}

// Camera sits at CameraOffset from the observer, looking at it.
func (s *Simulation) Camera() CameraPose {
	pos := s.observer.Position
	return CameraPose{
		Position: pos.Add(s.cfg.CameraOffset),
		Target:   pos,
		Up:       mgl64.Vec3{0, 1, 0},
	}
}

func (s *Simulation) Stats() Stats {
	return s.stats
}

func (s *Simulation) Patch() *terrain.Patch {
	return s.patch
}

func (s *Simulation) Config() Config {
	return s.cfg
}

// Debug snapshots the state shown on the HUD.
func (s *Simulation) Debug() DebugState {
	pos := s.observer.Position
	cx, cz := s.patch.Center()

	keys := make([]KeyState, len(Keys))
	for i, k := range Keys {
		keys[i] = KeyState{Key: k, Pressed: s.input.IsPressed(k)}
	}

	return DebugState{
		Observer: s.observer,
		CenterX:  cx,
		CenterZ:  cz,
		Ground:   s.patch.GroundHeight(pos.X(), pos.Z()),
		Frames:   s.stats.Frames,
		Ticks:    s.stats.Ticks,
		Keys:     keys,
	}
}
