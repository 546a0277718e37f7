// Package sim runs the observer over a floating-origin terrain patch on a
// fixed timestep and hands each frame to pluggable input, render and HUD
// collaborators.
package sim

//go:generate mockgen -source=sim.go -destination=../testmocks/sim/mock_sim.go -package=mocksim

import (
	"context"
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/VoidMesh/horizon/internal/terrain"
)

var (
	ErrNilInput    = errors.New("input source is required")
	ErrNilRenderer = errors.New("renderer is required")
	ErrNilPatch    = errors.New("terrain patch is required")
	ErrInvalidMove = errors.New("move speed must be a non-negative number")

	// ErrDone is returned by a Scheduler that has no more frames to offer.
	// Run treats it as a clean stop.
	ErrDone = errors.New("no more frames")
)

// Key identifies a directional input. Values are lower-case key names.
type Key string

const (
	KeyForward Key = "w"
	KeyBack    Key = "s"
	KeyLeft    Key = "a"
	KeyRight   Key = "d"
)

// Keys lists the movement keys in display order.
var Keys = []Key{KeyForward, KeyLeft, KeyBack, KeyRight}

// Input reports whether a key is currently held.
type Input interface {
	IsPressed(key Key) bool
}

// Renderer consumes a frame. It is called at most once per frame, after every
// tick of that frame has run.
type Renderer interface {
	Render(frame Frame) error
}

// HUD displays debug text. Failures are never fatal to the loop.
type HUD interface {
	Show(text string) error
}

// Scheduler yields monotonically increasing frame timestamps, blocking until
// the next frame is due.
type Scheduler interface {
	Next(ctx context.Context) (time.Duration, error)
}

// Observer is the moving viewpoint the terrain follows.
type Observer struct {
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
}

// CameraPose places the render camera.
type CameraPose struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
	Up       mgl64.Vec3 `json:"up"`
}

// View returns the right-handed look-at matrix for the pose.
func (c CameraPose) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Frame is everything a renderer needs for one frame. Mesh aliases the
// patch's buffers and is only valid for the duration of Render.
type Frame struct {
	Number   uint64
	Ticks    int
	Alpha    float64
	Mesh     terrain.Mesh
	Camera   CameraPose
	Observer Observer
}

// Stats counts loop activity.
type Stats struct {
	Frames      uint64  `json:"frames"`
	Ticks       uint64  `json:"ticks"`
	LastTicks   int     `json:"last_ticks"`
	LastElapsed float64 `json:"last_elapsed"`
}
