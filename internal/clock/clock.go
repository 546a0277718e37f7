// Package clock decouples fixed-rate simulation ticks from variable-rate
// rendering with an accumulator.
package clock

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidStep     = errors.New("fixed step must be positive and finite")
	ErrInvalidMaxFrame = errors.New("max frame time must be positive and finite")
)

const (
	// DefaultFixedStep is one 60 Hz simulation tick in seconds.
	DefaultFixedStep = 1.0 / 60.0
	// DefaultMaxFrameTime caps one frame's contribution to the accumulator.
	DefaultMaxFrameTime = 0.25

	// tolerance is the fraction of a step the drain loop forgives, so that
	// 60 frames of 1/60 s or one frame of 1 s yield exactly 60 ticks despite
	// binary rounding and nanosecond timestamp truncation. The shortfall is
	// carried as a negative remainder, so no time is created.
	tolerance = 1e-6
)

// Clock accumulates frame time and drains it in fixed steps. It is not safe
// for concurrent use.
type Clock struct {
	fixedStep    float64
	maxFrameTime float64
	accumulated  float64
	ticks        uint64
}

func New(fixedStep, maxFrameTime float64) (*Clock, error) {
	if !valid(fixedStep) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStep, fixedStep)
	}
	if !valid(maxFrameTime) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMaxFrame, maxFrameTime)
	}
	return &Clock{fixedStep: fixedStep, maxFrameTime: maxFrameTime}, nil
}

// Advance adds elapsed seconds, clamped to [0, maxFrameTime], runs tick once
// per whole fixed step accumulated and then calls render exactly once. It
// returns the number of ticks run and render's error unchanged. Either
// callback may be nil.
func (c *Clock) Advance(elapsed float64, tick func(step float64), render func() error) (int, error) {
	frame := elapsed
	if !(frame > 0) {
		frame = 0
	}
	frame = math.Min(frame, c.maxFrameTime)

	c.accumulated += frame

	n := 0
	threshold := c.fixedStep * (1 - tolerance)
	for c.accumulated >= threshold {
		if tick != nil {
			tick(c.fixedStep)
		}
		c.accumulated -= c.fixedStep
		n++
	}
	c.ticks += uint64(n)

	if render == nil {
		return n, nil
	}
	return n, render()
}

// Accumulated is the unconsumed time in seconds. It stays below one step and
// dips under zero by at most the drain tolerance.
func (c *Clock) Accumulated() float64 {
	return c.accumulated
}

func (c *Clock) FixedStep() float64 {
	return c.fixedStep
}

func (c *Clock) MaxFrameTime() float64 {
	return c.maxFrameTime
}

// Ticks is the total number of ticks run over the clock's lifetime.
func (c *Clock) Ticks() uint64 {
	return c.ticks
}

// Alpha is the fraction of a step left in the accumulator, usable to
// interpolate render state between the last two ticks.
func (c *Clock) Alpha() float64 {
	return math.Max(0, c.accumulated/c.fixedStep)
}

// MaxTicksPerFrame bounds how many ticks a single Advance can run.
func (c *Clock) MaxTicksPerFrame() int {
	return int(math.Ceil(c.maxFrameTime / c.fixedStep))
}

// FrameTimer converts monotonically increasing frame timestamps into
// elapsed seconds.
type FrameTimer struct {
	last    time.Duration
	started bool
}

// Elapsed returns the seconds since the previous timestamp. The first call
// and any timestamp earlier than the previous one return 0.
func (f *FrameTimer) Elapsed(ts time.Duration) float64 {
	if !f.started {
		f.started = true
		f.last = ts
		return 0
	}
	if ts < f.last {
		f.last = ts
		return 0
	}
	d := ts - f.last
	f.last = ts
	return d.Seconds()
}

// Reset forgets the previous timestamp.
func (f *FrameTimer) Reset() {
	*f = FrameTimer{}
}

func valid(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
