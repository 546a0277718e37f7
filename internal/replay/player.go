package replay

import (
	"context"
	"sync"
	"time"

	"github.com/VoidMesh/horizon/internal/input"
	"github.com/VoidMesh/horizon/internal/sim"
)

// Player feeds a script to a simulation. It is a sim.Input whose key state
// follows the script and a sim.Scheduler that yields one timestamp per
// scripted frame, without sleeping, then sim.ErrDone.
type Player struct {
	script *Script
	loop   bool

	mu     sync.Mutex
	held   map[sim.Key]bool
	frame  int
	cycle  int
	cursor int
}

// NewPlayer creates a player. When loop is set the script restarts from
// frame 0 with all keys released instead of ending.
func NewPlayer(script *Script, loop bool) *Player {
	return &Player{
		script: script,
		loop:   loop,
		held:   make(map[sim.Key]bool),
	}
}

func (p *Player) IsPressed(key sim.Key) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.held[input.Normalize(string(key))]
}

// Next applies the events of the next frame and returns its scripted
// timestamp.
func (p *Player) Next(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	frame, ok := p.step()
	if !ok {
		return 0, sim.ErrDone
	}
	return p.script.Timestamp(frame), nil
}

// step applies the next frame's events and returns its absolute index
// across loop cycles.
func (p *Player) step() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.frame >= p.script.Frames {
		if !p.loop {
			return 0, false
		}
		p.cycle++
		p.frame = 0
		p.cursor = 0
		clear(p.held)
	}

	events := p.script.Events
	for p.cursor < len(events) && events[p.cursor].Frame == p.frame {
		e := events[p.cursor]
		for _, k := range e.Press {
			p.held[input.Normalize(k)] = true
		}
		for _, k := range e.Release {
			delete(p.held, input.Normalize(k))
		}
		p.cursor++
	}

	abs := p.cycle*p.script.Frames + p.frame
	p.frame++
	return abs, true
}

// Pace returns a scheduler that takes its timestamps from inner while still
// stepping the script once per frame, for hosts that run in real time.
func (p *Player) Pace(inner sim.Scheduler) sim.Scheduler {
	return pacedScheduler{player: p, inner: inner}
}

type pacedScheduler struct {
	player *Player
	inner  sim.Scheduler
}

func (s pacedScheduler) Next(ctx context.Context) (time.Duration, error) {
	ts, err := s.inner.Next(ctx)
	if err != nil {
		return 0, err
	}
	if _, ok := s.player.step(); !ok {
		return 0, sim.ErrDone
	}
	return ts, nil
}
