package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/VoidMesh/horizon/internal/sim"
)

// KeySet is an Input whose held keys are set directly by the test.
type KeySet map[sim.Key]bool

func (k KeySet) IsPressed(key sim.Key) bool {
	return k[key]
}

// Hold returns a KeySet with the given keys held.
func Hold(keys ...sim.Key) KeySet {
	set := KeySet{}
	for _, key := range keys {
		set[key] = true
	}
	return set
}

// RecordingRenderer stores every frame it is handed. Err, when set, is
// returned from Render after recording.
type RecordingRenderer struct {
	mu     sync.Mutex
	frames []sim.Frame
	Err    error
}

func (r *RecordingRenderer) Render(frame sim.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
	return r.Err
}

// Frames returns a copy of the recorded frames.
func (r *RecordingRenderer) Frames() []sim.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sim.Frame(nil), r.frames...)
}

// Last returns the most recent frame and whether any was recorded.
func (r *RecordingRenderer) Last() (sim.Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return sim.Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

// RecordingHUD stores every text it is shown.
type RecordingHUD struct {
	mu    sync.Mutex
	texts []string
	Err   error
}

func (h *RecordingHUD) Show(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return h.Err
	}
	h.texts = append(h.texts, text)
	return nil
}

func (h *RecordingHUD) Texts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.texts...)
}

// StepScheduler yields Frames timestamps Interval apart, starting at zero,
// then reports sim.ErrDone. OnFrame, when set, runs before each timestamp is
// returned with the zero-based index of that frame.
type StepScheduler struct {
	Interval time.Duration
	Frames   int
	OnFrame  func(i int)

	next int
}

func (s *StepScheduler) Next(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.next >= s.Frames {
		return 0, sim.ErrDone
	}
	i := s.next
	s.next++
	if s.OnFrame != nil {
		s.OnFrame(i)
	}
	return time.Duration(i) * s.Interval, nil
}
