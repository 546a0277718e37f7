// Package input tracks which keys are held, fed by whatever event source the
// host has.
package input

import (
	"strings"
	"sync"
	"time"

	"github.com/VoidMesh/horizon/internal/sim"
)

// Keyboard is a goroutine-safe set of held keys implementing sim.Input.
//
// Terminals often deliver only key presses (as auto-repeat) and never a
// release. With a non-zero hold timeout a key counts as released once no
// press has been seen for that long.
type Keyboard struct {
	mu      sync.Mutex
	pressed map[sim.Key]time.Time
	hold    time.Duration
	now     func() time.Time
}

// NewKeyboard creates a keyboard. hold <= 0 disables the timeout so keys stay
// held until Release.
func NewKeyboard(hold time.Duration) *Keyboard {
	return &Keyboard{
		pressed: make(map[sim.Key]time.Time),
		hold:    hold,
		now:     time.Now,
	}
}

// Normalize lower-cases a key name.
func Normalize(name string) sim.Key {
	return sim.Key(strings.ToLower(name))
}

// Press marks key as held, refreshing its hold timer.
func (k *Keyboard) Press(name string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pressed[Normalize(name)] = k.now()
}

func (k *Keyboard) Release(name string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.pressed, Normalize(name))
}

// Reset releases every key, e.g. when the window loses focus.
func (k *Keyboard) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clear(k.pressed)
}

func (k *Keyboard) IsPressed(key sim.Key) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	key = Normalize(string(key))
	at, ok := k.pressed[key]
	if !ok {
		return false
	}
	if k.hold > 0 && k.now().Sub(at) > k.hold {
		delete(k.pressed, key)
		return false
	}
	return true
}

// Held returns the currently held keys in no particular order.
func (k *Keyboard) Held() []sim.Key {
	k.mu.Lock()
	defer k.mu.Unlock()

	keys := make([]sim.Key, 0, len(k.pressed))
	now := k.now()
	for key, at := range k.pressed {
		if k.hold > 0 && now.Sub(at) > k.hold {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
