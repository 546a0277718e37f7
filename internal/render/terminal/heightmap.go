// Package terminal renders the terrain patch as a coloured top-down character
// map for the TUI host.
package terminal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/VoidMesh/horizon/internal/sim"
)

var (
	ErrInvalidGrid  = errors.New("heightmap grid must be at least 1x1")
	ErrInvalidBound = errors.New("height bound must be positive")
	ErrEmptyMesh    = errors.New("mesh has no vertices")
)

// Heightmap is a sim.Renderer that downsamples the patch into a cols x rows
// grid of height bands. Row 0 is the far (-Z) edge, so moving forward scrolls
// terrain down the screen. The observer sits at the grid center.
type Heightmap struct {
	cols, rows int
	bound      float64

	mu    sync.Mutex
	grid  [][]Band
	view  string
	frame uint64
}

// NewHeightmap creates a renderer. bound is the largest height magnitude the
// sampler can produce and is used to normalise heights into bands.
func NewHeightmap(cols, rows int, bound float64) (*Heightmap, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidGrid, cols, rows)
	}
	if !(bound > 0) || math.IsInf(bound, 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidBound, bound)
	}
	return &Heightmap{cols: cols, rows: rows, bound: bound}, nil
}

// Render implements sim.Renderer.
func (h *Heightmap) Render(frame sim.Frame) error {
	positions := frame.Mesh.Positions
	if len(positions) == 0 {
		return ErrEmptyMesh
	}
	stride := int(math.Round(math.Sqrt(float64(len(positions)))))

	h.mu.Lock()
	cols, rows := h.cols, h.rows
	h.mu.Unlock()

	grid := make([][]Band, rows)
	for r := range grid {
		grid[r] = make([]Band, cols)
		vr := sampleIndex(r, rows, stride)
		for c := range grid[r] {
			vc := sampleIndex(c, cols, stride)
			height := positions[vr*stride+vc][1]
			grid[r][c] = BandFor(height / h.bound)
		}
	}

	view := paint(grid)

	h.mu.Lock()
	h.grid = grid
	h.view = view
	h.frame = frame.Number
	h.mu.Unlock()
	return nil
}

// sampleIndex maps cell i of n onto a vertex index in [0, stride).
func sampleIndex(i, n, stride int) int {
	if n == 1 {
		return stride / 2
	}
	return int(math.Round(float64(i) * float64(stride-1) / float64(n-1)))
}

func paint(grid [][]Band) string {
	rows := len(grid)
	cols := len(grid[0])
	midR, midC := rows/2, cols/2

	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, band := range row {
			if r == midR && c == midC {
				b.WriteString(ObserverStyle.Render(string(ObserverSymbol)))
				continue
			}
			b.WriteString(band.Style().Render(string(band.Symbol())))
		}
	}
	return b.String()
}

// View returns the most recently rendered map, styled for the terminal.
func (h *Heightmap) View() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view
}

// Plain returns the most recent map as unstyled symbols, one line per row.
func (h *Heightmap) Plain() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grid == nil {
		return ""
	}
	midR, midC := len(h.grid)/2, len(h.grid[0])/2
	lines := make([]string, len(h.grid))
	for r, row := range h.grid {
		runes := make([]rune, len(row))
		for c, band := range row {
			runes[c] = band.Symbol()
		}
		if r == midR {
			runes[midC] = ObserverSymbol
		}
		lines[r] = string(runes)
	}
	return strings.Join(lines, "\n")
}

// Bands returns a copy of the most recent band grid.
func (h *Heightmap) Bands() [][]Band {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([][]Band, len(h.grid))
	for i, row := range h.grid {
		out[i] = append([]Band(nil), row...)
	}
	return out
}

// Frame returns the number of the last rendered frame.
func (h *Heightmap) Frame() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame
}

// Resize changes the grid dimensions used from the next render on.
func (h *Heightmap) Resize(cols, rows int) error {
	if cols < 1 || rows < 1 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidGrid, cols, rows)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cols, h.rows = cols, rows
	return nil
}
