package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/VoidMesh/horizon/internal/noise"
)

var (
	ErrNoOctaves        = errors.New("height sampler needs at least one octave")
	ErrInvalidOctave    = errors.New("octave divisor and weight must be positive")
	ErrInvalidAmplitude = errors.New("amplitude must be positive")
	ErrNilField         = errors.New("noise field is required")
)

// HeightFunc maps a world-space (x, z) to a terrain height.
type HeightFunc interface {
	Height(x, z float64) float64
}

// Octave is one noise layer: the field is sampled at (x/Divisor, z/Divisor)
// and scaled by Weight.
type Octave struct {
	Divisor float64 `json:"divisor"`
	Weight  float64 `json:"weight"`
}

// DefaultAmplitude scales the default octave sum to world units.
const DefaultAmplitude = 200.0

// DefaultOctaves returns the reference layering: large landforms, medium
// hills and small surface detail.
func DefaultOctaves() []Octave {
	return []Octave{
		{Divisor: 1000, Weight: 0.5},
		{Divisor: 200, Weight: 0.25},
		{Divisor: 50, Weight: 0.125},
	}
}

// Sampler sums weighted octaves of a noise field into a height function.
// It is immutable and safe for concurrent use.
type Sampler struct {
	field     noise.Field
	amplitude float64
	octaves   []Octave
	bound     float64
}

// NewSampler validates and copies the octave list.
func NewSampler(field noise.Field, amplitude float64, octaves []Octave) (*Sampler, error) {
	if field == nil {
		return nil, ErrNilField
	}
	if !positive(amplitude) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmplitude, amplitude)
	}
	if len(octaves) == 0 {
		return nil, ErrNoOctaves
	}

	weights := 0.0
	for i, o := range octaves {
		if !positive(o.Divisor) || !positive(o.Weight) {
			return nil, fmt.Errorf("%w: octave %d has divisor %v weight %v", ErrInvalidOctave, i, o.Divisor, o.Weight)
		}
		weights += o.Weight
	}

	return &Sampler{
		field:     field,
		amplitude: amplitude,
		octaves:   append([]Octave(nil), octaves...),
		bound:     amplitude * weights,
	}, nil
}

// Height returns amplitude * Σ weight_i * field(x/divisor_i, z/divisor_i).
func (s *Sampler) Height(x, z float64) float64 {
	sum := 0.0
	for _, o := range s.octaves {
		sum += o.Weight * s.field.Sample(x/o.Divisor, z/o.Divisor)
	}
	return s.amplitude * sum
}

// Bound is the largest magnitude Height can return.
func (s *Sampler) Bound() float64 {
	return s.bound
}

func (s *Sampler) Amplitude() float64 {
	return s.amplitude
}

// Octaves returns a copy of the octave list.
func (s *Sampler) Octaves() []Octave {
	return append([]Octave(nil), s.octaves...)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
