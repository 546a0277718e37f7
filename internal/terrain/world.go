package terrain

import (
	"fmt"

	"github.com/VoidMesh/horizon/internal/config"
	"github.com/VoidMesh/horizon/internal/noise"
)

// World bundles the immutable height function with the noise settings it was
// built from. The Sampler may be shared between any number of patches.
type World struct {
	Seed    int64
	Noise   noise.Kind
	Sampler *Sampler
}

// OctavesFromConfig converts configured octave layers.
func OctavesFromConfig(layers []config.OctaveConfig) []Octave {
	octaves := make([]Octave, len(layers))
	for i, l := range layers {
		octaves[i] = Octave{Divisor: l.Divisor, Weight: l.Weight}
	}
	return octaves
}

// NewWorld builds the height function described by cfg using seed.
func NewWorld(cfg config.TerrainConfig, seed int64) (*World, error) {
	kind := noise.Kind(cfg.Noise)
	field, err := noise.New(kind, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create noise field: %w", err)
	}

	sampler, err := NewSampler(field, cfg.Amplitude, OctavesFromConfig(cfg.Octaves))
	if err != nil {
		return nil, fmt.Errorf("failed to create height sampler: %w", err)
	}

	return &World{Seed: seed, Noise: kind, Sampler: sampler}, nil
}

// NewPatch builds a fresh patch over the world's height function.
func (w *World) NewPatch(cfg config.TerrainConfig) (*Patch, error) {
	patch, err := NewPatch(cfg.Size, cfg.Segments, w.Sampler)
	if err != nil {
		return nil, fmt.Errorf("failed to create terrain patch: %w", err)
	}
	return patch, nil
}
