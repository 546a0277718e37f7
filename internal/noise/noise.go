// Package noise provides deterministic 2D scalar noise fields used to build
// terrain height functions. Every Field returns values in [-1, 1] and holds
// no mutable state after construction, so a Field may be shared freely.
package noise

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Field is a deterministic 2D noise function.
type Field interface {
	// Sample returns the noise value at (x, z), always within [-1, 1].
	// NaN and infinite inputs are not supported.
	Sample(x, z float64) float64
}

// Kind selects a noise backend.
type Kind string

const (
	KindSimplex     Kind = "simplex"
	KindOpenSimplex Kind = "opensimplex"
	KindPerlin      Kind = "perlin"
)

var ErrUnknownKind = errors.New("unknown noise kind")

// New creates a Field of the given kind.
func New(kind Kind, seed int64) (Field, error) {
	switch Kind(strings.ToLower(string(kind))) {
	case KindSimplex, "":
		return NewSimplex(seed), nil
	case KindOpenSimplex:
		return NewOpenSimplex(seed), nil
	case KindPerlin:
		return NewPerlin(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// ParseSeed turns a configured seed into a numeric one. Decimal integers are
// used as-is, any other text names a world and is hashed, and an empty value
// yields a random seed.
func ParseSeed(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return RandomSeed()
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	return int64(xxhash.Sum64String(s))
}

// RandomSeed returns a fresh non-deterministic seed.
func RandomSeed() int64 {
	return rand.Int64()
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
