package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Perlin adapts classic Perlin noise to Field.
type Perlin struct {
	noise *perlin.Perlin
	seed  int64
}

// NewPerlin creates a Perlin field. alpha=2, beta=2, n=3 give smooth
// terrain-like output.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{
		noise: perlin.NewPerlin(2, 2, 3, seed),
		seed:  seed,
	}
}

func (p *Perlin) Sample(x, z float64) float64 {
	return clamp(p.noise.Noise2D(x, z))
}

func (p *Perlin) Seed() int64 {
	return p.seed
}

// OpenSimplex adapts OpenSimplex noise to Field.
type OpenSimplex struct {
	noise opensimplex.Noise
	seed  int64
}

func NewOpenSimplex(seed int64) *OpenSimplex {
	return &OpenSimplex{
		noise: opensimplex.New(seed),
		seed:  seed,
	}
}

func (o *OpenSimplex) Sample(x, z float64) float64 {
	return clamp(o.noise.Eval2(x, z))
}

func (o *OpenSimplex) Seed() int64 {
	return o.seed
}
