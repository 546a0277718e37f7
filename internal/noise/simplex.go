package noise

import "math"

var (
	skew   = 0.5 * (math.Sqrt(3) - 1)
	unskew = (3 - math.Sqrt(3)) / 6
)

// Gradient directions for the 2D lattice: the 12 edge midpoints of a cube
// projected onto the plane.
var gradients = [12][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {1, 0}, {-1, 0},
	{0, 1}, {0, -1}, {0, 1}, {0, -1},
}

// Simplex is 2D simplex noise over a seeded permutation table.
type Simplex struct {
	seed      int64
	perm      [512]uint8
	permMod12 [512]uint8
}

// NewSimplex builds the permutation table for seed. Identical seeds produce
// identical tables on every platform.
func NewSimplex(seed int64) *Simplex {
	s := &Simplex{seed: seed}

	var base [256]uint8
	for i := range base {
		base[i] = uint8(i)
	}

	state := uint64(seed)
	for i := 255; i > 0; i-- {
		j := splitMix64(&state) % uint64(i+1)
		base[i], base[j] = base[j], base[i]
	}

	for i := range s.perm {
		s.perm[i] = base[i&255]
		s.permMod12[i] = s.perm[i] % 12
	}
	return s
}

// Seed returns the seed the table was built from.
func (s *Simplex) Seed() int64 {
	return s.seed
}

// Sample evaluates the noise at (x, z).
func (s *Simplex) Sample(x, z float64) float64 {
	// Skew into simplex cell space and find the containing cell.
	sk := (x + z) * skew
	i := math.Floor(x + sk)
	j := math.Floor(z + sk)

	t := (i + j) * unskew
	x0 := x - (i - t)
	z0 := z - (j - t)

	// Which of the two triangles of the cell holds the point.
	var i1, j1 int
	if x0 > z0 {
		i1, j1 = 1, 0
	} else {
		i1, j1 = 0, 1
	}

	x1 := x0 - float64(i1) + unskew
	z1 := z0 - float64(j1) + unskew
	x2 := x0 - 1 + 2*unskew
	z2 := z0 - 1 + 2*unskew

	ii := int(int64(i) & 255)
	jj := int(int64(j) & 255)
	g0 := s.permMod12[ii+int(s.perm[jj])]
	g1 := s.permMod12[ii+i1+int(s.perm[jj+j1])]
	g2 := s.permMod12[ii+1+int(s.perm[jj+1])]

	n := corner(g0, x0, z0) + corner(g1, x1, z1) + corner(g2, x2, z2)

	// 70 scales the sum to roughly [-1, 1].
	return clamp(70 * n)
}

func corner(g uint8, x, z float64) float64 {
	t := 0.5 - x*x - z*z
	if t < 0 {
		return 0
	}
	t *= t
	grad := gradients[g]
	return t * t * (grad[0]*x + grad[1]*z)
}

func splitMix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
