// Package terrain turns a noise field into a heightfield and keeps a single
// square mesh patch centred under a moving observer.
package terrain

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidSegments = errors.New("segments must be at least 1")
	ErrInvalidSize     = errors.New("patch size must be positive and finite")
	ErrNilSampler      = errors.New("height function is required")
)

// CenterEpsilon is the largest per-axis center change Recenter treats as no
// movement.
const CenterEpsilon = 1e-9

// Mesh is a read-only view of a patch's render data. Positions are local to
// Origin; add Origin to get world space. The slices alias the patch and must
// not be modified.
type Mesh struct {
	Origin    mgl64.Vec3
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	Indices   []uint32
	Version   uint64
	Dirty     bool
}

// Patch is a square grid of (segments+1)^2 vertices spanning size world units.
// Topology is fixed at construction; heights, normals and center change on
// Recenter. A Patch is not safe for concurrent use.
type Patch struct {
	size     float64
	segments int
	heights  HeightFunc

	positions []mgl64.Vec3
	normals   []mgl64.Vec3
	indices   []uint32

	centerX, centerZ float64
	centered         bool
	version          uint64
	dirty            bool
}

// NewPatch builds the grid and index list, then recenters at (0, 0).
func NewPatch(size float64, segments int, heights HeightFunc) (*Patch, error) {
	if segments < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSegments, segments)
	}
	if !(size > 0) || math.IsInf(size, 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSize, size)
	}
	if heights == nil {
		return nil, ErrNilSampler
	}

	stride := segments + 1
	p := &Patch{
		size:      size,
		segments:  segments,
		heights:   heights,
		positions: make([]mgl64.Vec3, stride*stride),
		normals:   make([]mgl64.Vec3, stride*stride),
		indices:   make([]uint32, 0, segments*segments*6),
	}

	step := size / float64(segments)
	half := size / 2
	for row := 0; row < stride; row++ {
		for col := 0; col < stride; col++ {
			i := row*stride + col
			p.positions[i] = mgl64.Vec3{float64(col)*step - half, 0, float64(row)*step - half}
		}
	}

	for row := 0; row < segments; row++ {
		for col := 0; col < segments; col++ {
			a := uint32(row*stride + col)
			b := a + uint32(stride)
			c := b + 1
			d := a + 1
			p.indices = append(p.indices, a, b, d, b, c, d)
		}
	}

	p.Recenter(0, 0)
	return p, nil
}

// Recenter moves the patch so its middle sits at world (x, z) and resamples
// every vertex height from the world position under it. All normals are
// recomputed afterwards, an O(segments²) pass. It returns the number of
// vertices updated, which is 0 when the center has not moved.
func (p *Patch) Recenter(x, z float64) int {
	if p.centered && math.Abs(x-p.centerX) <= CenterEpsilon && math.Abs(z-p.centerZ) <= CenterEpsilon {
		return 0
	}

	for i := range p.positions {
		pos := &p.positions[i]
		pos[1] = p.heights.Height(x+pos[0], z+pos[2])
	}

	p.centerX, p.centerZ = x, z
	p.centered = true
	p.computeNormals()
	p.version++
	p.dirty = true

	return len(p.positions)
}

// computeNormals accumulates unnormalised face normals, whose length is twice
// the triangle area, onto each corner and normalises the sums.
func (p *Patch) computeNormals() {
	for i := range p.normals {
		p.normals[i] = mgl64.Vec3{}
	}

	for t := 0; t < len(p.indices); t += 3 {
		ia, ib, ic := p.indices[t], p.indices[t+1], p.indices[t+2]
		a, b, c := p.positions[ia], p.positions[ib], p.positions[ic]
		face := b.Sub(a).Cross(c.Sub(a))
		p.normals[ia] = p.normals[ia].Add(face)
		p.normals[ib] = p.normals[ib].Add(face)
		p.normals[ic] = p.normals[ic].Add(face)
	}

	for i, n := range p.normals {
		if l := n.Len(); l > 0 {
			p.normals[i] = n.Mul(1 / l)
		} else {
			p.normals[i] = mgl64.Vec3{0, 1, 0}
		}
	}
}

// Mesh returns the current render view.
func (p *Patch) Mesh() Mesh {
	return Mesh{
		Origin:    mgl64.Vec3{p.centerX, 0, p.centerZ},
		Positions: p.positions,
		Normals:   p.normals,
		Indices:   p.indices,
		Version:   p.version,
		Dirty:     p.dirty,
	}
}

// MarkUploaded clears the dirty flag once a render sink has consumed the
// current heights.
func (p *Patch) MarkUploaded() {
	p.dirty = false
}

func (p *Patch) Center() (x, z float64) {
	return p.centerX, p.centerZ
}

func (p *Patch) Size() float64 {
	return p.size
}

func (p *Patch) Segments() int {
	return p.segments
}

func (p *Patch) VertexCount() int {
	return len(p.positions)
}

func (p *Patch) TriangleCount() int {
	return len(p.indices) / 3
}

// WorldPosition returns vertex i in world space.
func (p *Patch) WorldPosition(i int) mgl64.Vec3 {
	pos := p.positions[i]
	return mgl64.Vec3{pos[0] + p.centerX, pos[1], pos[2] + p.centerZ}
}

func (p *Patch) HeightAt(i int) float64 {
	return p.positions[i][1]
}

// GroundHeight bilinearly interpolates the patch surface at world (x, z).
// Points outside the patch are clamped to its edge.
func (p *Patch) GroundHeight(x, z float64) float64 {
	stride := p.segments + 1
	step := p.size / float64(p.segments)

	fx := (x - p.centerX + p.size/2) / step
	fz := (z - p.centerZ + p.size/2) / step
	fx = math.Max(0, math.Min(fx, float64(p.segments)))
	fz = math.Max(0, math.Min(fz, float64(p.segments)))

	col := int(math.Min(math.Floor(fx), float64(p.segments-1)))
	row := int(math.Min(math.Floor(fz), float64(p.segments-1)))
	tx, tz := fx-float64(col), fz-float64(row)

	h00 := p.positions[row*stride+col][1]
	h10 := p.positions[row*stride+col+1][1]
	h01 := p.positions[(row+1)*stride+col][1]
	h11 := p.positions[(row+1)*stride+col+1][1]

	top := h00 + (h10-h00)*tx
	bottom := h01 + (h11-h01)*tx
	return top + (bottom-top)*tz
}
