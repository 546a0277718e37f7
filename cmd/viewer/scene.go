package main

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/VoidMesh/horizon/internal/sim"
)

var lightDir = mgl64.Vec3{0.4, 1, 0.3}.Normalize()

var keyCodes = map[sim.Key]int32{
	sim.KeyForward: rl.KeyW,
	sim.KeyLeft:    rl.KeyA,
	sim.KeyBack:    rl.KeyS,
	sim.KeyRight:   rl.KeyD,
}

// keyboard reads movement keys straight from the window.
type keyboard struct{}

func (keyboard) IsPressed(key sim.Key) bool {
	code, ok := keyCodes[key]
	return ok && rl.IsKeyDown(code)
}

// scene draws each frame inside the BeginDrawing/EndDrawing pair the main
// loop opens around sim.Frame. Geometry is drawn relative to the patch
// origin so float32 precision holds far from the world origin.
type scene struct {
	bound     float64
	fovy      float32
	triangles int
	hud       string
}

func (s *scene) Render(frame sim.Frame) error {
	mesh := frame.Mesh
	origin := mesh.Origin

	camera := rl.Camera3D{
		Position:   toVector3(frame.Camera.Position.Sub(origin)),
		Target:     toVector3(frame.Camera.Target.Sub(origin)),
		Up:         toVector3(frame.Camera.Up),
		Fovy:       s.fovy,
		Projection: rl.CameraPerspective,
	}

	rl.ClearBackground(rl.SkyBlue)
	rl.BeginMode3D(camera)

	s.triangles = 0
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		pa, pb, pc := mesh.Positions[a], mesh.Positions[b], mesh.Positions[c]

		normal := mesh.Normals[a].Add(mesh.Normals[b]).Add(mesh.Normals[c])
		height := (pa[1] + pb[1] + pc[1]) / 3
		rl.DrawTriangle3D(toVector3(pa), toVector3(pb), toVector3(pc), s.shade(height, normal))
		s.triangles++
	}

	observer := frame.Observer.Position.Sub(origin)
	rl.DrawSphere(toVector3(observer), 4, rl.Maroon)
	rl.EndMode3D()
	return nil
}

func (s *scene) Show(text string) error {
	s.hud = text
	rl.DrawRectangle(8, 8, 300, 150, rl.Fade(rl.Black, 0.5))
	rl.DrawText(text, 16, 16, 10, rl.White)
	return nil
}

// shade colours a triangle by its mean height and lights it with a single
// directional Lambert term.
func (s *scene) shade(height float64, normal mgl64.Vec3) rl.Color {
	if l := normal.Len(); l > 0 {
		normal = normal.Mul(1 / l)
	}
	intensity := 0.25 + 0.75*math.Max(0, normal.Dot(lightDir))

	t := height / s.bound
	var r, g, b float64
	switch {
	case t < -0.3:
		r, g, b = 30, 90, 200
	case t < -0.1:
		r, g, b = 210, 190, 130
	case t < 0.2:
		r, g, b = 70, 150, 50
	case t < 0.5:
		r, g, b = 120, 90, 60
	case t < 0.75:
		r, g, b = 120, 120, 125
	default:
		r, g, b = 245, 245, 250
	}
	return rl.NewColor(uint8(r*intensity), uint8(g*intensity), uint8(b*intensity), 255)
}

func toVector3(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v[0]), float32(v[1]), float32(v[2]))
}
