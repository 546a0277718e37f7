package sim

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// KeyState is one movement key and whether it is held.
type KeyState struct {
	Key     Key  `json:"key"`
	Pressed bool `json:"pressed"`
}

// DebugState is the snapshot rendered onto the HUD.
type DebugState struct {
	Observer Observer   `json:"observer"`
	CenterX  float64    `json:"center_x"`
	CenterZ  float64    `json:"center_z"`
	Ground   float64    `json:"ground"`
	Frames   uint64     `json:"frames"`
	Ticks    uint64     `json:"ticks"`
	Keys     []KeyState `json:"keys"`
}

// FormatDebug renders d as the multi-line HUD text.
func FormatDebug(d DebugState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Position: %s\n", formatVec(d.Observer.Position))
	fmt.Fprintf(&b, "Velocity: %s\n", formatVec(d.Observer.Velocity))
	fmt.Fprintf(&b, "Terrain center: (%.2f, %.2f)\n", d.CenterX, d.CenterZ)
	fmt.Fprintf(&b, "Ground height: %.2f\n", d.Ground)
	fmt.Fprintf(&b, "Ticks: %d  Frames: %d", d.Ticks, d.Frames)

	for _, k := range d.Keys {
		state := "RELEASED"
		if k.Pressed {
			state = "PRESSED"
		}
		fmt.Fprintf(&b, "\nKey %s: %s", strings.ToUpper(string(k.Key)), state)
	}
	return b.String()
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z())
}
