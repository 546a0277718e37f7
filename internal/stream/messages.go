package stream

import (
	"encoding/json"
	"math"

	"github.com/VoidMesh/horizon/internal/sim"
	"github.com/VoidMesh/horizon/internal/terrain"
)

// MessageType tags every envelope sent to clients.
type MessageType string

const (
	TypePose    MessageType = "pose"
	TypeTerrain MessageType = "terrain"
	TypeHUD     MessageType = "hud"
)

// replayOrder is the order cached messages are sent to a new client, so it
// has terrain before it sees a pose on top of it.
var replayOrder = []MessageType{TypeTerrain, TypePose, TypeHUD}

// Envelope is the wire format of every message.
type Envelope struct {
	Type  MessageType     `json:"type"`
	Frame uint64          `json:"frame"`
	Data  json.RawMessage `json:"data"`
}

// Pose is published on every rendered frame.
type Pose struct {
	Observer sim.Observer   `json:"observer"`
	Camera   sim.CameraPose `json:"camera"`
	Ticks    int            `json:"ticks"`
	Alpha    float64        `json:"alpha"`
}

// Terrain is published whenever the patch heights changed. Heights are row
// major, row 0 at the -Z edge, relative to the patch center.
type Terrain struct {
	CenterX  float64   `json:"center_x"`
	CenterZ  float64   `json:"center_z"`
	Size     float64   `json:"size"`
	Segments int       `json:"segments"`
	Version  uint64    `json:"version"`
	Heights  []float32 `json:"heights"`
}

// HUD carries the debug text.
type HUD struct {
	Text string `json:"text"`
}

// NewPose extracts the pose of a frame.
func NewPose(frame sim.Frame) Pose {
	return Pose{
		Observer: frame.Observer,
		Camera:   frame.Camera,
		Ticks:    frame.Ticks,
		Alpha:    frame.Alpha,
	}
}

// NewTerrain snapshots mesh heights at float32 precision.
func NewTerrain(mesh terrain.Mesh) Terrain {
	positions := mesh.Positions
	stride := int(math.Round(math.Sqrt(float64(len(positions)))))

	t := Terrain{
		CenterX: mesh.Origin.X(),
		CenterZ: mesh.Origin.Z(),
		Version: mesh.Version,
		Heights: make([]float32, len(positions)),
	}
	if stride > 1 {
		t.Segments = stride - 1
		t.Size = positions[stride-1].X() - positions[0].X()
	}
	for i, p := range positions {
		t.Heights[i] = float32(p.Y())
	}
	return t
}
