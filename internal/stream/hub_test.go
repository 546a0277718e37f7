package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/horizon/internal/sim"
	"github.com/VoidMesh/horizon/internal/terrain"
	"github.com/VoidMesh/horizon/internal/testutil"
)

type slope struct{}

func (slope) Height(x, z float64) float64 { return x + 2*z }

func testFrame(t *testing.T, number uint64) (sim.Frame, *terrain.Patch) {
	t.Helper()
	patch, err := terrain.NewPatch(20, 2, slope{})
	require.NoError(t, err)
	return sim.Frame{
		Number: number,
		Ticks:  2,
		Mesh:   patch.Mesh(),
		Observer: sim.Observer{
			Position: mgl64.Vec3{1, 0, 2},
			Velocity: mgl64.Vec3{100, 0, 0},
		},
		Camera: sim.CameraPose{
			Position: mgl64.Vec3{1, 150, 302},
			Target:   mgl64.Vec3{1, 0, 2},
			Up:       mgl64.Vec3{0, 1, 0},
		},
	}, patch
}

func startHub(t *testing.T, sendBuffer int) (*Hub, string) {
	t.Helper()
	hub := NewHub(testutil.SetupTest(t, testutil.DefaultTestConfig()))
	hub.sendBuffer = sendBuffer
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestNewTerrain(t *testing.T) {
	frame, _ := testFrame(t, 1)

	got := NewTerrain(frame.Mesh)
	assert.Equal(t, 2, got.Segments)
	assert.Equal(t, 20.0, got.Size)
	assert.Equal(t, uint64(1), got.Version)
	require.Len(t, got.Heights, 9)
	// Vertex 0 sits at local (-10, -10): -10 + 2*-10.
	assert.Equal(t, float32(-30), got.Heights[0])
	assert.Equal(t, float32(30), got.Heights[8])
}

func TestHubStreamsFrames(t *testing.T) {
	hub, url := startHub(t, DefaultSendBuffer)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	frame, _ := testFrame(t, 3)
	require.NoError(t, hub.Render(frame))
	require.NoError(t, hub.Show("Key A: PRESSED"))

	env := readEnvelope(t, conn)
	assert.Equal(t, TypeTerrain, env.Type)
	assert.Equal(t, uint64(3), env.Frame)
	var ter Terrain
	require.NoError(t, json.Unmarshal(env.Data, &ter))
	assert.Len(t, ter.Heights, 9)

	env = readEnvelope(t, conn)
	assert.Equal(t, TypePose, env.Type)
	var pose Pose
	require.NoError(t, json.Unmarshal(env.Data, &pose))
	assert.Equal(t, mgl64.Vec3{1, 0, 2}, pose.Observer.Position)
	assert.Equal(t, 2, pose.Ticks)

	env = readEnvelope(t, conn)
	assert.Equal(t, TypeHUD, env.Type)
	assert.Equal(t, uint64(3), env.Frame)
	var hud HUD
	require.NoError(t, json.Unmarshal(env.Data, &hud))
	assert.Equal(t, "Key A: PRESSED", hud.Text)
}

func TestHubSkipsUnchangedTerrain(t *testing.T) {
	hub, url := startHub(t, DefaultSendBuffer)

	frame, patch := testFrame(t, 1)
	require.NoError(t, hub.Render(frame))
	patch.MarkUploaded()

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	// Cached terrain then pose are replayed on connect.
	assert.Equal(t, TypeTerrain, readEnvelope(t, conn).Type)
	assert.Equal(t, TypePose, readEnvelope(t, conn).Type)

	clean := frame
	clean.Number = 2
	clean.Mesh = patch.Mesh()
	require.False(t, clean.Mesh.Dirty)
	require.NoError(t, hub.Render(clean))

	env := readEnvelope(t, conn)
	assert.Equal(t, TypePose, env.Type, "a clean mesh is not resent")
	assert.Equal(t, uint64(2), env.Frame)
}

func TestHubLatest(t *testing.T) {
	hub := NewHub(testutil.SetupTest(t, testutil.DefaultTestConfig()))

	_, ok := hub.Latest(TypePose)
	assert.False(t, ok)

	frame, _ := testFrame(t, 9)
	require.NoError(t, hub.Render(frame))
	require.NoError(t, hub.Show("hello"))

	data, ok := hub.Latest(TypePose)
	require.True(t, ok)
	var pose Pose
	require.NoError(t, json.Unmarshal(data, &pose))
	assert.Equal(t, mgl64.Vec3{100, 0, 0}, pose.Observer.Velocity)

	data, ok = hub.Latest(TypeHUD)
	require.True(t, ok)
	assert.JSONEq(t, `{"text":"hello"}`, string(data))
	assert.Equal(t, uint64(9), hub.Frame())
}

func TestHubDropsSlowClients(t *testing.T) {
	hub, url := startHub(t, 1)

	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	// Never read from conn; the hub must not block on it.
	frame, _ := testFrame(t, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		text := strings.Repeat("x", 64*1024)
		for i := 0; i < 2000; i++ {
			_ = hub.Show(text)
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("publishing blocked on a slow client")
	}
	require.NoError(t, hub.Render(frame))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 5*time.Millisecond)
	_ = conn
}

func TestHubClose(t *testing.T) {
	hub, url := startHub(t, DefaultSendBuffer)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
