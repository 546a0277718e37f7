package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/horizon/internal/config"
	"github.com/VoidMesh/horizon/internal/sim"
	"github.com/VoidMesh/horizon/internal/stream"
	"github.com/VoidMesh/horizon/internal/terrain"
	"github.com/VoidMesh/horizon/internal/testutil"
)

type fixture struct {
	hub    *stream.Hub
	world  *terrain.World
	patch  *terrain.Patch
	router http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := testutil.SetupTest(t, testutil.DefaultTestConfig())

	cfg := testutil.SmallConfig()
	world, err := terrain.NewWorld(cfg.Terrain, 777)
	require.NoError(t, err)
	patch, err := world.NewPatch(cfg.Terrain)
	require.NoError(t, err)

	hub := stream.NewHub(logger)
	t.Cleanup(hub.Close)

	return &fixture{
		hub:    hub,
		world:  world,
		patch:  patch,
		router: SetupRoutes(NewHandler(hub, world, logger), hub),
	}
}

func (f *fixture) publish(t *testing.T) {
	t.Helper()
	frame := sim.Frame{Number: 4, Mesh: f.patch.Mesh(), Observer: sim.Observer{}}
	require.NoError(t, f.hub.Render(frame))
	require.NoError(t, f.hub.Show("Key W: RELEASED"))
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "horizon", body["service"])
}

func TestGetState(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/v1/state")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "no frame rendered yet", errResp.Error)

	f.publish(t)

	rec = f.get(t, "/api/v1/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var state struct {
		Frame uint64      `json:"frame"`
		Pose  stream.Pose `json:"pose"`
		HUD   stream.HUD  `json:"hud"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, uint64(4), state.Frame)
	assert.Equal(t, "Key W: RELEASED", state.HUD.Text)
}

func TestGetTerrain(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusServiceUnavailable, f.get(t, "/api/v1/terrain").Code)

	f.publish(t)
	rec := f.get(t, "/api/v1/terrain")
	require.Equal(t, http.StatusOK, rec.Code)

	var ter stream.Terrain
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ter))
	assert.Equal(t, 10, ter.Segments)
	assert.Equal(t, 400.0, ter.Size)
	assert.Len(t, ter.Heights, 121)
	assert.Equal(t, float32(f.patch.HeightAt(60)), ter.Heights[60])
}

func TestGetHeight(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		x, z       float64
	}{
		{name: "origin", query: "x=0&z=0", wantStatus: http.StatusOK},
		{name: "far away", query: "x=1000000.5&z=-2500", wantStatus: http.StatusOK, x: 1000000.5, z: -2500},
		{name: "missing z", query: "x=1", wantStatus: http.StatusBadRequest},
		{name: "bad x", query: "x=north&z=1", wantStatus: http.StatusBadRequest},
		{name: "infinite", query: "x=Inf&z=1", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.get(t, "/api/v1/height?"+tt.query)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp HeightResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.x, resp.X)
			assert.Equal(t, tt.z, resp.Z)
			assert.Equal(t, f.world.Sampler.Height(tt.x, tt.z), resp.Height)
		})
	}
}

func TestGetWorld(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/v1/world")
	require.Equal(t, http.StatusOK, rec.Code)

	var world WorldResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &world))
	assert.Equal(t, int64(777), world.Seed)
	assert.Equal(t, "simplex", world.Noise)
	assert.Equal(t, 200.0, world.Amplitude)
	assert.InDelta(t, 175.0, world.Bound, 1e-12)
	assert.Equal(t, terrain.OctavesFromConfig(config.Default().Terrain.Octaves), world.Octaves)
}

func TestWebsocketRouteSurvivesMiddleware(t *testing.T) {
	f := newFixture(t)
	f.publish(t)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env stream.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	assert.Equal(t, stream.TypeTerrain, env.Type)
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/chunks/0/0/nodes").Code)
}
