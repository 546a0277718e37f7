package models

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/horizon/internal/input"
	"github.com/VoidMesh/horizon/internal/render/terminal"
	"github.com/VoidMesh/horizon/internal/sim"
	"github.com/VoidMesh/horizon/internal/terrain"
	"github.com/VoidMesh/horizon/internal/testutil"
)

func newApp(t *testing.T) *App {
	t.Helper()
	logger := testutil.SetupTest(t, testutil.DefaultTestConfig())

	cfg := testutil.SmallConfig()
	world, err := terrain.NewWorld(cfg.Terrain, 12345)
	require.NoError(t, err)
	patch, err := world.NewPatch(cfg.Terrain)
	require.NoError(t, err)

	hm, err := terminal.NewHeightmap(20, 10, world.Sampler.Bound())
	require.NoError(t, err)
	kb := input.NewKeyboard(0)
	hud := NewHUDPanel()

	s, err := sim.New(sim.ConfigFrom(cfg.Simulation), patch, sim.Deps{
		Input:    kb,
		Renderer: hm,
		HUD:      hud,
		Logger:   logger,
	})
	require.NoError(t, err)

	return NewApp(s, kb, hm, hud, time.Second/60, logger)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestAppInitSchedulesFrame(t *testing.T) {
	app := newApp(t)
	assert.NotNil(t, app.Init())
}

func TestAppFramesAdvanceSimulation(t *testing.T) {
	app := newApp(t)
	start := time.Unix(1_700_000_000, 0)

	for i := 0; i <= 60; i++ {
		cmd := app.frame(start.Add(time.Duration(i) * time.Second / 60))
		require.NotNil(t, cmd)
	}

	stats := app.sim.Stats()
	assert.Equal(t, uint64(61), stats.Frames)
	assert.Equal(t, uint64(60), stats.Ticks)
	assert.Equal(t, uint64(61), app.heightmap.Frame())
	assert.Contains(t, app.hud.Text(), "Ticks: 60  Frames: 61")
	assert.Contains(t, app.View(), "Position:")
}

func TestAppMovementKeys(t *testing.T) {
	app := newApp(t)
	start := time.Unix(1_700_000_000, 0)

	assert.Nil(t, app.handleKey("a", true))
	assert.True(t, app.keyboard.IsPressed(sim.KeyLeft))

	app.frame(start)
	app.frame(start.Add(time.Second / 60))
	assert.Less(t, app.sim.Observer().Position.X(), 0.0)

	assert.Nil(t, app.handleKey("a", false))
	assert.False(t, app.keyboard.IsPressed(sim.KeyLeft))

	app.handleKey("W", true)
	app.handleKey("d", true)
	assert.Len(t, app.keyboard.Held(), 2)
	app.handleKey("esc", true)
	assert.Empty(t, app.keyboard.Held())
}

func TestAppQuitStopsSimulation(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			app := newApp(t)
			start := time.Unix(1_700_000_000, 0)
			app.frame(start)

			assert.True(t, isQuit(app.handleKey(key, true)))
			assert.True(t, app.sim.Stopped())

			// A tick already in flight does not run another frame.
			assert.True(t, isQuit(app.frame(start.Add(time.Second))))
			assert.Equal(t, uint64(1), app.sim.Stats().Frames)
		})
	}
}

func TestAppIgnoresReleaseOfCommandKeys(t *testing.T) {
	app := newApp(t)
	assert.Nil(t, app.handleKey("q", false))
	assert.False(t, app.sim.Stopped())
}

func TestAppHelpToggle(t *testing.T) {
	app := newApp(t)
	app.handleKey("?", true)
	assert.Contains(t, app.View(), "Release all keys")
	app.handleKey("?", true)
	assert.NotContains(t, app.View(), "Release all keys")
}

func TestAppWindowResize(t *testing.T) {
	app := newApp(t)
	start := time.Unix(1_700_000_000, 0)
	app.frame(start)
	require.Len(t, app.heightmap.Bands(), 10)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd)
	app.frame(start.Add(time.Second / 60))
	require.Len(t, app.heightmap.Bands(), 26)
	assert.Len(t, app.heightmap.Bands()[0], 60)

	app.Update(tea.WindowSizeMsg{Width: 20, Height: 3})
	app.frame(start.Add(2 * time.Second / 60))
	require.Len(t, app.heightmap.Bands(), minRows)
	assert.Len(t, app.heightmap.Bands()[0], minCols)
}
