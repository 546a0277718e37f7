package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/horizon/internal/sim"
	"github.com/VoidMesh/horizon/internal/testutil"
)

const strafeLeft = `
name: strafe-left
frames: 61
events:
  - frame: 0
    press: [A]
`

func mustLoad(t *testing.T, src string) *Script {
	t.Helper()
	s, err := LoadScript(strings.NewReader(src))
	require.NoError(t, err)
	return s
}

func TestLoadScript(t *testing.T) {
	s := mustLoad(t, `
name: zigzag
frame_interval: 20ms
frames: 10
events:
  - frame: 5
    release: [w]
  - frame: 0
    press: [w, d]
`)
	assert.Equal(t, "zigzag", s.Name)
	assert.Equal(t, 20*time.Millisecond, s.FrameInterval)
	assert.Equal(t, 10, s.Frames)
	require.Len(t, s.Events, 2)
	assert.Equal(t, 0, s.Events[0].Frame, "events are sorted by frame")
	assert.Equal(t, 180*time.Millisecond, s.Duration())
}

func TestLoadScriptDefaultsFrameRate(t *testing.T) {
	s := mustLoad(t, strafeLeft)
	assert.Equal(t, DefaultFrameRate, s.FrameRate)
	assert.Zero(t, s.FrameInterval)
	assert.Equal(t, time.Second, s.Duration())
}

func TestTimestampDoesNotDrift(t *testing.T) {
	s := mustLoad(t, "frames: 3601\nframe_rate: 60\n")
	assert.Equal(t, time.Second/60, s.Timestamp(1))
	assert.Equal(t, time.Second, s.Timestamp(60))
	assert.Equal(t, time.Minute, s.Timestamp(3600))
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		invalid bool
	}{
		{name: "unknown field", src: "frames: 2\nspeed: 3\n"},
		{name: "not yaml", src: "frames: [\n"},
		{name: "no frames", src: "name: x\n", invalid: true},
		{name: "event past end", src: "frames: 2\nevents:\n  - frame: 2\n    press: [w]\n", invalid: true},
		{name: "negative frame", src: "frames: 2\nevents:\n  - frame: -1\n    press: [w]\n", invalid: true},
		{name: "empty event", src: "frames: 2\nevents:\n  - frame: 1\n", invalid: true},
		{name: "blank key", src: "frames: 2\nevents:\n  - frame: 1\n    press: [' ']\n", invalid: true},
		{name: "negative interval", src: "frames: 2\nframe_interval: -1s\n", invalid: true},
		{name: "negative rate", src: "frames: 2\nframe_rate: -30\n", invalid: true},
		{name: "rate and interval", src: "frames: 2\nframe_rate: 30\nframe_interval: 10ms\n", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidScript))
		})
	}
}

func TestPlayerAppliesEventsPerFrame(t *testing.T) {
	s := mustLoad(t, `
frames: 4
frame_interval: 10ms
events:
  - frame: 1
    press: [W, d]
  - frame: 3
    release: [w]
`)
	p := NewPlayer(s, false)
	ctx := context.Background()

	want := []struct {
		ts   time.Duration
		w, d bool
	}{
		{0, false, false},
		{10 * time.Millisecond, true, true},
		{20 * time.Millisecond, true, true},
		{30 * time.Millisecond, false, true},
	}
	for i, w := range want {
		ts, err := p.Next(ctx)
		require.NoError(t, err, "frame %d", i)
		assert.Equal(t, w.ts, ts, "frame %d", i)
		assert.Equal(t, w.w, p.IsPressed(sim.KeyForward), "frame %d", i)
		assert.Equal(t, w.d, p.IsPressed(sim.KeyRight), "frame %d", i)
	}

	_, err := p.Next(ctx)
	assert.ErrorIs(t, err, sim.ErrDone)
}

func TestPlayerLoops(t *testing.T) {
	s := mustLoad(t, "frames: 2\nframe_interval: 1s\nevents:\n  - frame: 1\n    press: [a]\n")
	p := NewPlayer(s, true)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		ts, err := p.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, time.Duration(i)*time.Second, ts, "timestamps keep increasing across loops")
		assert.Equal(t, i%2 == 1, p.IsPressed(sim.KeyLeft), "frame %d", i)
	}
}

func TestPlayerCancelled(t *testing.T) {
	p := NewPlayer(mustLoad(t, strafeLeft), false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, p.IsPressed(sim.KeyLeft), "a cancelled Next applies no events")
}

func TestPace(t *testing.T) {
	p := NewPlayer(mustLoad(t, "frames: 2\nevents:\n  - frame: 1\n    press: [s]\n"), false)
	inner := &testutil.StepScheduler{Interval: time.Second, Frames: 5}
	sched := p.Pace(inner)
	ctx := context.Background()

	ts, err := sched.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), ts)
	assert.False(t, p.IsPressed(sim.KeyBack))

	ts, err = sched.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Second, ts, "timestamps come from the inner scheduler")
	assert.True(t, p.IsPressed(sim.KeyBack))

	_, err = sched.Next(ctx)
	assert.ErrorIs(t, err, sim.ErrDone)
}

func TestRun(t *testing.T) {
	testutil.SetupTest(t, testutil.DefaultTestConfig())
	cfg := testutil.SmallConfig()

	res, err := Run(context.Background(), cfg, mustLoad(t, strafeLeft))
	require.NoError(t, err)

	assert.Equal(t, "strafe-left", res.Name)
	assert.Equal(t, int64(12345), res.Seed)
	assert.Equal(t, uint64(61), res.Frames)
	assert.Equal(t, uint64(60), res.Ticks)
	assert.Equal(t, 61, res.Uploads, "initial mesh plus one recenter per tick")
	assert.InDelta(t, -100.0, res.Observer.Position.X(), 1e-9)
	assert.Equal(t, 0.0, res.Observer.Position.Z())
	assert.Equal(t, res.Observer.Position.X(), res.CenterX)
	assert.NotZero(t, res.TerrainHash)
}

func TestRunIdle(t *testing.T) {
	testutil.SetupTest(t, testutil.DefaultTestConfig())

	res, err := Run(context.Background(), testutil.SmallConfig(), mustLoad(t, "name: idle\nframes: 30\n"))
	require.NoError(t, err)

	assert.Equal(t, uint64(30), res.Frames)
	assert.Equal(t, 1, res.Uploads)
	assert.Equal(t, 0.0, res.Observer.Position.X())
	assert.Equal(t, 0.0, res.Observer.Position.Z())
}

func TestRunIsDeterministic(t *testing.T) {
	testutil.SetupTest(t, testutil.DefaultTestConfig())
	cfg := testutil.SmallConfig()
	script := mustLoad(t, `
name: wander
frames: 90
events:
  - frame: 0
    press: [w]
  - frame: 30
    press: [d]
  - frame: 60
    release: [w]
`)

	first, err := Run(context.Background(), cfg, script)
	require.NoError(t, err)
	second, err := Run(context.Background(), cfg, script)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Observer, second.Observer)
	assert.Equal(t, first.Ticks, second.Ticks)
	assert.Equal(t, first.TerrainHash, second.TerrainHash)
}

func TestRunCancelled(t *testing.T) {
	testutil.SetupTest(t, testutil.DefaultTestConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testutil.SmallConfig(), mustLoad(t, strafeLeft))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll(t *testing.T) {
	testutil.SetupTest(t, testutil.DefaultTestConfig())
	cfg := testutil.SmallConfig()

	scripts := []*Script{
		mustLoad(t, strafeLeft),
		mustLoad(t, "name: forward\nframes: 40\nevents:\n  - frame: 0\n    press: [w]\n"),
		mustLoad(t, "name: idle\nframes: 10\n"),
		mustLoad(t, strafeLeft),
	}

	results, err := RunAll(context.Background(), cfg, scripts, 2)
	require.NoError(t, err)
	require.Len(t, results, len(scripts))

	for i, s := range scripts {
		assert.Equal(t, s.Name, results[i].Name, "results keep script order")
	}
	assert.Equal(t, results[0].Observer, results[3].Observer)
	assert.Equal(t, results[0].TerrainHash, results[3].TerrainHash)
	assert.Less(t, results[1].Observer.Position.Z(), 0.0)

	alone, err := Run(context.Background(), cfg, scripts[1])
	require.NoError(t, err)
	assert.Equal(t, alone.Observer, results[1].Observer, "concurrent runs do not interfere")
}

func TestRunAllSharesRandomSeed(t *testing.T) {
	testutil.SetupTest(t, testutil.DefaultTestConfig())
	cfg := testutil.SmallConfig()
	cfg.Terrain.Seed = ""

	results, err := RunAll(context.Background(), cfg, []*Script{
		mustLoad(t, strafeLeft),
		mustLoad(t, strafeLeft),
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, results[0].Seed, results[1].Seed)
	assert.Equal(t, results[0].TerrainHash, results[1].TerrainHash)
	assert.Empty(t, cfg.Terrain.Seed, "caller config is untouched")
}

func TestRunAllStopsOnError(t *testing.T) {
	testutil.SetupTest(t, testutil.DefaultTestConfig())

	_, err := RunAll(context.Background(), testutil.SmallConfig(), []*Script{
		mustLoad(t, strafeLeft),
		{Name: "broken"},
	}, 1)
	assert.ErrorIs(t, err, ErrInvalidScript)
}

func TestTable(t *testing.T) {
	testutil.SetupTest(t, testutil.DefaultTestConfig())

	results, err := RunAll(context.Background(), testutil.SmallConfig(), []*Script{
		mustLoad(t, strafeLeft),
		mustLoad(t, "name: idle\nframes: 10\n"),
	}, 0)
	require.NoError(t, err)

	out := Table(results).String()
	for _, h := range []string{"SCRIPT", "SEED", "FRAMES", "TICKS", "TERRAIN"} {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "strafe-left")
	assert.Contains(t, out, "-100.000000")
	assert.Contains(t, out, fmt.Sprintf("%016x", results[0].TerrainHash))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var names []int
	for i, line := range lines {
		if strings.Contains(line, "strafe-left") || strings.Contains(line, "idle") {
			names = append(names, i)
		}
	}
	require.Len(t, names, 2)
	assert.Contains(t, lines[names[0]], "strafe-left", "rows keep result order")
	assert.Contains(t, lines[names[1]], "idle")
}
