package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/melencholia/internal/config"
	"github.com/Faultbox/melencholia/pkg/mesh"
)

// A unit cube centred on the origin.
const cubeOBJ = `# cube
v -0.5 -0.5 -0.5
v -0.5 0.5 -0.5
v 0.5 0.5 -0.5
v 0.5 -0.5 -0.5
v 0.5 0.5 0.5
v 0.5 -0.5 0.5
v -0.5 0.5 0.5
v -0.5 -0.5 0.5
f 1 2 3
f 1 3 4
f 4 3 5
f 4 5 6
f 6 5 7
f 6 7 8
f 8 7 2
f 8 2 1
f 2 7 5
f 2 5 3
f 6 8 1
f 6 1 4
`

func headlessConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	meshPath := filepath.Join(dir, "cube.obj")
	require.NoError(t, os.WriteFile(meshPath, []byte(cubeOBJ), 0644))

	cfg := config.Default()
	cfg.Window.Width = 64
	cfg.Window.Height = 64
	cfg.Render.Backend = config.BackendHeadless
	cfg.Render.MaxFrames = 3
	cfg.Assets.Mesh = meshPath
	cfg.Assets.Background = ""
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestHeadlessRun(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Render.CaptureDir = filepath.Join(t.TempDir(), "frames")
	cfg.Render.CaptureEvery = 1

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Run(context.Background()))

	c := a.Scheduler().Counters()
	assert.Equal(t, uint64(3), c.Frames)
	assert.Positive(t, c.Drawn)
	assert.Equal(t, uint64(3), a.Canvas().Frames())
	assert.InDelta(t, cfg.Rotation.InitialAngle+3*cfg.Rotation.Step, a.Scheduler().State().Theta, 1e-5)

	entries, err := os.ReadDir(cfg.Render.CaptureDir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	// The cube covers the centre of the frame with a non-black fill.
	centre := a.Canvas().Frame().NRGBAAt(32, 32)
	assert.NotEqual(t, color.NRGBA{A: 255}, centre)
}

func TestHeadlessDefaultFrameLimit(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Render.MaxFrames = 0

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, uint64(config.HeadlessFrames), a.Scheduler().Counters().Frames)
}

func TestHeadlessBackground(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Render.MaxFrames = 1

	bg := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := range bg.Pix {
		bg.Pix[i] = 255
	}
	bgPath := filepath.Join(t.TempDir(), "bg.png")
	f, err := os.Create(bgPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, bg))
	require.NoError(t, f.Close())
	cfg.Assets.Background = bgPath

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Run(context.Background()))

	corner := a.Canvas().Frame().NRGBAAt(0, 0)
	for _, ch := range []uint8{corner.R, corner.G, corner.B, corner.A} {
		assert.InDelta(t, 255, int(ch), 2)
	}
}

func TestStartupErrors(t *testing.T) {
	t.Run("missing mesh", func(t *testing.T) {
		cfg := headlessConfig(t)
		cfg.Assets.Mesh = filepath.Join(t.TempDir(), "nope.obj")

		_, err := New(cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrStartup))
		assert.True(t, errors.Is(err, mesh.ErrOpen))
	})

	t.Run("malformed mesh", func(t *testing.T) {
		cfg := headlessConfig(t)
		require.NoError(t, os.WriteFile(cfg.Assets.Mesh, []byte("v 0 0 0\nf 1 2 3\n"), 0644))

		_, err := New(cfg)
		assert.ErrorIs(t, err, ErrStartup)
		assert.ErrorIs(t, err, mesh.ErrMalformedGeometry)
	})

	t.Run("missing background", func(t *testing.T) {
		cfg := headlessConfig(t)
		cfg.Assets.Background = filepath.Join(t.TempDir(), "missing.png")

		_, err := New(cfg)
		assert.ErrorIs(t, err, ErrStartup)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestNewScene(t *testing.T) {
	cfg := config.Default()
	cfg.Window.Width = 800
	cfg.Window.Height = 400
	cfg.Rotation.Axes = []string{"x", "Z"}

	s, err := NewScene(cfg, &mesh.Mesh{})
	require.NoError(t, err)

	assert.Equal(t, float32(2.0), s.State.Theta)
	assert.InDelta(t, 0.5, s.State.Projection.At(0, 0), 1e-5, "aspect is height/width")
	assert.Len(t, s.Pipeline.Axes, 2)
	assert.Equal(t, float32(3), s.Pipeline.Offset.Z)
	assert.Equal(t, uint8(204), s.Style.Alpha)
	assert.Equal(t, color.NRGBA{A: 255}, s.Clear)
}

func TestRunCancelled(t *testing.T) {
	cfg := headlessConfig(t)
	cfg.Render.MaxFrames = 0

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Run(ctx))
	assert.Zero(t, a.Scheduler().Counters().Frames)
}
