// Package app wires configuration, the mesh, a render backend and the
// frame scheduler into a runnable program.
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/melencholia/internal/config"
	"github.com/Faultbox/melencholia/internal/engine/pipeline"
	"github.com/Faultbox/melencholia/internal/engine/raster"
	"github.com/Faultbox/melencholia/internal/engine/scheduler"
	"github.com/Faultbox/melencholia/internal/engine/sink"
	"github.com/Faultbox/melencholia/internal/logger"
	"github.com/Faultbox/melencholia/pkg/math"
	"github.com/Faultbox/melencholia/pkg/mesh"
)

// ErrStartup wraps every failure that prevents the first frame.
var ErrStartup = errors.New("startup failed")

func startupError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStartup, what, err)
}

// Scene is everything derived from config that a frame needs.
type Scene struct {
	State    scheduler.FrameState
	Pipeline *pipeline.Pipeline
	Style    sink.Style
	Clear    color.NRGBA
}

// NewScene builds the frame state, pipeline and style for m.
func NewScene(cfg *config.Config, m *mesh.Mesh) (*Scene, error) {
	outline, vertex, clear, err := cfg.Style.Colors()
	if err != nil {
		return nil, err
	}

	axes := make([]pipeline.Axis, 0, len(cfg.Rotation.Axes))
	for _, name := range cfg.Rotation.Axes {
		a, err := pipeline.ParseAxis(name)
		if err != nil {
			return nil, err
		}
		axes = append(axes, a)
	}

	w, h := cfg.Window.Width, cfg.Window.Height
	aspect := float32(h) / float32(w)
	pos := cfg.Camera.Position
	off := cfg.Rotation.Offset

	return &Scene{
		State: scheduler.FrameState{
			Theta:      cfg.Rotation.InitialAngle,
			Mesh:       m,
			Camera:     math.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z},
			Projection: math.Projection(cfg.Camera.FOV, aspect, cfg.Camera.Near, cfg.Camera.Far),
		},
		Pipeline: &pipeline.Pipeline{
			Viewport:  pipeline.Viewport{Width: float32(w), Height: float32(h)},
			Offset:    math.Vec3{X: off.X, Y: off.Y, Z: off.Z},
			Axes:      axes,
			DepthSort: cfg.Render.DepthSort,
		},
		Style: sink.Style{
			Outline: outline,
			Vertex:  vertex,
			Alpha:   sink.Alpha(cfg.Style.Alpha),
		},
		Clear: clear,
	}, nil
}

// App is a configured renderer ready to run.
type App struct {
	cfg    *config.Config
	mesh   *mesh.Mesh
	scene  *Scene
	sched  *scheduler.Scheduler
	canvas *raster.Canvas // headless only

	run     func(ctx context.Context) error
	closers []func()
	log     *zap.Logger
}

// New loads the mesh and opens the configured backend. Any failure is
// wrapped in ErrStartup.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}

	a.log.Info("initializing renderer",
		zap.String("backend", cfg.Render.Backend),
		zap.String("mesh", cfg.Assets.Mesh),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	m, err := mesh.Load(cfg.Assets.Mesh)
	if err != nil {
		return nil, startupError("loading mesh", err)
	}
	a.mesh = m
	a.log.Info("mesh loaded",
		zap.String("source", m.Source),
		zap.Int("vertices", m.Vertices),
		zap.Int("triangles", m.Len()),
	)

	a.scene, err = NewScene(cfg, m)
	if err != nil {
		return nil, startupError("building scene", err)
	}

	switch cfg.Render.Backend {
	case config.BackendSDL:
		err = a.openSDL()
	case config.BackendGL:
		err = a.openGL()
	case config.BackendEbiten:
		err = a.openEbiten()
	case config.BackendHeadless:
		err = a.openHeadless()
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Render.Backend)
	}
	if err != nil {
		a.Close()
		return nil, startupError("opening "+cfg.Render.Backend+" backend", err)
	}

	a.log.Info("renderer initialized")
	return a, nil
}

func (a *App) newScheduler(s sink.Sink, quit scheduler.QuitSource, maxFrames uint64) {
	a.sched = scheduler.New(a.scene.State, a.scene.Pipeline, s, quit, scheduler.Options{
		Step:      a.cfg.Rotation.Step,
		Style:     a.scene.Style,
		MaxFrames: maxFrames,
		Logger:    logger.Named("scheduler"),
	})
}

// Run drives frames until quit, frame limit or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting frame loop")
	err := a.run(ctx)
	c := a.sched.Counters()
	a.log.Info("frame loop stopped",
		zap.Uint64("frames", c.Frames),
		zap.Uint64("dropped", c.Dropped),
		zap.Uint64("degenerate", c.Degenerate),
	)
	return err
}

// Scheduler returns the frame scheduler.
func (a *App) Scheduler() *scheduler.Scheduler {
	return a.sched
}

// Canvas returns the headless canvas, or nil for windowed backends.
func (a *App) Canvas() *raster.Canvas {
	return a.canvas
}

// Close releases backend resources in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
