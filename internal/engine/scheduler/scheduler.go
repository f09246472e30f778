// Package scheduler drives the per-frame render loop: it advances the
// rotation angle, runs the mesh through the pipeline and hands the visible
// triangles to a sink.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/melencholia/internal/engine/pipeline"
	"github.com/Faultbox/melencholia/internal/engine/sink"
	"github.com/Faultbox/melencholia/internal/logger"
	"github.com/Faultbox/melencholia/pkg/math"
	"github.com/Faultbox/melencholia/pkg/mesh"
)

// DefaultStep is the rotation angle added every frame, in radians.
const DefaultStep = 0.04

// DefaultInitialAngle is the rotation angle before the first frame.
const DefaultInitialAngle = 2.0

// FrameState is everything one frame is rendered from. Only Theta changes
// after construction.
type FrameState struct {
	Theta      float32
	Mesh       *mesh.Mesh
	Camera     math.Vec3
	Projection math.Mat4
}

// QuitSource reports whether the host asked the loop to stop.
type QuitSource interface {
	QuitRequested() bool
}

// QuitFunc adapts a function to QuitSource.
type QuitFunc func() bool

// QuitRequested calls f.
func (f QuitFunc) QuitRequested() bool { return f() }

// Options tune a Scheduler.
type Options struct {
	Step  float32
	Style sink.Style

	// MaxFrames stops the loop after that many frames. Zero means no limit.
	MaxFrames uint64

	Logger *zap.Logger
}

// DrawError is returned by Tick when the sink failed during a frame. The
// remainder of that frame was skipped.
type DrawError struct {
	Frame uint64
	Op    string
	Err   error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("frame %d: %s: %v", e.Frame, e.Op, e.Err)
}

func (e *DrawError) Unwrap() error { return e.Err }

// Counters accumulate over the lifetime of a Scheduler.
type Counters struct {
	Frames     uint64
	Dropped    uint64 // frames cut short by a draw error
	Drawn      uint64 // triangles sent to the sink
	Culled     uint64
	Degenerate uint64
}

// Scheduler owns the frame state and renders one frame per Tick.
type Scheduler struct {
	state FrameState
	pipe  pipeline.Pipeline
	sink  sink.Sink
	quit  QuitSource
	opts  Options

	log     *zap.Logger
	sampled *zap.Logger

	buf      []pipeline.Projected
	counters Counters
}

// New creates a scheduler. The pipeline is copied and takes its camera and
// projection from state. quit may be nil.
func New(state FrameState, pipe *pipeline.Pipeline, s sink.Sink, quit QuitSource, opts Options) *Scheduler {
	p := *pipe
	p.Camera = state.Camera
	p.Projection = state.Projection

	log := opts.Logger
	if log == nil {
		log = logger.Named("scheduler")
	}

	return &Scheduler{
		state:   state,
		pipe:    p,
		sink:    s,
		quit:    quit,
		opts:    opts,
		log:     log,
		sampled: logger.Sampled(log, time.Second),
	}
}

// State returns a copy of the current frame state.
func (s *Scheduler) State() FrameState {
	return s.state
}

// Counters returns the totals so far.
func (s *Scheduler) Counters() Counters {
	return s.counters
}

// Tick renders one frame. It returns false without drawing when the quit
// source asked to stop or MaxFrames frames were rendered. A sink failure
// aborts the frame and is returned as a *DrawError; the scheduler stays
// usable.
func (s *Scheduler) Tick() (bool, error) {
	if s.quit != nil && s.quit.QuitRequested() {
		s.log.Info("quit requested", zap.Uint64("frames", s.counters.Frames))
		return false, nil
	}
	if s.opts.MaxFrames > 0 && s.counters.Frames >= s.opts.MaxFrames {
		s.log.Info("frame limit reached", zap.Uint64("frames", s.counters.Frames))
		return false, nil
	}

	s.state.Theta += s.opts.Step
	s.counters.Frames++

	if err := s.render(); err != nil {
		s.counters.Dropped++
		s.log.Warn("frame skipped", zap.Error(err))
		// Drop whatever reached the back buffer so the next frame starts clean.
		if cerr := s.sink.Clear(); cerr != nil {
			s.log.Debug("clear after failed frame", zap.Error(cerr))
		}
		return true, err
	}
	return true, nil
}

func (s *Scheduler) render() error {
	frame := s.counters.Frames

	if err := s.sink.DrawBackground(); err != nil {
		return &DrawError{Frame: frame, Op: "background", Err: err}
	}

	var stats pipeline.Stats
	s.buf, stats = s.pipe.Frame(s.state.Mesh, s.state.Theta, s.buf)
	s.counters.Culled += uint64(stats.Culled)
	if n := len(stats.Degenerate); n > 0 {
		s.counters.Degenerate += uint64(n)
		s.sampled.Debug("degenerate triangles skipped",
			zap.Int("count", n),
			zap.Ints("indices", stats.Degenerate))
	}

	for _, p := range s.buf {
		if err := sink.DrawTriangle(s.sink, s.opts.Style, p.P); err != nil {
			return &DrawError{Frame: frame, Op: fmt.Sprintf("triangle %d", p.Index), Err: err}
		}
		s.counters.Drawn++
	}

	if err := s.sink.Present(); err != nil {
		return &DrawError{Frame: frame, Op: "present", Err: err}
	}
	if err := s.sink.Clear(); err != nil {
		return &DrawError{Frame: frame, Op: "clear", Err: err}
	}
	return nil
}

// Run ticks until the quit source fires, ctx is cancelled or MaxFrames
// frames were rendered. With fps > 0 frames are paced by a ticker;
// otherwise they run back to back and the sink's Present sets the pace.
// Draw errors are logged by Tick and do not stop the loop.
func (s *Scheduler) Run(ctx context.Context, fps int) error {
	var beat <-chan time.Time
	if fps > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(fps))
		defer ticker.Stop()
		beat = ticker.C
	}

	lastReport := time.Now()
	var reportFrames uint64

	for {
		if ctx.Err() != nil {
			return nil
		}

		running, err := s.Tick()
		if err != nil {
			var de *DrawError
			if !errors.As(err, &de) {
				return err
			}
		}
		if !running {
			return nil
		}

		reportFrames++
		if elapsed := time.Since(lastReport); elapsed >= time.Second {
			s.log.Debug("frame stats",
				zap.Float64("fps", float64(reportFrames)/elapsed.Seconds()),
				zap.Float32("theta", s.state.Theta),
				zap.Int("visible", len(s.buf)),
				zap.Uint64("dropped", s.counters.Dropped))
			reportFrames = 0
			lastReport = time.Now()
		}

		if beat != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-beat:
			}
		}
	}
}
