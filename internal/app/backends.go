package app

import (
	"context"
	"image"

	"github.com/Faultbox/melencholia/internal/config"
	"github.com/Faultbox/melencholia/internal/engine/debug"
	"github.com/Faultbox/melencholia/internal/engine/ebitenhost"
	"github.com/Faultbox/melencholia/internal/engine/input"
	"github.com/Faultbox/melencholia/internal/engine/raster"
	"github.com/Faultbox/melencholia/internal/engine/renderer"
	"github.com/Faultbox/melencholia/internal/engine/sdlsink"
	"github.com/Faultbox/melencholia/internal/engine/texture"
	"github.com/Faultbox/melencholia/internal/engine/window"
)

func (a *App) windowConfig(opengl bool) window.Config {
	w := a.cfg.Window
	return window.Config{
		Title:      w.Title,
		Width:      w.Width,
		Height:     w.Height,
		Fullscreen: w.Fullscreen,
		Borderless: w.Borderless,
		VSync:      w.VSync,
		OpenGL:     opengl,
	}
}

// loadBackground decodes and fits the background image. An empty path
// means no background.
func (a *App) loadBackground() (*image.NRGBA, error) {
	if a.cfg.Assets.Background == "" {
		return nil, nil
	}
	return texture.LoadFit(a.cfg.Assets.Background, a.cfg.Window.Width, a.cfg.Window.Height)
}

func (a *App) paced() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return a.sched.Run(ctx, a.cfg.Render.FPS)
	}
}

func (a *App) openSDL() error {
	win, err := window.New(a.windowConfig(false))
	if err != nil {
		return err
	}
	a.closers = append(a.closers, win.Close)

	s, err := sdlsink.New(win.SDL(), win.VSync(), a.cfg.Assets.Background, a.scene.Clear)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, s.Close)

	a.newScheduler(s, input.New(), a.cfg.Render.MaxFrames)
	a.run = a.paced()
	return nil
}

func (a *App) openGL() error {
	bg, err := a.loadBackground()
	if err != nil {
		return err
	}

	win, err := window.New(a.windowConfig(true))
	if err != nil {
		return err
	}
	a.closers = append(a.closers, win.Close)

	r, err := renderer.New(renderer.Config{
		Width:  a.cfg.Window.Width,
		Height: a.cfg.Window.Height,
	}, bg, a.scene.Clear, win.SwapBuffers)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, r.Close)

	a.newScheduler(r, input.New(), a.cfg.Render.MaxFrames)
	a.run = a.paced()
	return nil
}

func (a *App) openEbiten() error {
	var bg image.Image
	img, err := a.loadBackground()
	if err != nil {
		return err
	}
	if img != nil {
		bg = img
	}

	w := a.cfg.Window
	host := ebitenhost.New(ebitenhost.Config{
		Title:      w.Title,
		Width:      w.Width,
		Height:     w.Height,
		Fullscreen: w.Fullscreen,
		Borderless: w.Borderless,
		VSync:      w.VSync,
		FPS:        a.cfg.Render.FPS,
	}, bg, a.scene.Clear)

	a.newScheduler(host, host, a.cfg.Render.MaxFrames)
	a.run = func(context.Context) error {
		return host.Run(a.sched)
	}
	return nil
}

func (a *App) openHeadless() error {
	bg, err := a.loadBackground()
	if err != nil {
		return err
	}

	a.canvas = raster.New(a.cfg.Window.Width, a.cfg.Window.Height, bg, a.scene.Clear)

	if dir := a.cfg.Render.CaptureDir; dir != "" {
		capture := debug.NewFrameCapture(dir, "frame", a.cfg.Render.CaptureFormat, a.cfg.Render.CaptureEvery)
		a.canvas.OnPresent = capture.OnPresent
	}

	frames := a.cfg.Render.MaxFrames
	if frames == 0 {
		frames = config.HeadlessFrames
	}
	a.newScheduler(a.canvas, nil, frames)
	a.run = func(ctx context.Context) error {
		return a.sched.Run(ctx, 0)
	}
	return nil
}
