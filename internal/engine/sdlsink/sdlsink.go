// Package sdlsink draws frames with the SDL2 2D renderer.
package sdlsink

import (
	"fmt"
	"image/color"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/melencholia/internal/logger"
	"github.com/Faultbox/melencholia/pkg/math"
)

// Sink renders through an SDL_Renderer attached to a window.
type Sink struct {
	renderer   *sdl.Renderer
	background *sdl.Texture
	clear      color.NRGBA
	verts      [3]sdl.Vertex
}

// New creates an accelerated renderer for win and loads the background
// image, if any. The background is stretched to the window.
func New(win *sdl.Window, vsync bool, backgroundPath string, clear color.NRGBA) (*Sink, error) {
	flags := uint32(sdl.RENDERER_ACCELERATED)
	if vsync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}

	r, err := sdl.CreateRenderer(win, -1, flags)
	if err != nil {
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}
	if err := r.SetDrawBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("SDL_SetRenderDrawBlendMode failed: %w", err)
	}

	s := &Sink{renderer: r, clear: clear}

	if backgroundPath != "" {
		s.background, err = img.LoadTexture(r, backgroundPath)
		if err != nil {
			r.Destroy()
			return nil, fmt.Errorf("loading background %s: %w", backgroundPath, err)
		}
		logger.Info("background loaded", zap.String("path", backgroundPath))
	}

	if err := s.Clear(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the renderer and background texture.
func (s *Sink) Close() {
	if s.background != nil {
		s.background.Destroy()
		s.background = nil
	}
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
}

// DrawBackground copies the background texture over the whole target.
func (s *Sink) DrawBackground() error {
	if s.background == nil {
		return nil
	}
	return s.renderer.Copy(s.background, nil, nil)
}

// DrawTriangleOutline draws the three edges.
func (s *Sink) DrawTriangleOutline(p0, p1, p2 math.Vec2, c color.NRGBA) error {
	if err := s.renderer.SetDrawColor(c.R, c.G, c.B, c.A); err != nil {
		return err
	}
	for _, e := range [3][2]math.Vec2{{p0, p1}, {p1, p2}, {p2, p0}} {
		if err := s.renderer.DrawLineF(e[0].X, e[0].Y, e[1].X, e[1].Y); err != nil {
			return err
		}
	}
	return nil
}

// FillTriangle submits one coloured triangle to SDL_RenderGeometry.
func (s *Sink) FillTriangle(p0, p1, p2 math.Vec2, colors [3]color.NRGBA, alpha uint8) error {
	for i, p := range [3]math.Vec2{p0, p1, p2} {
		s.verts[i] = sdl.Vertex{
			Position: sdl.FPoint{X: p.X, Y: p.Y},
			Color:    sdl.Color{R: colors[i].R, G: colors[i].G, B: colors[i].B, A: alpha},
		}
	}
	return s.renderer.RenderGeometry(nil, s.verts[:], nil)
}

// Present shows the frame.
func (s *Sink) Present() error {
	s.renderer.Present()
	return nil
}

// Clear fills the target with the clear colour.
func (s *Sink) Clear() error {
	if err := s.renderer.SetDrawColor(s.clear.R, s.clear.G, s.clear.B, s.clear.A); err != nil {
		return err
	}
	return s.renderer.Clear()
}
