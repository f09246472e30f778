// Package ebitenhost runs the frame loop inside ebiten. Ebiten owns the
// window and calls Update at the configured tick rate; each Update advances
// the scheduler by one tick into an offscreen image, and Draw shows the last
// presented one.
package ebitenhost

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/Faultbox/melencholia/internal/logger"
	"github.com/Faultbox/melencholia/pkg/math"
)

// Ticker is driven once per ebiten frame.
type Ticker interface {
	Tick() (bool, error)
}

// Config holds window settings for the ebiten backend.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	Borderless bool
	VSync      bool
	FPS        int // ticks per second; 0 keeps ebiten's default of 60
}

// Host is both the ebiten.Game and the Sink the scheduler draws into.
type Host struct {
	cfg        Config
	background *ebiten.Image
	clear      color.NRGBA
	white      *ebiten.Image

	ticker Ticker
	back   *ebiten.Image // drawn during a tick
	front  *ebiten.Image // last presented frame
	screen *ebiten.Image // back while a tick is running, else nil
	done   bool
	log    *zap.Logger

	verts   [3]ebiten.Vertex
	indices []uint16
}

// New creates a host. background may be nil.
func New(cfg Config, background image.Image, clear color.NRGBA) *Host {
	h := &Host{
		cfg:     cfg,
		clear:   clear,
		back:    ebiten.NewImage(cfg.Width, cfg.Height),
		front:   ebiten.NewImage(cfg.Width, cfg.Height),
		indices: []uint16{0, 1, 2},
		log:     logger.Named("ebiten"),
	}

	base := ebiten.NewImage(3, 3)
	base.Fill(color.White)
	h.white = base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	h.back.Fill(clear)
	h.front.Fill(clear)

	if background != nil {
		h.background = ebiten.NewImageFromImage(background)
	}
	return h
}

// Run opens the window and blocks until the ticker stops or the window is
// closed.
func (h *Host) Run(t Ticker) error {
	h.ticker = t

	ebiten.SetWindowSize(h.cfg.Width, h.cfg.Height)
	ebiten.SetWindowTitle(h.cfg.Title)
	ebiten.SetWindowDecorated(!h.cfg.Borderless)
	ebiten.SetFullscreen(h.cfg.Fullscreen)
	ebiten.SetVsyncEnabled(h.cfg.VSync)
	if h.cfg.FPS > 0 {
		ebiten.SetTPS(h.cfg.FPS)
	}

	err := ebiten.RunGame(h)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// QuitRequested reports whether Escape is held.
func (h *Host) QuitRequested() bool {
	return ebiten.IsKeyPressed(ebiten.KeyEscape)
}

// Update advances the scheduler by one tick and stops the game once the
// ticker reports it is done.
func (h *Host) Update() error {
	if h.done {
		return ebiten.Termination
	}
	if h.ticker == nil {
		return nil
	}
	h.screen = h.back
	running, err := h.ticker.Tick()
	h.screen = nil
	if err != nil {
		h.log.Debug("tick failed", zap.Error(err))
	}
	if !running {
		h.done = true
		return ebiten.Termination
	}
	return nil
}

// Draw shows the last presented frame.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.DrawImage(h.front, nil)
}

// Layout keeps the logical screen at the configured size.
func (h *Host) Layout(int, int) (int, int) {
	return h.cfg.Width, h.cfg.Height
}

var errNoScreen = errors.New("ebitenhost: draw outside of a frame")

// DrawBackground draws the background image, or fills with the clear
// colour when there is none.
func (h *Host) DrawBackground() error {
	if h.screen == nil {
		return errNoScreen
	}
	if h.background == nil {
		h.screen.Fill(h.clear)
		return nil
	}
	op := &ebiten.DrawImageOptions{}
	b := h.background.Bounds()
	op.GeoM.Scale(float64(h.cfg.Width)/float64(b.Dx()), float64(h.cfg.Height)/float64(b.Dy()))
	h.screen.DrawImage(h.background, op)
	return nil
}

// DrawTriangleOutline strokes the three edges.
func (h *Host) DrawTriangleOutline(p0, p1, p2 math.Vec2, c color.NRGBA) error {
	if h.screen == nil {
		return errNoScreen
	}
	vector.StrokeLine(h.screen, p0.X, p0.Y, p1.X, p1.Y, 1, c, false)
	vector.StrokeLine(h.screen, p1.X, p1.Y, p2.X, p2.Y, 1, c, false)
	vector.StrokeLine(h.screen, p2.X, p2.Y, p0.X, p0.Y, 1, c, false)
	return nil
}

// FillTriangle draws one vertex-coloured triangle.
func (h *Host) FillTriangle(p0, p1, p2 math.Vec2, colors [3]color.NRGBA, alpha uint8) error {
	if h.screen == nil {
		return errNoScreen
	}
	a := float32(alpha) / 255
	for i, p := range [3]math.Vec2{p0, p1, p2} {
		h.verts[i] = ebiten.Vertex{
			DstX:   p.X,
			DstY:   p.Y,
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(colors[i].R) / 255,
			ColorG: float32(colors[i].G) / 255,
			ColorB: float32(colors[i].B) / 255,
			ColorA: a,
		}
	}
	h.screen.DrawTriangles(h.verts[:], h.indices, h.white, nil)
	return nil
}

// Present copies the back image to the front image that Draw shows.
func (h *Host) Present() error {
	if h.screen == nil {
		return errNoScreen
	}
	h.front.DrawImage(h.back, &ebiten.DrawImageOptions{Blend: ebiten.BlendCopy})
	return nil
}

// Clear fills the back image with the clear colour.
func (h *Host) Clear() error {
	if h.screen == nil {
		return errNoScreen
	}
	h.back.Fill(h.clear)
	return nil
}
