package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks that the settings describe a renderable scene. All
// problems are reported together.
func (c *Config) Validate() error {
	var err error
	fail := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		fail("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	switch c.Render.Backend {
	case BackendSDL, BackendGL, BackendEbiten, BackendHeadless:
	default:
		fail("unknown render backend %q", c.Render.Backend)
	}
	if c.Render.FPS < 0 {
		fail("render fps %d is negative", c.Render.FPS)
	}
	if c.Render.CaptureEvery < 1 {
		fail("render capture_every %d must be at least 1", c.Render.CaptureEvery)
	}
	switch c.Render.CaptureFormat {
	case CapturePNG, CaptureWebP:
	default:
		fail("unknown capture format %q", c.Render.CaptureFormat)
	}

	if c.Camera.Near <= 0 {
		fail("camera near %g must be positive", c.Camera.Near)
	}
	if c.Camera.Near >= c.Camera.Far {
		fail("camera near %g must be less than far %g", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		fail("camera fov %g must be in (0, 180)", c.Camera.FOV)
	}

	for _, a := range c.Rotation.Axes {
		switch strings.ToLower(strings.TrimSpace(a)) {
		case "x", "y", "z":
		default:
			fail("unknown rotation axis %q", a)
		}
	}

	if c.Style.Alpha < 0 || c.Style.Alpha > 1 {
		fail("style alpha %g must be in [0, 1]", c.Style.Alpha)
	}
	if len(c.Style.Vertex) != 3 {
		fail("style needs 3 vertex colours, got %d", len(c.Style.Vertex))
	}
	for _, s := range append([]string{c.Style.Outline, c.Style.Clear}, c.Style.Vertex...) {
		if _, perr := ParseColor(s); perr != nil {
			fail("style: %v", perr)
		}
	}

	if c.Assets.Mesh == "" {
		fail("assets mesh path is empty")
	}
	return err
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". The leading '#' is optional.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("colour %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Colors resolves the style strings. Call it after Validate.
func (s StyleConfig) Colors() (outline color.NRGBA, vertex [3]color.NRGBA, clear color.NRGBA, err error) {
	if outline, err = ParseColor(s.Outline); err != nil {
		return
	}
	if clear, err = ParseColor(s.Clear); err != nil {
		return
	}
	if len(s.Vertex) != 3 {
		err = fmt.Errorf("%w: style needs 3 vertex colours, got %d", ErrInvalid, len(s.Vertex))
		return
	}
	for i, v := range s.Vertex {
		if vertex[i], err = ParseColor(v); err != nil {
			return
		}
	}
	return
}
