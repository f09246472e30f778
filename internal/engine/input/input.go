// Package input turns SDL2 events into a quit request.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Input polls SDL events once per frame.
type Input struct {
	quit bool
	// QuitKeys close the window when pressed.
	QuitKeys []sdl.Scancode
}

// New creates an input handler that quits on window close or Escape.
func New() *Input {
	return &Input{
		QuitKeys: []sdl.Scancode{sdl.SCANCODE_ESCAPE},
	}
}

// Update drains the SDL event queue. It returns true once a quit was
// requested; the request is sticky.
func (i *Input) Update() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.quit = true

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && i.isQuitKey(e.Keysym.Scancode) {
				i.quit = true
			}
		}
	}
	return i.quit
}

// QuitRequested polls events and reports whether the loop should stop.
func (i *Input) QuitRequested() bool {
	return i.Update()
}

func (i *Input) isQuitKey(sc sdl.Scancode) bool {
	for _, k := range i.QuitKeys {
		if k == sc {
			return true
		}
	}
	return false
}
