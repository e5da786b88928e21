// Package input translates SDL2 events into scene events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/topo-scene/pkg/math"
)

// EventType identifies a scene event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventPointer
	EventHidden
	EventShown
	EventContextReset
	EventKeyDown
)

// Event is a translated input event.
type Event struct {
	Type    EventType
	Key     sdl.Keycode
	Width   int32
	Height  int32
	Pointer math.Vec2 // NDC, +Y up
}

// Input polls and translates SDL events.
type Input struct {
	events []Event
	width  int32 // window size in points, for pointer mapping
	height int32
}

// New creates an input handler for a window size in points.
func New(width, height int32) *Input {
	return &Input{events: make([]Event, 0, 16), width: width, height: height}
}

// Poll drains the SDL queue and returns the translated events. The slice
// is reused by the next call.
func (i *Input) Poll() []Event {
	i.events = i.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := i.Translate(event); ok {
			i.events = append(i.events, ev)
		}
	}
	return i.events
}

// Translate maps one SDL event. Unrelated events report false.
func (i *Input) Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			i.width, i.height = e.Data1, e.Data2
			return Event{Type: EventResize, Width: e.Data1, Height: e.Data2}, true
		case sdl.WINDOWEVENT_HIDDEN, sdl.WINDOWEVENT_MINIMIZED:
			return Event{Type: EventHidden}, true
		case sdl.WINDOWEVENT_SHOWN, sdl.WINDOWEVENT_RESTORED:
			return Event{Type: EventShown}, true
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventQuit}, true
		}

	case *sdl.RenderEvent:
		if e.Type == sdl.RENDER_DEVICE_RESET {
			return Event{Type: EventContextReset}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{Type: EventPointer, Pointer: ToNDC(e.X, e.Y, i.width, i.height)}, true

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return Event{Type: EventKeyDown, Key: e.Keysym.Sym}, true
		}
	}
	return Event{}, false
}

// ToNDC maps a window position in points to [-1, 1] with +Y up.
func ToNDC(x, y, width, height int32) math.Vec2 {
	if width <= 0 || height <= 0 {
		return math.Vec2{}
	}
	nx := float32(x)/float32(width)*2 - 1
	ny := 1 - float32(y)/float32(height)*2
	return math.Vec2{X: nx, Y: ny}.Clamp(-1, 1)
}
