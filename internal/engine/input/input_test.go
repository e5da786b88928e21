package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/topo-scene/pkg/math"
)

func TestToNDC(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int32
		want       math.Vec2
	}{
		{"center", 400, 300, 800, 600, math.Vec2{X: 0, Y: 0}},
		{"top left", 0, 0, 800, 600, math.Vec2{X: -1, Y: 1}},
		{"bottom right", 800, 600, 800, 600, math.Vec2{X: 1, Y: -1}},
		{"outside clamps", -100, 900, 800, 600, math.Vec2{X: -1, Y: -1}},
		{"empty window", 10, 10, 0, 0, math.Vec2{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToNDC(tt.x, tt.y, tt.w, tt.h); got != tt.want {
				t.Errorf("ToNDC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	in := New(800, 600)

	tests := []struct {
		name  string
		event sdl.Event
		want  EventType
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, EventQuit, true},
		{"hidden", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MINIMIZED}, EventHidden, true},
		{"shown", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESTORED}, EventShown, true},
		{"device reset", &sdl.RenderEvent{Type: sdl.RENDER_DEVICE_RESET}, EventContextReset, true},
		{"targets reset", &sdl.RenderEvent{Type: sdl.RENDER_TARGETS_RESET}, EventNone, false},
		{"key", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Sym: sdl.K_l}}, EventKeyDown, true},
		{"key repeat", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Sym: sdl.K_l}}, EventNone, false},
		{"key up", &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Sym: sdl.K_l}}, EventNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := in.Translate(tt.event)
			if ok != tt.ok || ev.Type != tt.want {
				t.Errorf("Translate() = %v, %v, want %v, %v", ev.Type, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTranslateResizeUpdatesPointerMapping(t *testing.T) {
	in := New(800, 600)
	ev, ok := in.Translate(&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 400, Data2: 200})
	if !ok || ev.Type != EventResize || ev.Width != 400 || ev.Height != 200 {
		t.Fatalf("resize = %+v, %v", ev, ok)
	}
	ev, _ = in.Translate(&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 200, Y: 100})
	if ev.Type != EventPointer || ev.Pointer != (math.Vec2{}) {
		t.Errorf("pointer after resize = %+v", ev)
	}
}
