package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Lerp(t *testing.T) {
	v := Vec2{0, 0}
	got := v.Lerp(Vec2{1, -1}, 0.25)
	want := Vec2{0.25, -0.25}
	if got != want {
		t.Errorf("Vec2.Lerp() = %v, want %v", got, want)
	}
}

func TestVec2Clamp(t *testing.T) {
	got := Vec2{3, -7}.Clamp(-1, 1)
	want := Vec2{1, -1}
	if got != want {
		t.Errorf("Vec2.Clamp() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Vec3{}.Normalize() = %v, want zero vector", got)
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := Smoothstep(0, 1, tt.x); abs(got-tt.want) > 1e-6 {
			t.Errorf("Smoothstep(0, 1, %v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestFract(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{1.25, 0.25},
		{-0.25, 0.75},
		{3, 0},
	}
	for _, tt := range tests {
		if got := Fract(tt.x); abs(got-tt.want) > 1e-6 {
			t.Errorf("Fract(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestClampNaN(t *testing.T) {
	if got := Clamp(float32(math.NaN()), 0, 1); got != 0 {
		t.Errorf("Clamp(NaN) = %v, want 0", got)
	}
}
