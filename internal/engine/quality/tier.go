// Package quality decides how much rendering work the device can afford.
//
// A Tier is chosen once at startup from device signals (Detect), capped by
// a config override if present, and afterwards only lowered by the frame
// time Monitor. Raising it again is always an explicit call (Incline).
package quality

import (
	"fmt"
	"strings"
)

// Tier is a rendering quality level.
type Tier int

const (
	Low Tier = iota
	Medium
	High
)

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= Low && t <= High
}

// Lower returns the next tier down, or Low.
func (t Tier) Lower() Tier {
	if t <= Low {
		return Low
	}
	return t - 1
}

// Higher returns the next tier up, or High.
func (t Tier) Higher() Tier {
	if t >= High {
		return High
	}
	return t + 1
}

// ParseTier parses a tier name.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}
	return Low, fmt.Errorf("unknown quality tier %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
