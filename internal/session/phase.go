package session

import "fmt"

// Phase is the readiness state of the scene.
type Phase int

const (
	NotReady Phase = iota
	SceneWarmed
	MinTimeElapsed
	CanReveal
	Revealed
)

var phaseNames = [...]string{
	NotReady:       "not_ready",
	SceneWarmed:    "scene_warmed",
	MinTimeElapsed: "min_time_elapsed",
	CanReveal:      "can_reveal",
	Revealed:       "revealed",
}

func (p Phase) String() string {
	if p < NotReady || p > Revealed {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}
