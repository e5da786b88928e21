package shader

import "testing"

func TestInfoLog(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"empty", nil, ""},
		{"terminated", []byte("ERROR: 0:12: syntax error\n\x00\x00"), "ERROR: 0:12: syntax error"},
		{"unterminated", []byte("  warning  "), "warning"},
		{"garbage after nul", []byte("ok\x00junk"), "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InfoLog(tt.raw); got != tt.want {
				t.Errorf("InfoLog() = %q, want %q", got, tt.want)
			}
		})
	}
}
