package app

import "time"

// frameLimiter caps the loop at a frame rate. The time it sleeps is idle
// time and is never part of the frame cost handed to the quality governor.
type frameLimiter struct {
	fps   int
	sleep func(time.Duration)
}

func newFrameLimiter(fps int) frameLimiter {
	return frameLimiter{fps: fps, sleep: time.Sleep}
}

// Wait sleeps out whatever is left of the frame budget after work.
func (l frameLimiter) Wait(work time.Duration) {
	if l.fps <= 0 {
		return
	}
	budget := time.Second / time.Duration(l.fps)
	if work < budget {
		l.sleep(budget - work)
	}
}
