package readiness

import (
	"testing"
	"time"

	"github.com/Faultbox/topo-scene/internal/engine/timer"
	"github.com/Faultbox/topo-scene/internal/session"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	t     *testing.T
	sched *timer.Scheduler
	store *session.Store
	c     *Coordinator
	seen  []session.Phase
}

func newHarness(t *testing.T, cfg Config) *harness {
	h := &harness{t: t, sched: timer.NewScheduler(epoch), store: session.NewStore()}
	h.seen = []session.Phase{h.store.Phase()}
	h.store.Subscribe(func(s session.Snapshot) {
		if h.seen[len(h.seen)-1] != s.Phase {
			h.seen = append(h.seen, s.Phase)
		}
	})
	h.c = New(h.sched, h.store, cfg)
	return h
}

// advance ticks the scheduler to epoch+d in 10ms frames, like a render loop.
func (h *harness) advance(d time.Duration) {
	target := epoch.Add(d)
	for now := h.sched.Now(); now.Before(target); {
		now = now.Add(10 * time.Millisecond)
		if now.After(target) {
			now = target
		}
		h.sched.Tick(now)
	}
}

func (h *harness) expect(want session.Phase) {
	h.t.Helper()
	if got := h.c.Phase(); got != want {
		h.t.Fatalf("at +%v phase = %v, want %v", h.sched.Now().Sub(epoch), got, want)
	}
	if got := h.store.Phase(); got != want {
		h.t.Fatalf("store phase = %v, coordinator %v", got, want)
	}
}

func TestWarmBeforeMinTimer(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.Mount()
	h.expect(session.NotReady)

	h.advance(100 * time.Millisecond)
	h.c.SceneWarmed()
	h.expect(session.SceneWarmed)

	h.advance(2490 * time.Millisecond)
	h.expect(session.SceneWarmed)
	if h.store.CanReveal() {
		t.Fatal("CanReveal before the minimum display time")
	}

	h.advance(2500 * time.Millisecond)
	h.expect(session.CanReveal)
	if h.store.LoaderGone() {
		t.Fatal("LoaderGone at CanReveal")
	}

	h.advance(3790 * time.Millisecond)
	h.expect(session.CanReveal)

	h.advance(3800 * time.Millisecond)
	h.expect(session.Revealed)
	if !h.store.LoaderGone() || !h.store.Visited() {
		t.Error("Revealed without LoaderGone or visited flag")
	}
	if h.store.Snapshot().ForcedReveal {
		t.Error("normal reveal flagged as forced")
	}

	want := []session.Phase{session.NotReady, session.SceneWarmed, session.CanReveal, session.Revealed}
	if len(h.seen) != len(want) {
		t.Fatalf("transitions = %v, want %v", h.seen, want)
	}
	for i := range want {
		if h.seen[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", h.seen, want)
		}
	}
}

func TestMinTimerBeforeWarm(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.Mount()

	h.advance(5 * time.Second)
	h.expect(session.MinTimeElapsed)
	if h.store.CanReveal() {
		t.Fatal("timer alone must not allow a reveal")
	}

	h.c.SceneWarmed()
	h.expect(session.CanReveal)

	h.advance(6300 * time.Millisecond)
	h.expect(session.Revealed)
}

func TestWarmBeforeMountIgnored(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.SceneWarmed()
	h.c.Mount()
	h.advance(3 * time.Second)
	h.expect(session.MinTimeElapsed)
}

func TestRepeatVisitStartsRevealed(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.store.MarkVisited()

	h.c.Mount()
	h.expect(session.Revealed)
	if !h.store.LoaderGone() {
		t.Error("repeat visit must not show the loader")
	}
	if h.sched.Pending() != 0 {
		t.Errorf("%d timers pending on a repeat visit", h.sched.Pending())
	}
}

func TestRepeatVisitDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipOnRepeat = false
	h := newHarness(t, cfg)
	h.store.MarkVisited()

	h.c.Mount()
	h.expect(session.NotReady)
}

func TestReplayFromRevealed(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.Mount()
	h.c.SceneWarmed()
	h.advance(4 * time.Second)
	h.expect(session.Revealed)

	h.c.Replay()
	h.expect(session.NotReady)
	if h.store.LoaderGone() || h.store.CanReveal() {
		t.Fatal("replay must clear CanReveal and LoaderGone")
	}

	// The old warm-up does not count; the sequence needs a fresh signal.
	h.advance(7 * time.Second)
	h.expect(session.MinTimeElapsed)

	h.c.SceneWarmed()
	h.expect(session.CanReveal)
	h.advance(8300 * time.Millisecond)
	h.expect(session.Revealed)
}

func TestReplayMidSequenceCancelsExit(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.Mount()
	h.c.SceneWarmed()
	h.advance(3 * time.Second)
	h.expect(session.CanReveal)

	h.c.Replay()
	h.advance(4 * time.Second)
	h.expect(session.NotReady)
}

func TestHardTimeoutForcesReveal(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.Mount()

	h.advance(9990 * time.Millisecond)
	h.expect(session.MinTimeElapsed)

	h.advance(10 * time.Second)
	h.expect(session.CanReveal)
	if !h.store.Snapshot().ForcedReveal || !h.c.Forced() {
		t.Error("forced reveal not flagged")
	}

	h.advance(11300 * time.Millisecond)
	h.expect(session.Revealed)

	// A late warm-up changes nothing.
	h.c.SceneWarmed()
	h.expect(session.Revealed)
}

func TestHardTimeoutCancelledByReveal(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.Mount()
	h.c.SceneWarmed()
	h.advance(20 * time.Second)
	h.expect(session.Revealed)
	if h.store.Snapshot().ForcedReveal {
		t.Error("hard timeout fired after a normal reveal")
	}
}

func TestHardTimeoutAfterWarmKeepsMinDisplay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HardTimeout = time.Second
	h := newHarness(t, cfg)
	h.c.Mount()

	h.advance(100 * time.Millisecond)
	h.c.SceneWarmed()

	h.advance(1100 * time.Millisecond)
	h.expect(session.SceneWarmed)

	h.advance(2500 * time.Millisecond)
	h.expect(session.CanReveal)
	if h.store.Snapshot().ForcedReveal || h.c.Forced() {
		t.Error("reveal flagged as forced after a completed warm-up")
	}
}

func TestHardTimeoutBeforeMinDisplayWaits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HardTimeout = time.Second
	h := newHarness(t, cfg)
	h.c.Mount()

	h.advance(1100 * time.Millisecond)
	h.expect(session.NotReady)
	if !h.c.Forced() {
		t.Error("timeout did not mark the reveal as forced")
	}

	h.advance(2500 * time.Millisecond)
	h.expect(session.CanReveal)
	if !h.store.Snapshot().ForcedReveal {
		t.Error("forced reveal not published")
	}
}

func TestUnmountCancelsTimers(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.Mount()
	h.c.SceneWarmed()
	h.advance(time.Second)

	h.c.Unmount()
	if h.sched.Pending() != 0 {
		t.Fatalf("%d timers left after unmount", h.sched.Pending())
	}
	h.advance(30 * time.Second)
	h.expect(session.SceneWarmed)

	h.c.SceneWarmed()
	h.c.Replay()
	h.expect(session.SceneWarmed)
}

func TestContextLossDoesNotMoveReadiness(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.Mount()
	h.c.SceneWarmed()
	h.advance(4 * time.Second)
	h.expect(session.Revealed)

	h.store.SetContextLost(true)
	h.advance(5 * time.Second)
	h.store.SetContextLost(false)
	h.expect(session.Revealed)
}

func TestProgress(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.c.Mount()

	h.advance(1250 * time.Millisecond)
	load, exit := h.c.Progress()
	if load < 0.49 || load > 0.51 || exit != 0 {
		t.Errorf("Progress() = %v, %v at half the min display", load, exit)
	}

	h.advance(2500 * time.Millisecond)
	if load, _ := h.c.Progress(); load > 0.95 {
		t.Errorf("load = %v before warm-up, want capped", load)
	}

	h.c.SceneWarmed()
	h.advance(3150 * time.Millisecond)
	load, exit = h.c.Progress()
	if load != 1 || exit < 0.49 || exit > 0.51 {
		t.Errorf("Progress() = %v, %v halfway through exit", load, exit)
	}
}
