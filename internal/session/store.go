// Package session holds the process-wide scene state shared between the
// render core and its consumers: readiness, quality tier, and context loss.
//
// Writes happen on the render thread through the named setters. Readers
// get a View; subscribers are invoked synchronously by the writer, in
// subscription order, and only when the snapshot actually changed.
package session

import (
	"sync"

	"github.com/Faultbox/topo-scene/internal/engine/quality"
)

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	Phase        Phase        `json:"phase"`
	CanReveal    bool         `json:"canReveal"`
	LoaderGone   bool         `json:"loaderGone"`
	ContextLost  bool         `json:"contextLost"`
	Tier         quality.Tier `json:"tier"`
	ForcedReveal bool         `json:"forcedReveal"`
}

// View is the read side of the store.
type View interface {
	Snapshot() Snapshot
	Phase() Phase
	CanReveal() bool
	LoaderGone() bool
	ContextLost() bool
	Tier() quality.Tier
	// Subscribe registers fn for every future change and returns a cancel func.
	Subscribe(fn func(Snapshot)) (cancel func())
}

type subscriber struct {
	id uint64
	fn func(Snapshot)
}

// Store owns the session state. Snapshot reads are safe from any goroutine.
type Store struct {
	mu      sync.RWMutex
	snap    Snapshot
	visited bool

	subs   []subscriber
	nextID uint64
}

var _ View = (*Store)(nil)

// NewStore creates a store at NotReady and the High tier.
func NewStore() *Store {
	return &Store{snap: Snapshot{Phase: NotReady, Tier: quality.High}}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) Phase() Phase       { return s.Snapshot().Phase }
func (s *Store) CanReveal() bool    { return s.Snapshot().CanReveal }
func (s *Store) LoaderGone() bool   { return s.Snapshot().LoaderGone }
func (s *Store) ContextLost() bool  { return s.Snapshot().ContextLost }
func (s *Store) Tier() quality.Tier { return s.Snapshot().Tier }

// Visited reports whether the scene was revealed earlier in this session.
func (s *Store) Visited() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visited
}

// PublishReadiness records a readiness phase. CanReveal and LoaderGone are
// derived from it. forced marks a reveal caused by the hard timeout.
func (s *Store) PublishReadiness(p Phase, forced bool) {
	s.update(func(snap *Snapshot) {
		snap.Phase = p
		snap.CanReveal = p >= CanReveal
		snap.LoaderGone = p == Revealed
		snap.ForcedReveal = forced && p >= CanReveal
	})
}

// SetContextLost records whether the GPU context is currently lost.
func (s *Store) SetContextLost(lost bool) {
	s.update(func(snap *Snapshot) { snap.ContextLost = lost })
}

// SetTier records the active quality tier.
func (s *Store) SetTier(t quality.Tier) {
	s.update(func(snap *Snapshot) { snap.Tier = t })
}

// MarkVisited remembers that the scene has been revealed once.
func (s *Store) MarkVisited() {
	s.mu.Lock()
	s.visited = true
	s.mu.Unlock()
}

// Subscribe registers fn for future changes. fn runs on the writer's goroutine.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) update(mutate func(*Snapshot)) {
	s.mu.Lock()
	next := s.snap
	mutate(&next)
	if next == s.snap {
		s.mu.Unlock()
		return
	}
	s.snap = next
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(next)
	}
}
