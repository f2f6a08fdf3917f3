package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/msomdec/zedny-portal/internal/domain"
)

// DefaultLoginDelay is the simulated backend latency of SessionStore.Login.
const DefaultLoginDelay = 500 * time.Millisecond

// SessionStore holds the identity and theme of every client session in
// memory. It is the single source of truth for both; handlers read it with
// State and Subscribe and change it through the mutators.
//
// Idle sessions without subscribers are evicted after the TTL. Nothing
// survives a restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*clientSession
	delay    time.Duration
	ttl      time.Duration

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

type clientSession struct {
	identity *domain.Identity
	theme    domain.Theme
	version  uint64
	lastSeen time.Time
	subs     map[int]chan domain.Snapshot
	nextSub  int
}

func (cs *clientSession) snapshot() domain.Snapshot {
	snap := domain.Snapshot{Theme: cs.theme, Version: cs.version}
	if cs.identity != nil {
		id := *cs.identity
		snap.Identity = &id
	}
	return snap
}

// NewSessionStore creates a store whose Login waits delay before signing in
// and which forgets sessions idle for longer than ttl. Call Close to stop
// the eviction loop.
func NewSessionStore(delay, ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*clientSession),
		delay:    delay,
		ttl:      ttl,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go s.evictLoop()
	return s
}

// Login signs sid in as email after the simulated delay. The password is
// not checked here; callers validate credentials first. If ctx ends before
// the delay elapses the session is left unchanged and the context error is
// returned.
func (s *SessionStore) Login(ctx context.Context, sid, email, password string) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("login: %w", ctx.Err())
	case <-timer.C:
	}

	s.mutate(sid, func(cs *clientSession) {
		cs.identity = &domain.Identity{Email: email}
	})
	return nil
}

// Logout clears the identity of sid.
func (s *SessionStore) Logout(sid string) {
	s.mutate(sid, func(cs *clientSession) {
		cs.identity = nil
	})
}

// ToggleTheme flips the theme of sid and returns the new value.
func (s *SessionStore) ToggleTheme(sid string) domain.Theme {
	snap := s.mutate(sid, func(cs *clientSession) {
		cs.theme = cs.theme.Toggle()
	})
	return snap.Theme
}

// State returns the current snapshot of sid. Unknown sessions report the
// signed-out, light-theme defaults.
func (s *SessionStore) State(sid string) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.get(sid)
	cs.lastSeen = time.Now()
	return cs.snapshot()
}

// IsAuthenticated reports whether sid has an identity.
func (s *SessionStore) IsAuthenticated(sid string) bool {
	return s.State(sid).IsAuthenticated()
}

// Identity returns the identity of sid, or nil when signed out.
func (s *SessionStore) Identity(sid string) *domain.Identity {
	return s.State(sid).Identity
}

// Subscribe returns a channel that receives the latest snapshot of sid after
// every mutation. Only the newest snapshot is buffered; a slow reader skips
// intermediate states. The cancel func must be called to release it.
func (s *SessionStore) Subscribe(sid string) (<-chan domain.Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.get(sid)
	id := cs.nextSub
	cs.nextSub++
	ch := make(chan domain.Snapshot, 1)
	cs.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			// The session may have been dropped and recreated since, with
			// its ids starting over; only release our own channel.
			if cur, ok := s.sessions[sid]; ok && cur.subs[id] == ch {
				delete(cur.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Forget drops all state of sid and closes its subscriptions.
func (s *SessionStore) Forget(sid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drop(sid)
}

// Close stops the eviction loop and closes every subscription.
func (s *SessionStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		<-s.stopped

		s.mu.Lock()
		defer s.mu.Unlock()
		for sid := range s.sessions {
			s.drop(sid)
		}
	})
}

// get returns the session for sid, creating it with defaults. Caller holds mu.
func (s *SessionStore) get(sid string) *clientSession {
	cs, ok := s.sessions[sid]
	if !ok {
		cs = &clientSession{
			theme:    domain.ThemeLight,
			lastSeen: time.Now(),
			subs:     make(map[int]chan domain.Snapshot),
		}
		s.sessions[sid] = cs
	}
	return cs
}

// drop removes sid. Caller holds mu.
func (s *SessionStore) drop(sid string) {
	cs, ok := s.sessions[sid]
	if !ok {
		return
	}
	for id, ch := range cs.subs {
		delete(cs.subs, id)
		close(ch)
	}
	delete(s.sessions, sid)
}

func (s *SessionStore) mutate(sid string, fn func(cs *clientSession)) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs := s.get(sid)
	fn(cs)
	cs.version++
	cs.lastSeen = time.Now()

	snap := cs.snapshot()
	for _, ch := range cs.subs {
		publish(ch, snap)
	}
	return snap
}

// publish replaces whatever is buffered in ch with snap.
func publish(ch chan domain.Snapshot, snap domain.Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

func (s *SessionStore) evictLoop() {
	defer close(s.stopped)

	interval := s.ttl / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.evictIdle(now)
		}
	}
}

func (s *SessionStore) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-s.ttl)
	for sid, cs := range s.sessions {
		if len(cs.subs) == 0 && cs.lastSeen.Before(cutoff) {
			delete(s.sessions, sid)
		}
	}
}
