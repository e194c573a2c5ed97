// Package sessions keeps one quiz engine per remote participant for hosts
// that serve many users at once.
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abhisek/protoquiz/internal/quiz"
)

// ErrNotFound is returned by Peek for unknown or expired keys.
var ErrNotFound = errors.New("session not found")

// Session is one participant's quiz. Its fields may only be touched inside
// a With or Peek callback.
type Session struct {
	mu       sync.Mutex
	lastSeen time.Time

	Engine  *quiz.Engine
	BankID  string
	Started time.Time
}

// Restart resets the engine and the attempt clock.
func (s *Session) Restart(now time.Time) {
	s.Engine.Reset()
	s.Started = now
}

// Manager is a concurrency-safe map of sessions with idle expiry.
type Manager struct {
	ttl  time.Duration
	now  func() time.Time
	opts []quiz.Option

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithEngineOptions passes opts to every engine the manager creates.
func WithEngineOptions(opts ...quiz.Option) Option {
	return func(m *Manager) { m.opts = append(m.opts, opts...) }
}

// New creates a Manager that forgets sessions idle for longer than ttl.
// A zero ttl disables expiry.
func New(ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{ttl: ttl, now: time.Now, sessions: make(map[string]*Session)}
	for _, o := range opts {
		o(m)
	}
	return m
}

// With runs fn on the session for key, serialized against other calls for
// the same key. A missing session, or one holding a different bank, is
// replaced by a fresh engine for bank.
func (m *Manager) With(key string, bank quiz.Bank, fn func(*Session) error) error {
	m.mu.Lock()
	s, ok := m.sessions[key]
	if !ok || s.BankID != bank.ID {
		eng, err := quiz.New(bank, m.opts...)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		s = &Session{Engine: eng, BankID: bank.ID, Started: m.now()}
		m.sessions[key] = s
	}
	s.lastSeen = m.now()
	m.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Peek runs fn on an existing session without creating one.
func (m *Manager) Peek(key string, fn func(*Session) error) error {
	m.mu.Lock()
	s, ok := m.sessions[key]
	if ok {
		s.lastSeen = m.now()
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Delete forgets key.
func (m *Manager) Delete(key string) {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle since before now-ttl and returns how many were
// removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, k)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done. onSweep, if set, receives
// the number of sessions removed by each pass.
func (m *Manager) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n := m.Sweep(m.now())
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
