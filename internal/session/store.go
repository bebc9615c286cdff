// Package session keeps one viewer controller per browser session.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/vire-reports/internal/metrics"
	"github.com/bobmcallan/vire-reports/internal/viewer"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "vire_reports_session"

// Factory builds the controller for a new session.
type Factory func() *viewer.Controller

// entry wraps a controller with expiry and insertion order tracking.
type entry struct {
	ctrl      *viewer.Controller
	expiry    time.Time
	insertIdx int64
}

// Store holds session controllers. Entries expire after ttl without use;
// at capacity the oldest session is evicted. Evicted and expired
// controllers are closed. Thread-safe with sync.Mutex.
type Store struct {
	mu         sync.Mutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
	factory    Factory
	metrics    *metrics.Metrics
	now        func() time.Time
}

// New creates a Store with the given TTL and max session count.
func New(ttl time.Duration, maxEntries int, factory Factory, m *metrics.Metrics) *Store {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Store{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		factory:    factory,
		metrics:    m,
		now:        time.Now,
	}
}

// Get returns the live controller for id and extends its expiry.
func (s *Store) Get(id string) (*viewer.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiry) {
		s.removeLocked(id)
		return nil, false
	}
	e.expiry = s.now().Add(s.ttl)
	s.items[id] = e
	return e.ctrl, true
}

// Create starts a new session and returns its ID and controller.
func (s *Store) Create() (string, *viewer.Controller) {
	id := uuid.New().String()
	ctrl := s.factory()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) >= s.maxEntries {
		s.evictOldest()
	}
	s.items[id] = entry{
		ctrl:      ctrl,
		expiry:    s.now().Add(s.ttl),
		insertIdx: s.nextIdx,
	}
	s.nextIdx++
	s.metrics.SessionsChanged(len(s.items))
	return id, ctrl
}

// Resolve returns the controller for the request's session cookie,
// creating a session and setting the cookie when there is none or it has
// expired.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) (string, *viewer.Controller) {
	if c, err := r.Cookie(CookieName); err == nil {
		if ctrl, ok := s.Get(c.Value); ok {
			return c.Value, ctrl
		}
	}

	id, ctrl := s.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, ctrl
}

// Delete ends the session id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
}

// Sweep drops every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.items {
		if now.After(e.expiry) {
			s.removeLocked(id)
			removed++
		}
	}
	return removed
}

// Len returns the number of sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close ends every session.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.items {
		s.removeLocked(id)
	}
}

// removeLocked closes and deletes one session. Must be called with mu held.
func (s *Store) removeLocked(id string) {
	e, ok := s.items[id]
	if !ok {
		return
	}
	delete(s.items, id)
	if e.ctrl != nil {
		e.ctrl.Close()
	}
	s.metrics.SessionsChanged(len(s.items))
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (s *Store) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range s.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		s.removeLocked(oldestKey)
	}
}
