package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
	"trip-route-service/internal/domain"

	"github.com/google/uuid"
)

// PlanningSession is one live planning view: a controller plus the view
// rebuilt from each of its publications.
type PlanningSession struct {
	ID         string
	Controller *RecomputeController

	mu   sync.RWMutex
	view *RouteView
	gen  uint64

	// lastSeen is unix nanoseconds of the last Create or Get.
	lastSeen atomic.Int64
}

// View returns the view of the latest published result and its generation.
func (s *PlanningSession) View() (*RouteView, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view, s.gen
}

func (s *PlanningSession) render(res *RouteResult) {
	view := BuildRouteView(res.Plan, res.MarkerLabels)

	s.mu.Lock()
	s.view = view
	s.gen = res.Generation
	s.mu.Unlock()
}

// SessionRegistry owns the planning sessions of the running service.
// Sessions not looked up for idleTTL are dropped by Sweep; a zero idleTTL
// keeps them until deleted.
type SessionRegistry struct {
	planner Planner
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*PlanningSession
}

func NewSessionRegistry(planner Planner, idleTTL time.Duration) *SessionRegistry {
	return &SessionRegistry{
		planner:  planner,
		idleTTL:  idleTTL,
		now:      time.Now,
		sessions: make(map[string]*PlanningSession),
	}
}

// Create registers a new session; the caller triggers its first computation.
func (r *SessionRegistry) Create() *PlanningSession {
	s := &PlanningSession{ID: uuid.NewString()}
	s.Controller = NewRecomputeController(r.planner, s.render)
	s.lastSeen.Store(r.now().UnixNano())

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s
}

// Get returns the session and marks it as seen.
func (r *SessionRegistry) Get(id string) (*PlanningSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get session %q: %w", id, domain.ErrNotFound)
	}
	s.lastSeen.Store(r.now().UnixNano())
	return s, nil
}

// Delete drops the session. Computations still in flight finish and publish
// into the detached session, which nothing reads any more.
func (r *SessionRegistry) Delete(id string) error {
	if id == "" {
		return errors.New("delete session: id must be non-empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("delete session %q: %w", id, domain.ErrNotFound)
	}
	delete(r.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops every session idle for longer than idleTTL as of now and
// returns how many it dropped.
func (r *SessionRegistry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTTL).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.lastSeen.Load() < cutoff {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// RunJanitor sweeps every interval until ctx is done.
func (r *SessionRegistry) RunJanitor(ctx context.Context, interval time.Duration) {
	if r.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				log.Printf("sessions swept dropped=%d live=%d", n, r.Len())
			}
		}
	}
}
