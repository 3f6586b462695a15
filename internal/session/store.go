// Package session keeps per-browser interview state in memory.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/harshith-118/AI-Interviewer/internal/interview"
	"github.com/harshith-118/AI-Interviewer/internal/models"
)

// Session is the state of one interview session. Callers hold Lock while
// reading or changing any field other than ID.
type Session struct {
	ID string

	mu       sync.Mutex
	lastSeen time.Time
	pinned   bool

	State        models.SessionState
	Driver       *interview.Driver
	DocumentName string
	Kind         models.DataKind
	Params       models.GenerationParams
}

// Lock serializes operations on the session
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session
func (s *Session) Unlock() { s.mu.Unlock() }

// UploadRemover deletes the uploads that belong to a session
type UploadRemover interface {
	RemoveSession(sessionID string) error
}

// Store holds sessions keyed by ID and expires idle ones
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl     time.Duration
	uploads UploadRemover
	logger  *slog.Logger
	now     func() time.Time
	cron    *cron.Cron
}

// NewStore creates an empty store. uploads may be nil.
func NewStore(ttl time.Duration, uploads UploadRemover, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		uploads:  uploads,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns an existing session and marks it as used
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}

	st.touch(s)
	return s, true
}

// GetOrCreate returns the session for id, or a new session with a fresh ID
// when id is empty or unknown. created reports which happened.
func (st *Store) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := st.Get(id); ok {
		return s, false
	}

	s = &Session{
		ID:       uuid.NewString(),
		lastSeen: st.now(),
		Params:   models.DefaultGenerationParams(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Debug("session created", "session", s.ID)
	return s, true
}

// Pin exempts a session from expiry. It reports false for an unknown ID.
func (st *Store) Pin(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if ok {
		s.pinned = true
	}
	return ok
}

// Delete removes a session and its uploads
func (st *Store) Delete(id string) {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		st.removeUploads(id)
	}
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep deletes sessions idle for longer than the TTL and returns how many
// were removed. Sessions busy with a request are left for the next sweep and
// pinned sessions never expire.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	var expired []string
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.pinned {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()

		if idle {
			delete(st.sessions, id)
			expired = append(expired, id)
		}
	}
	st.mu.Unlock()

	for _, id := range expired {
		st.removeUploads(id)
	}

	if len(expired) > 0 {
		st.logger.Info("expired sessions swept", "count", len(expired))
	}
	return len(expired)
}

// StartSweeper runs Sweep on a cron schedule every interval
func (st *Store) StartSweeper(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() { st.Sweep() }); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	c.Start()
	st.cron = c

	st.logger.Info("session sweeper started", "interval", interval, "ttl", st.ttl)
	return nil
}

// Stop halts the sweeper and waits for a running sweep to finish
func (st *Store) Stop() {
	if st.cron != nil {
		ctx := st.cron.Stop()
		<-ctx.Done()
		st.logger.Info("session sweeper stopped")
	}
}

func (st *Store) touch(s *Session) {
	now := st.now()
	st.mu.Lock()
	s.lastSeen = now
	st.mu.Unlock()
}

func (st *Store) removeUploads(id string) {
	if st.uploads == nil {
		return
	}
	if err := st.uploads.RemoveSession(id); err != nil {
		st.logger.Warn("failed to remove session uploads", "session", id, "error", err)
	}
}
