package session

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/lingbot/internal/core"
	"github.com/sandevgo/lingbot/pkg/log"
)

const (
	defaultHistoryCap    = 20
	defaultIdleTimeout   = 30 * time.Minute
	defaultSweepInterval = 10 * time.Minute
)

// session is one keyed conversation: accumulated entity context, bounded
// history and the last-activity stamp used for expiry. turnMu serializes
// whole turns against the same session; the store mutex guards the fields.
type session struct {
	turnMu       sync.Mutex
	context      map[string]string
	history      []core.Turn
	lastActiveAt time.Time
}

// Store owns all live sessions. Sessions are created lazily, mutated only
// through the operations below and removed by the periodic expiry sweep.
// State is volatile: a restart loses every session, which is a documented
// limitation, not a defect.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session

	historyCap    int
	idleTimeout   time.Duration
	sweepInterval time.Duration

	now func() time.Time
}

func NewStore(cfg core.SessionConfig) *Store {
	s := &Store{
		sessions:      make(map[string]*session),
		historyCap:    defaultHistoryCap,
		idleTimeout:   defaultIdleTimeout,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
	if cfg != nil {
		if cfg.GetHistoryCap() > 0 {
			s.historyCap = cfg.GetHistoryCap()
		}
		if cfg.GetIdleTimeout() > 0 {
			s.idleTimeout = cfg.GetIdleTimeout()
		}
		if cfg.GetSweepInterval() > 0 {
			s.sweepInterval = cfg.GetSweepInterval()
		}
	}
	return s
}

// Start runs the expiry sweeper until the context is cancelled. Implements
// srv.Service.
func (s *Store) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().
		Dur("idle_timeout", s.idleTimeout).
		Dur("sweep_interval", s.sweepInterval).
		Msg("starting session store")

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if removed := s.SweepExpired(s.now()); removed > 0 {
				logger.Debug().Int("removed", removed).Msg("swept expired sessions")
			}
		}
	}
}

func (s *Store) Shutdown(ctx context.Context) error {
	return nil
}

// Acquire serializes a whole conversational turn against the session. It
// returns once no other turn holds the session, and the caller must invoke
// the release function when its turn is complete.
func (s *Store) Acquire(sessionID string) (release func()) {
	sess := s.getOrCreate(sessionID)
	sess.turnMu.Lock()
	return sess.turnMu.Unlock
}

// AppendTurn adds a turn to the session's history, evicting the oldest
// entries once the cap is exceeded.
func (s *Store) AppendTurn(sessionID, role, content string) core.Turn {
	turn := core.Turn{Role: role, Content: content, CreatedAt: s.now()}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.locked(sessionID)
	sess.history = append(sess.history, turn)
	if overflow := len(sess.history) - s.historyCap; overflow > 0 {
		sess.history = sess.history[overflow:]
	}
	return turn
}

// MergeContext folds the resolved entity values into the session context,
// last write wins per entity type.
func (s *Store) MergeContext(sessionID string, entities []core.EntityMatch) {
	if len(entities) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.locked(sessionID)
	for _, e := range entities {
		if e.Type == "" {
			continue
		}
		sess.context[e.Type] = e.Resolved()
	}
}

// Context returns a copy of the session's accumulated entity context.
func (s *Store) Context(sessionID string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(sess.context))
	for k, v := range sess.context {
		out[k] = v
	}
	return out
}

// History returns a copy of the session's bounded history, oldest first.
// The second return reports whether the session exists.
func (s *Store) History(sessionID string) ([]core.Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	out := make([]core.Turn, len(sess.history))
	copy(out, sess.history)
	return out, true
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepExpired removes every session idle for longer than the timeout and
// reports how many were removed. A session mid-turn holds its turn lock, so
// the sweep waits rather than deleting under an active request.
func (s *Store) SweepExpired(now time.Time) int {
	s.mu.RLock()
	candidates := make(map[string]*session)
	for id, sess := range s.sessions {
		if now.Sub(sess.lastActiveAt) > s.idleTimeout {
			candidates[id] = sess
		}
	}
	s.mu.RUnlock()

	removed := 0
	for id, sess := range candidates {
		sess.turnMu.Lock()
		s.mu.Lock()
		// Re-check: the session may have been touched while we waited.
		if cur, ok := s.sessions[id]; ok && cur == sess && now.Sub(cur.lastActiveAt) > s.idleTimeout {
			delete(s.sessions, id)
			removed++
		}
		s.mu.Unlock()
		sess.turnMu.Unlock()
	}
	return removed
}

// getOrCreate returns the live session for the ID, creating it when unseen,
// and stamps the activity time.
func (s *Store) getOrCreate(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked(sessionID)
}

// locked is getOrCreate for callers already holding the store write lock.
func (s *Store) locked(sessionID string) *session {
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &session{context: make(map[string]string)}
		s.sessions[sessionID] = sess
	}
	sess.lastActiveAt = s.now()
	return sess
}
