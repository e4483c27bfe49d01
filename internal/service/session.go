package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Session holds the reasoning state of one game. All access to its
// tracker and graph goes through Do, which serialises callers.
type Session struct {
	GameID string

	mu       sync.Mutex
	beliefs  *BeliefTracker
	graph    *RelationshipGraph
	lastUsed time.Time
}

func NewSession(gameID string, logger *zap.Logger) *Session {
	l := logger.With(zap.String("game_id", gameID))
	return &Session{
		GameID:   gameID,
		beliefs:  NewBeliefTracker(l),
		graph:    NewRelationshipGraph(l),
		lastUsed: time.Now(),
	}
}

// Do runs fn while holding the session lock.
func (s *Session) Do(fn func(b *BeliefTracker, g *RelationshipGraph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return fn(s.beliefs, s.graph)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// SessionRegistry maps game ids to their sessions. Each game gets its own
// isolated tracker and graph.
type SessionRegistry struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewSessionRegistry(logger *zap.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

func (r *SessionRegistry) Get(gameID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[gameID]
	return s, ok
}

// Put installs s, discarding any existing session for the same game.
func (r *SessionRegistry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.GameID] = s
}

// PutIfAbsent installs s unless another session for the game got there
// first, and returns whichever session is now registered.
func (r *SessionRegistry) PutIfAbsent(s *Session) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sessions[s.GameID]; ok {
		return existing
	}
	r.sessions[s.GameID] = s
	return s
}

func (r *SessionRegistry) Delete(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, gameID)
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle drops sessions unused for longer than ttl and returns how many
// were removed.
func (r *SessionRegistry) EvictIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			evicted++
			r.logger.Debug("evicted session", zap.String("game_id", id))
		}
	}
	return evicted
}
