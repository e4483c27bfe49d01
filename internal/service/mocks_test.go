package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/deduce/internal/domain"
	"github.com/Harshitk-cp/deduce/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockGameStore implements domain.GameStore in memory.
type mockGameStore struct {
	mu    sync.Mutex
	games map[string]domain.Game
}

func newMockGameStore() *mockGameStore {
	return &mockGameStore{games: make(map[string]domain.Game)}
}

func (m *mockGameStore) Upsert(ctx context.Context, g *domain.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if existing, ok := m.games[g.ID]; ok {
		g.CreatedAt = existing.CreatedAt
		g.ResetAt = existing.ResetAt
	} else {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	cp := *g
	cp.AlivePlayers = append([]string(nil), g.AlivePlayers...)
	m.games[g.ID] = cp
	return nil
}

func (m *mockGameStore) GetByID(ctx context.Context, id string) (*domain.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	g.AlivePlayers = append([]string(nil), g.AlivePlayers...)
	return &g, nil
}

func (m *mockGameStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *mockGameStore) MarkReset(ctx context.Context, id string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return time.Time{}, store.ErrNotFound
	}
	at := time.Now()
	g.ResetAt = &at
	m.games[id] = g
	return at, nil
}

// mockEventStore keeps events in insertion order.
type mockEventStore struct {
	mu     sync.Mutex
	events []domain.GameEvent
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{}
}

func (m *mockEventStore) Create(ctx context.Context, e *domain.GameEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.New()
	e.Timestamp = time.Now()
	m.events = append(m.events, *e)
	return nil
}

func (m *mockEventStore) List(ctx context.Context, f domain.HistoryFilter) ([]domain.GameEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.GameEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if e.GameID != f.GameID {
			continue
		}
		if f.RoundNum > 0 && e.RoundNum != f.RoundNum {
			continue
		}
		if f.Speaker != "" && e.Speaker != f.Speaker {
			continue
		}
		if f.ActionType != "" && e.ActionType != f.ActionType {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (m *mockEventStore) ListSince(ctx context.Context, gameID string, since time.Time) ([]domain.GameEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.GameEvent
	for _, e := range m.events {
		if e.GameID == gameID && e.Timestamp.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

// mockProfileStore mirrors the column default of 0.4 for new profiles.
type mockProfileStore struct {
	mu       sync.Mutex
	profiles map[string]map[string]*domain.PlayerProfile
	order    map[string][]string
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{
		profiles: make(map[string]map[string]*domain.PlayerProfile),
		order:    make(map[string][]string),
	}
}

func (m *mockProfileStore) profile(gameID, playerID string) *domain.PlayerProfile {
	byGame, ok := m.profiles[gameID]
	if !ok {
		byGame = make(map[string]*domain.PlayerProfile)
		m.profiles[gameID] = byGame
	}
	p, ok := byGame[playerID]
	if !ok {
		p = &domain.PlayerProfile{GameID: gameID, PlayerID: playerID, SuspicionScore: DefaultPrior}
		byGame[playerID] = p
		m.order[gameID] = append(m.order[gameID], playerID)
	}
	p.UpdatedAt = time.Now()
	return p
}

func (m *mockProfileStore) UpsertSuspicion(ctx context.Context, gameID, playerID string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile(gameID, playerID).SuspicionScore = score
	return nil
}

func (m *mockProfileStore) Annotate(ctx context.Context, gameID, playerID, roleAssumed, personality string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.profile(gameID, playerID)
	p.RoleAssumed = roleAssumed
	p.Personality = personality
	return nil
}

func (m *mockProfileStore) Get(ctx context.Context, gameID, playerID string) (*domain.PlayerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[gameID][playerID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProfileStore) ListByGame(ctx context.Context, gameID string) ([]domain.PlayerProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PlayerProfile
	for _, id := range m.order[gameID] {
		out = append(out, *m.profiles[gameID][id])
	}
	return out, nil
}

func (m *mockProfileStore) DeleteByGame(ctx context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, gameID)
	delete(m.order, gameID)
	return nil
}

// MockEventStore is a testify mock used to inject storage failures.
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Create(ctx context.Context, e *domain.GameEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventStore) List(ctx context.Context, f domain.HistoryFilter) ([]domain.GameEvent, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GameEvent), args.Error(1)
}

func (m *MockEventStore) ListSince(ctx context.Context, gameID string, since time.Time) ([]domain.GameEvent, error) {
	args := m.Called(ctx, gameID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GameEvent), args.Error(1)
}
