package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultSweepInterval = 10 * time.Minute
	DefaultSessionTTL    = 2 * time.Hour
)

// SessionSweeper periodically evicts idle game sessions. Evicted games are
// rebuilt from storage on their next request.
type SessionSweeper struct {
	registry *SessionRegistry
	logger   *zap.Logger

	ttl      time.Duration
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSessionSweeper(registry *SessionRegistry, logger *zap.Logger) *SessionSweeper {
	return &SessionSweeper{
		registry: registry,
		logger:   logger,
		ttl:      DefaultSessionTTL,
		interval: defaultSweepInterval,
		stopCh:   make(chan struct{}),
	}
}

func (s *SessionSweeper) SetInterval(d time.Duration) {
	s.interval = d
}

func (s *SessionSweeper) SetTTL(d time.Duration) {
	s.ttl = d
}

// Start runs the sweeper on a periodic schedule in a background goroutine.
func (s *SessionSweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("session sweeper started",
			zap.Duration("interval", s.interval),
			zap.Duration("ttl", s.ttl))

		for {
			select {
			case <-ticker.C:
				s.run()
			case <-s.stopCh:
				s.logger.Info("session sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper.
func (s *SessionSweeper) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *SessionSweeper) run() {
	if n := s.registry.EvictIdle(s.ttl); n > 0 {
		s.logger.Info("evicted idle sessions",
			zap.Int("count", n),
			zap.Int("remaining", s.registry.Len()))
	}
}
