package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/eventdeck/internal/logging"
	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates tally access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.TallyStore
	clock ports.Clock

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active locks by session

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock sets the clock used to stamp tallies.
func WithClock(clock ports.Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// NewManager creates a new session manager over store.
func NewManager(store ports.TallyStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		clock:  systemClock{},
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu, and call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// activeLocks returns the number of live lock entries.
func (m *Manager) activeLocks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Load retrieves an existing tally.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Tally, error) {
	var tally *domain.Tally
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		tally, err = m.store.Load(ctx, sessionID)
		return err
	})
	return tally, err
}

// LoadOrStart loads a tally, creating an empty one when the session is new.
func (m *Manager) LoadOrStart(ctx context.Context, sessionID string) (*domain.Tally, error) {
	var tally *domain.Tally
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		tally, err = m.loadOrNew(ctx, sessionID)
		if err != nil || !tally.UpdatedAt.IsZero() {
			return err
		}
		tally.UpdatedAt = m.clock.Now()
		if err := m.store.Save(ctx, sessionID, tally); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	return tally, err
}

// RecordDecision appends cardID to the tally under the session lock and
// returns the updated tally. DecisionNone is a no-op read.
func (m *Manager) RecordDecision(ctx context.Context, sessionID, cardID string, d domain.Decision) (*domain.Tally, error) {
	var tally *domain.Tally
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		tally, err = m.loadOrNew(ctx, sessionID)
		if err != nil {
			return err
		}
		if d == domain.DecisionNone {
			return nil
		}
		tally.Record(cardID, d, m.clock.Now())
		if err := m.store.Save(ctx, sessionID, tally); err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}
		m.logger.Debug("decision recorded", "session_id", sessionID, "card_id", cardID, "decision", d)
		return nil
	})
	return tally, err
}

func (m *Manager) loadOrNew(ctx context.Context, sessionID string) (*domain.Tally, error) {
	tally, err := m.store.Load(ctx, sessionID)
	if err == nil {
		return tally, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}
	return domain.NewTally(sessionID), nil
}

// Delete removes the tally from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying tally store.
func (m *Manager) Store() ports.TallyStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
