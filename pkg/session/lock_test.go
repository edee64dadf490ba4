package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/eventdeck/pkg/domain"
)

type nopStore struct{}

func (nopStore) Save(ctx context.Context, sessionID string, tally *domain.Tally) error {
	return nil
}

func (nopStore) Load(ctx context.Context, sessionID string) (*domain.Tally, error) {
	return nil, domain.ErrSessionNotFound
}

func (nopStore) Delete(ctx context.Context, sessionID string) error { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)         { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(nopStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.RecordDecision(ctx, sid, "card", domain.DecisionSave)
		_ = mgr.Delete(ctx, sid)
	}

	if n := mgr.activeLocks(); n != 0 {
		t.Errorf("lock leak: %d entries remain after all sessions were released", n)
	}
}
