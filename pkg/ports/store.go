package ports

import (
	"context"

	"github.com/aretw0/eventdeck/pkg/domain"
)

// TallyStore defines the interface for keeping session tallies.
// Implementations are process-local; tallies are not synced across devices.
type TallyStore interface {
	// Save stores the tally for a given session ID.
	Save(ctx context.Context, sessionID string, tally *domain.Tally) error

	// Load retrieves the tally for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Tally, error)

	// Delete removes the tally for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all known sessions.
	List(ctx context.Context) ([]string, error)
}
