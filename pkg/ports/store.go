package ports

import (
	"context"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// SessionStore defines the interface for persisting server-side exploration records.
type SessionStore interface {
	// Save persists the record for a given session ID.
	Save(ctx context.Context, sessionID string, exp *domain.Exploration) error

	// Load retrieves the record for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Exploration, error)

	// Delete removes the record for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
