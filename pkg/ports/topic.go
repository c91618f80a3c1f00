package ports

import (
	"context"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// TopicService is the request/response contract between the navigation controller
// and whatever produces menus. Both calls may fail and must be safe to retry.
type TopicService interface {
	// StartSession opens an exploration of topic and returns its ID and root menu.
	StartSession(ctx context.Context, topic string) (domain.StartResult, error)

	// SelectItem drills into item within the given session and returns the submenu.
	SelectItem(ctx context.Context, sessionID, item string) ([]string, error)
}
