package topics

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ewallt/ai-subject-explorer/internal/logging"
	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/ewallt/ai-subject-explorer/pkg/ports"
	"github.com/ewallt/ai-subject-explorer/pkg/session"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Service is the server-side topic service. It issues session IDs and records
// every selection so the exploration can be inspected or resumed later.
type Service struct {
	sessions  *session.Manager
	generator Generator
	clock     clockwork.Clock
	newID     func() string
	logger    *slog.Logger
}

var _ ports.TopicService = (*Service)(nil)

// Option configures the Service.
type Option func(*Service)

// WithGenerator replaces the default catalog.
func WithGenerator(g Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithClock sets the clock used for record timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithIDGenerator overrides session ID generation (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a topic service persisting through mgr.
func NewService(mgr *session.Manager, opts ...Option) *Service {
	s := &Service{
		sessions:  mgr,
		generator: DefaultCatalog(),
		clock:     clockwork.NewRealClock(),
		newID:     uuid.NewString,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession implements ports.TopicService.
func (s *Service) StartSession(ctx context.Context, topic string) (domain.StartResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.StartResult{}, domain.ErrEmptyTopic
	}

	menu := s.generator.RootMenu(topic)
	if len(menu) == 0 {
		return domain.StartResult{}, domain.ErrEmptyMenu
	}

	now := s.clock.Now().UTC()
	exp := &domain.Exploration{
		SessionID: s.newID(),
		Topic:     topic,
		Path:      []string{},
		Menu:      menu,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, exp.SessionID, exp); err != nil {
		return domain.StartResult{}, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Session started", "session_id", exp.SessionID, "topic", topic, "menu_size", len(menu))
	return domain.StartResult{SessionID: exp.SessionID, Menu: slices.Clone(menu)}, nil
}

// SelectItem implements ports.TopicService.
// The item is not checked against the current menu: callers may send any label.
func (s *Service) SelectItem(ctx context.Context, sessionID string, item string) ([]string, error) {
	if sessionID == "" {
		return nil, domain.ErrMissingSessionID
	}
	if strings.TrimSpace(item) == "" {
		return nil, domain.ErrEmptyItem
	}

	exp, err := s.sessions.Update(ctx, sessionID, func(e *domain.Exploration) error {
		menu := s.generator.Submenu(e.Topic, e.Path, item)
		if len(menu) == 0 {
			return domain.ErrEmptyMenu
		}
		e.Path = append(e.Path, item)
		e.Menu = menu
		e.UpdatedAt = s.clock.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Selection recorded", "session_id", sessionID, "item", item, "depth", len(exp.Path))
	return slices.Clone(exp.Menu), nil
}

// Lookup returns the stored record of a session.
func (s *Service) Lookup(ctx context.Context, sessionID string) (*domain.Exploration, error) {
	return s.sessions.Load(ctx, sessionID)
}

// End forgets a session.
func (s *Service) End(ctx context.Context, sessionID string) error {
	if _, err := s.sessions.Load(ctx, sessionID); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Sessions lists the IDs of stored sessions.
func (s *Service) Sessions(ctx context.Context) ([]string, error) {
	return s.sessions.List(ctx)
}
