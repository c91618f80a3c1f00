// Package mock provides an in-process ports.TopicService for local use and tests.
//
// It answers after a fixed delay with menus from a topics.Generator, issues IDs of the
// form "mock-session-<unix-millis>-<seq>" and can be told to fail either operation.
package mock

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/ewallt/ai-subject-explorer/pkg/ports"
	"github.com/ewallt/ai-subject-explorer/pkg/topics"
	"github.com/jonboulle/clockwork"
)

// DefaultDelay simulates network latency.
const DefaultDelay = 500 * time.Millisecond

// ErrInjected is the failure returned when failure injection is enabled.
var ErrInjected = errors.New("mock: injected failure")

// Service is a fake topic service.
type Service struct {
	generator topics.Generator
	clock     clockwork.Clock
	delay     time.Duration

	mu          sync.Mutex
	seq         int
	sessions    map[string]*domain.Exploration
	startErr    error
	selectErr   error
	startCalls  int
	selectCalls int
}

var _ ports.TopicService = (*Service)(nil)

// Option configures the Service.
type Option func(*Service)

// WithDelay sets the simulated latency. Zero answers immediately.
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithClock sets the clock that drives the delay and the ID timestamp.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithGenerator replaces the default catalog.
func WithGenerator(g topics.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithStartError makes every StartSession fail with err.
func WithStartError(err error) Option {
	return func(s *Service) { s.startErr = err }
}

// WithSelectError makes every SelectItem fail with err.
func WithSelectError(err error) Option {
	return func(s *Service) { s.selectErr = err }
}

// New creates a mock topic service.
func New(opts ...Option) *Service {
	s := &Service{
		generator: topics.DefaultCatalog(),
		clock:     clockwork.NewRealClock(),
		delay:     DefaultDelay,
		sessions:  make(map[string]*domain.Exploration),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailStart toggles failure injection for StartSession at runtime.
func (s *Service) FailStart(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startErr = err
}

// FailSelect toggles failure injection for SelectItem at runtime.
func (s *Service) FailSelect(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectErr = err
}

// Calls returns how many StartSession and SelectItem calls were received.
func (s *Service) Calls() (starts, selects int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startCalls, s.selectCalls
}

// StartSession implements ports.TopicService.
func (s *Service) StartSession(ctx context.Context, topic string) (domain.StartResult, error) {
	s.mu.Lock()
	s.startCalls++
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return domain.StartResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startErr != nil {
		return domain.StartResult{}, s.startErr
	}

	s.seq++
	now := s.clock.Now()
	id := fmt.Sprintf("mock-session-%d-%d", now.UnixMilli(), s.seq)
	menu := s.generator.RootMenu(topic)
	s.sessions[id] = &domain.Exploration{
		SessionID: id,
		Topic:     topic,
		Menu:      menu,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return domain.StartResult{SessionID: id, Menu: slices.Clone(menu)}, nil
}

// SelectItem implements ports.TopicService.
func (s *Service) SelectItem(ctx context.Context, sessionID string, item string) ([]string, error) {
	s.mu.Lock()
	s.selectCalls++
	s.mu.Unlock()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectErr != nil {
		return nil, s.selectErr
	}

	exp, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	menu := s.generator.Submenu(exp.Topic, exp.Path, item)
	exp.Path = append(exp.Path, item)
	exp.Menu = menu
	exp.UpdatedAt = s.clock.Now()
	return slices.Clone(menu), nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-s.clock.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
