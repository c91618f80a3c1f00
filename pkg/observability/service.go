package observability

import (
	"context"
	"time"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
	"github.com/ewallt/ai-subject-explorer/pkg/ports"
)

// Operation labels.
const (
	OperationStartSession = "start_session"
	OperationSelectItem   = "select_item"
)

type instrumentedService struct {
	next    ports.TopicService
	metrics *Metrics
}

// InstrumentService wraps svc so every call is counted and timed.
func InstrumentService(svc ports.TopicService, m *Metrics) ports.TopicService {
	return &instrumentedService{next: svc, metrics: m}
}

func (s *instrumentedService) StartSession(ctx context.Context, topic string) (domain.StartResult, error) {
	start := time.Now()
	res, err := s.next.StartSession(ctx, topic)
	s.metrics.observeCall(OperationStartSession, time.Since(start).Seconds(), err)
	return res, err
}

func (s *instrumentedService) SelectItem(ctx context.Context, sessionID, item string) ([]string, error) {
	start := time.Now()
	menu, err := s.next.SelectItem(ctx, sessionID, item)
	s.metrics.observeCall(OperationSelectItem, time.Since(start).Seconds(), err)
	return menu, err
}
