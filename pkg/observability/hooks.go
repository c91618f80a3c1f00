package observability

import (
	"context"
	"log/slog"

	"github.com/ewallt/ai-subject-explorer/pkg/domain"
)

// LogHooks returns lifecycle hooks that write every event to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	request := func(level slog.Level) func(context.Context, *domain.RequestEvent) {
		return func(ctx context.Context, e *domain.RequestEvent) {
			attrs := []any{
				"kind", e.Kind,
				"generation", e.Generation,
			}
			if e.SessionID != "" {
				attrs = append(attrs, "session_id", e.SessionID)
			}
			if e.Topic != "" {
				attrs = append(attrs, "topic", e.Topic)
			}
			if e.Item != "" {
				attrs = append(attrs, "item", e.Item)
			}
			if e.Duration > 0 {
				attrs = append(attrs, "duration", e.Duration)
			}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.Log(ctx, level, string(e.Type), attrs...)
		}
	}

	return domain.LifecycleHooks{
		OnRequestIssued:     request(slog.LevelDebug),
		OnRequestApplied:    request(slog.LevelInfo),
		OnRequestFailed:     request(slog.LevelWarn),
		OnResponseDiscarded: request(slog.LevelDebug),
		OnReset: func(ctx context.Context, e *domain.ResetEvent) {
			logger.Log(ctx, slog.LevelInfo, string(e.Type), "generation", e.Generation, "session_id", e.SessionID)
		},
	}
}

// CombineHooks returns hooks that call every non-nil hook of sets, in order.
func CombineHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var (
		issued, applied, failed, discarded []func(context.Context, *domain.RequestEvent)
		resets                             []func(context.Context, *domain.ResetEvent)
	)
	for _, h := range sets {
		issued = appendHook(issued, h.OnRequestIssued)
		applied = appendHook(applied, h.OnRequestApplied)
		failed = appendHook(failed, h.OnRequestFailed)
		discarded = appendHook(discarded, h.OnResponseDiscarded)
		resets = appendHook(resets, h.OnReset)
	}

	return domain.LifecycleHooks{
		OnRequestIssued:     fanOut(issued),
		OnRequestApplied:    fanOut(applied),
		OnRequestFailed:     fanOut(failed),
		OnResponseDiscarded: fanOut(discarded),
		OnReset:             fanOut(resets),
	}
}

func appendHook[E any](hooks []func(context.Context, E), h func(context.Context, E)) []func(context.Context, E) {
	if h == nil {
		return hooks
	}
	return append(hooks, h)
}

func fanOut[E any](hooks []func(context.Context, E)) func(context.Context, E) {
	if len(hooks) == 0 {
		return nil
	}
	return func(ctx context.Context, e E) {
		for _, h := range hooks {
			h(ctx, e)
		}
	}
}
