package observability

import (
	"context"
	"log/slog"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// Join fans each lifecycle event out to every given hook set, in order.
func Join(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEntityCreated: func(ctx context.Context, e *domain.EntityEvent) {
			for _, h := range hooks {
				if h.OnEntityCreated != nil {
					h.OnEntityCreated(ctx, e)
				}
			}
		},
		OnEntityDeleted: func(ctx context.Context, e *domain.EntityEvent) {
			for _, h := range hooks {
				if h.OnEntityDeleted != nil {
					h.OnEntityDeleted(ctx, e)
				}
			}
		},
		OnGenerationStarted: func(ctx context.Context, e *domain.GenerationEvent) {
			for _, h := range hooks {
				if h.OnGenerationStarted != nil {
					h.OnGenerationStarted(ctx, e)
				}
			}
		},
		OnGenerationFinished: func(ctx context.Context, e *domain.GenerationEvent) {
			for _, h := range hooks {
				if h.OnGenerationFinished != nil {
					h.OnGenerationFinished(ctx, e)
				}
			}
		},
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			for _, h := range hooks {
				if h.OnCommand != nil {
					h.OnCommand(ctx, e)
				}
			}
		},
		OnHistoryStep: func(ctx context.Context, e *domain.HistoryEvent) {
			for _, h := range hooks {
				if h.OnHistoryStep != nil {
					h.OnHistoryStep(ctx, e)
				}
			}
		},
	}
}

// DebugHooks logs every lifecycle event at Debug level. Used by the CLI
// in verbose mode.
func DebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEntityCreated: func(ctx context.Context, e *domain.EntityEvent) {
			logger.Debug("entity created", "entity", e.EntityID, "kind", e.Kind, "name", e.Name)
		},
		OnEntityDeleted: func(ctx context.Context, e *domain.EntityEvent) {
			logger.Debug("entity deleted", "entity", e.EntityID, "kind", e.Kind)
		},
		OnGenerationStarted: func(ctx context.Context, e *domain.GenerationEvent) {
			logger.Debug("generation started", "entity", e.EntityID, "asset", e.Asset)
		},
		OnGenerationFinished: func(ctx context.Context, e *domain.GenerationEvent) {
			if e.Failed() {
				logger.Debug("generation failed", "entity", e.EntityID, "asset", e.Asset, "err", e.Err)
			} else {
				logger.Debug("generation finished", "entity", e.EntityID, "asset", e.Asset, "entry", e.EntryID, "took", e.Duration)
			}
		},
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			logger.Debug("command", "name", e.Command, "op", commandOp(e.Type), "undo_depth", e.UndoDepth)
		},
		OnHistoryStep: func(ctx context.Context, e *domain.HistoryEvent) {
			logger.Debug("history step", "entity", e.EntityID, "entry", e.EntryID, "index", e.Index, "total", e.Total)
		},
	}
}
