package runtime

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// Hook emission helpers. Hooks run synchronously but always outside the
// editor lock, so a hook may call back into the editor.

func eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now().UTC(), Type: t}
}

func (e *Editor) emitEntity(ctx context.Context, t domain.EventType, st *entityState) {
	var fn func(context.Context, *domain.EntityEvent)
	switch t {
	case domain.EventEntityCreated:
		fn = e.hooks.OnEntityCreated
	case domain.EventEntityDeleted:
		fn = e.hooks.OnEntityDeleted
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.EntityEvent{
		EventBase: eventBase(t),
		EntityID:  st.id,
		Kind:      st.kind,
		Name:      st.name,
	})
}

func (e *Editor) emitCommand(ctx context.Context, t domain.EventType, name string) {
	if e.hooks.OnCommand == nil {
		return
	}
	e.mu.Lock()
	undoDepth := e.stack.UndoDepth()
	redoDepth := e.stack.RedoDepth()
	e.mu.Unlock()

	e.hooks.OnCommand(ctx, &domain.CommandEvent{
		EventBase: eventBase(t),
		Command:   name,
		UndoDepth: undoDepth,
		RedoDepth: redoDepth,
	})
}

func (e *Editor) emitGeneration(ctx context.Context, t domain.EventType, id uuid.UUID, asset domain.AssetKind, entryID, errMsg string, duration time.Duration) {
	var fn func(context.Context, *domain.GenerationEvent)
	switch t {
	case domain.EventGenerationStarted:
		fn = e.hooks.OnGenerationStarted
	case domain.EventGenerationFinished:
		fn = e.hooks.OnGenerationFinished
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.GenerationEvent{
		EventBase: eventBase(t),
		EntityID:  id,
		Asset:     asset,
		EntryID:   entryID,
		Err:       errMsg,
		Duration:  duration,
	})
}

func (e *Editor) emitHistoryStep(ctx context.Context, id uuid.UUID, entryID string, index, total int) {
	if e.hooks.OnHistoryStep == nil {
		return
	}
	e.hooks.OnHistoryStep(ctx, &domain.HistoryEvent{
		EventBase: eventBase(domain.EventHistoryStepped),
		EntityID:  id,
		EntryID:   entryID,
		Index:     index,
		Total:     total,
	})
}
