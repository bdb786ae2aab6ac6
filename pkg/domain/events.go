package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEntityCreated      EventType = "entity_created"
	EventEntityDeleted      EventType = "entity_deleted"
	EventGenerationStarted  EventType = "generation_started"
	EventGenerationFinished EventType = "generation_finished"
	EventCommandExecuted    EventType = "command_executed"
	EventCommandUndone      EventType = "command_undone"
	EventCommandRedone      EventType = "command_redone"
	EventHistoryStepped     EventType = "history_stepped"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// EntityEvent represents an entity entering or leaving the scene.
type EntityEvent struct {
	EventBase
	EntityID uuid.UUID  `json:"entityId"`
	Kind     EntityKind `json:"entityType"`
	Name     string     `json:"name,omitempty"`
}

// GenerationEvent represents an asset generation starting or finishing.
type GenerationEvent struct {
	EventBase
	EntityID uuid.UUID `json:"entityId"`
	Asset    AssetKind `json:"assetType"`
	EntryID  string    `json:"entryId,omitempty"` // Set on success
	Err      string    `json:"error,omitempty"`   // Set on failure
	Duration time.Duration
}

// Failed reports whether the generation ended in error.
func (e *GenerationEvent) Failed() bool { return e.Err != "" }

// CommandEvent represents command stack activity: execute, undo or redo,
// discriminated by the event type.
type CommandEvent struct {
	EventBase
	Command   string `json:"command"`
	UndoDepth int    `json:"undoDepth"`
	RedoDepth int    `json:"redoDepth"`
}

// HistoryEvent represents the generation cursor of an entity moving.
type HistoryEvent struct {
	EventBase
	EntityID uuid.UUID `json:"entityId"`
	EntryID  string    `json:"entryId"`
	Index    int       `json:"index"`
	Total    int       `json:"total"`
}

// LifecycleHooks defines callbacks for editor observability. All hooks are
// optional and invoked synchronously.
type LifecycleHooks struct {
	OnEntityCreated      func(context.Context, *EntityEvent)
	OnEntityDeleted      func(context.Context, *EntityEvent)
	OnGenerationStarted  func(context.Context, *GenerationEvent)
	OnGenerationFinished func(context.Context, *GenerationEvent)
	OnCommand            func(context.Context, *CommandEvent)
	OnHistoryStep        func(context.Context, *HistoryEvent)
}
