package domain

import "github.com/google/uuid"

// SpawnRequest describes a new entity to create. A nil Transform spawns at
// the origin with unit scale.
type SpawnRequest struct {
	Kind      EntityKind `json:"entityType"`
	Name      string     `json:"name,omitempty"`
	Transform *Transform `json:"transform,omitempty"`
}

// EntityView is a read-only snapshot of one live entity, combining editor
// bookkeeping with the scene's live state.
type EntityView struct {
	UUID       uuid.UUID       `json:"uuid"`
	Kind       EntityKind      `json:"entityType"`
	Name       string          `json:"name,omitempty"`
	Transform  Transform       `json:"transform"`
	Visible    bool            `json:"visible"`
	Parent     uuid.UUID       `json:"parentUUID,omitzero"`
	Bone       *BoneAttachment `json:"parentBone,omitempty"`
	Processing ProcessingState `json:"processing"`

	// History summary for "n / total" displays. HistoryIndex is -1 when
	// no entry is current; CurrentEntry is nil in that case.
	HistoryLen   int              `json:"historyLen"`
	HistoryIndex int              `json:"historyIndex"`
	CurrentEntry *GenerationEntry `json:"currentEntry,omitempty"`
}

// RestoreReport summarizes a project load: how many entities came back,
// which were skipped and every warning the load produced.
type RestoreReport struct {
	Restored int         `json:"restored"`
	Skipped  []uuid.UUID `json:"skipped,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}
