package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// EntityKind discriminates the closed set of editable object kinds. The set
// is fixed and small; behavior differences are expressed through the
// capability methods below rather than open-ended subtyping.
type EntityKind string

const (
	KindGenerative EntityKind = "generative" // Carries a generation history
	KindShape      EntityKind = "shape"      // Primitive geometry
	KindLight      EntityKind = "light"      // Scene light
	KindCharacter  EntityKind = "character"  // Articulated, has a named-bone skeleton
)

// Valid reports whether k is a known entity kind.
func (k EntityKind) Valid() bool {
	switch k {
	case KindGenerative, KindShape, KindLight, KindCharacter:
		return true
	}
	return false
}

// SupportsGeneration reports whether entities of this kind own a generation
// history and may be sent to generation providers.
func (k EntityKind) SupportsGeneration() bool {
	return k == KindGenerative
}

// HasSkeleton reports whether entities of this kind expose named bones that
// children can attach to and poses can be applied to.
func (k EntityKind) HasSkeleton() bool {
	return k == KindCharacter
}

// BoneAttachment points at a named sub-part of a character's skeleton,
// used when a child is parented to a bone rather than to the character's
// root.
type BoneAttachment struct {
	CharacterID uuid.UUID `json:"characterUUID"`
	Bone        string    `json:"boneName"`
}

// EntityRecord is the serialized form of a scene object. UUIDs are
// generated at creation and never reused. At most one of Parent and Bone
// may be set.
type EntityRecord struct {
	UUID      uuid.UUID  `json:"uuid"`
	Kind      EntityKind `json:"entityType"`
	Name      string     `json:"name,omitempty"`
	Transform Transform  `json:"transform"`

	// Parent optionally names the direct parent entity.
	Parent uuid.UUID `json:"parentUUID,omitzero"`

	// Bone optionally names a character bone to attach under instead of
	// a plain parent.
	Bone *BoneAttachment `json:"parentBone,omitempty"`

	// History is present on generative entities.
	History *GenerationHistory `json:"history,omitempty"`

	// BoneRotations carries a character's pose, keyed by bone name and
	// re-applied by name matching on restore.
	BoneRotations map[string]Vec3 `json:"boneRotations,omitempty"`
}

// Validate checks the record's own invariants. Cross-entity references
// (parent existence, bone target kind) need the whole document and are
// checked at the project level.
func (r *EntityRecord) Validate() error {
	if r.UUID == uuid.Nil {
		return fmt.Errorf("entity %q: missing uuid", r.Name)
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("entity %s: unknown entity type %q", r.UUID, r.Kind)
	}
	if r.Parent != uuid.Nil && r.Bone != nil {
		return fmt.Errorf("entity %s: both parentUUID and parentBone set", r.UUID)
	}
	if r.Bone != nil && (r.Bone.CharacterID == uuid.Nil || r.Bone.Bone == "") {
		return fmt.Errorf("entity %s: incomplete parentBone", r.UUID)
	}
	if r.History != nil {
		if !r.Kind.SupportsGeneration() {
			return fmt.Errorf("entity %s: %s entities carry no generation history", r.UUID, r.Kind)
		}
		if err := r.History.Validate(); err != nil {
			return fmt.Errorf("entity %s: history: %w", r.UUID, err)
		}
	}
	if len(r.BoneRotations) > 0 && !r.Kind.HasSkeleton() {
		return fmt.Errorf("entity %s: bone rotations on %s entity", r.UUID, r.Kind)
	}
	return nil
}

// Clone returns a deep copy of the record.
func (r *EntityRecord) Clone() EntityRecord {
	out := *r
	out.History = r.History.Clone()
	if r.Bone != nil {
		b := *r.Bone
		out.Bone = &b
	}
	if r.BoneRotations != nil {
		out.BoneRotations = make(map[string]Vec3, len(r.BoneRotations))
		for k, v := range r.BoneRotations {
			out.BoneRotations[k] = v
		}
	}
	return out
}
