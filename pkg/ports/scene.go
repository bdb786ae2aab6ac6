package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// SceneAdapter defines how the editor core drives the rendering engine.
// The core owns entity records, histories and commands; the adapter owns
// meshes, materials and skeletons. Every operation is keyed by entity UUID.
//
// Implementations must tolerate calls for entities that have been hidden or
// detached in the meantime: an in-flight generation may land after the user
// deleted the entity, and ShowAsset for it must not fail the caller.
type SceneAdapter interface {
	// Materialize constructs the live representation of a record, without
	// any parent wiring. Restoring attachments is a separate step.
	Materialize(ctx context.Context, record domain.EntityRecord) error

	// Attach parents child under parent.
	Attach(child, parent uuid.UUID) error

	// AttachToBone parents child under the named bone of a character's
	// skeleton instead of the character root.
	AttachToBone(child, character uuid.UUID, bone string) error

	// Detach removes the entity from its parent, leaving it alive.
	Detach(id uuid.UUID) error

	// SetTransform applies a transform to the live entity.
	SetTransform(id uuid.UUID, t domain.Transform) error

	// Transform reads the live entity's current transform.
	Transform(id uuid.UUID) (domain.Transform, error)

	// SetVisible shows or hides the entity without destroying resources.
	SetVisible(id uuid.UUID, visible bool) error

	// Visible reports whether the entity is currently shown.
	Visible(id uuid.UUID) (bool, error)

	// ShowAsset materializes a generation entry as the entity's displayed
	// asset (swap texture, load model). Called whenever the entity's
	// generation cursor moves.
	ShowAsset(ctx context.Context, id uuid.UUID, entry domain.GenerationEntry) error

	// ApplyBoneRotation poses one named bone of a character. Unknown bone
	// names return an error; callers decide whether that is fatal.
	ApplyBoneRotation(character uuid.UUID, bone string, rotation domain.Vec3) error

	// Dispose releases the entity's underlying resources for good.
	Dispose(id uuid.UUID) error
}
