package runtime

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// The concrete commands run inside Stack.Do/Undo/Redo while the editor
// lock is held, so they touch editor internals directly and never call
// back into the stack or the editor's public surface.

// createCommand owns an entity's presence in the scene. Execute shows and
// re-attaches it, undo detaches and hides it without destroying resources,
// so redo is cheap and exact.
type createCommand struct {
	ed *Editor
	id uuid.UUID

	// Attachment as of the most recent undo, restored on redo.
	parent uuid.UUID
	bone   *domain.BoneAttachment
}

func (c *createCommand) Name() string { return "create entity" }

func (c *createCommand) Execute() error {
	st, ok := c.ed.entities[c.id]
	if !ok {
		return fmt.Errorf("create: entity %s: %w", c.id, domain.ErrEntityNotFound)
	}

	// 1. Restore the attachment the entity had when it was undone.
	if c.bone != nil {
		if err := c.ed.scene.AttachToBone(c.id, c.bone.CharacterID, c.bone.Bone); err != nil {
			return err
		}
		st.bone = cloneBone(c.bone)
		st.parent = uuid.Nil
	} else if c.parent != uuid.Nil {
		if err := c.ed.scene.Attach(c.id, c.parent); err != nil {
			return err
		}
		st.parent = c.parent
		st.bone = nil
	}

	// 2. Make it part of the scene again.
	if err := c.ed.scene.SetVisible(c.id, true); err != nil {
		return err
	}
	st.deleted = false
	return nil
}

func (c *createCommand) Undo() error {
	st, ok := c.ed.entities[c.id]
	if !ok {
		return fmt.Errorf("create: entity %s: %w", c.id, domain.ErrEntityNotFound)
	}

	// Snapshot the attachment so redo can restore it.
	c.parent = st.parent
	c.bone = cloneBone(st.bone)

	c.ed.clearDragLocked(c.id)
	if st.parent != uuid.Nil || st.bone != nil {
		if err := c.ed.scene.Detach(c.id); err != nil {
			return err
		}
	}
	st.parent = uuid.Nil
	st.bone = nil

	if err := c.ed.scene.SetVisible(c.id, false); err != nil {
		return err
	}
	st.deleted = true
	return nil
}

// deleteCommand hides and detaches a live entity. It records visibility
// and attachment at construction time, which is what undo restores.
type deleteCommand struct {
	ed         *Editor
	id         uuid.UUID
	wasVisible bool
	parent     uuid.UUID
	bone       *domain.BoneAttachment
}

func (c *deleteCommand) Name() string { return "delete entity" }

func (c *deleteCommand) Execute() error {
	st, ok := c.ed.entities[c.id]
	if !ok {
		return fmt.Errorf("delete: entity %s: %w", c.id, domain.ErrEntityNotFound)
	}

	// An active manipulation handle on the entity must let go first.
	c.ed.clearDragLocked(c.id)

	if st.parent != uuid.Nil || st.bone != nil {
		if err := c.ed.scene.Detach(c.id); err != nil {
			return err
		}
	}
	st.parent = uuid.Nil
	st.bone = nil

	if err := c.ed.scene.SetVisible(c.id, false); err != nil {
		return err
	}
	st.deleted = true
	return nil
}

func (c *deleteCommand) Undo() error {
	st, ok := c.ed.entities[c.id]
	if !ok {
		return fmt.Errorf("delete: entity %s: %w", c.id, domain.ErrEntityNotFound)
	}

	if c.bone != nil {
		if err := c.ed.scene.AttachToBone(c.id, c.bone.CharacterID, c.bone.Bone); err != nil {
			return err
		}
		st.bone = cloneBone(c.bone)
		st.parent = uuid.Nil
	} else if c.parent != uuid.Nil {
		if err := c.ed.scene.Attach(c.id, c.parent); err != nil {
			return err
		}
		st.parent = c.parent
		st.bone = nil
	}

	if err := c.ed.scene.SetVisible(c.id, c.wasVisible); err != nil {
		return err
	}
	st.deleted = false
	return nil
}

// transformCommand captures an interactive manipulation: initial state at
// drag begin, final state at drag end. Until the final state is captured
// the command is a safe no-op in both directions.
type transformCommand struct {
	ed       *Editor
	id       uuid.UUID
	initial  domain.Transform
	final    domain.Transform
	captured bool
}

func (c *transformCommand) Name() string { return "transform entity" }

func (c *transformCommand) Execute() error {
	if !c.captured {
		return nil
	}
	return c.ed.scene.SetTransform(c.id, c.final)
}

func (c *transformCommand) Undo() error {
	if !c.captured {
		return nil
	}
	return c.ed.scene.SetTransform(c.id, c.initial)
}

// clearDragLocked drops the active manipulation handle if it points at the
// given entity.
func (e *Editor) clearDragLocked(id uuid.UUID) {
	if e.drag != nil && e.drag.id == id {
		e.drag = nil
	}
}
