package runtime

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// Export snapshots the live scene into a persistence document. Deleted
// entities (including undone creates) are left out; entity order follows
// scene insertion order.
func (e *Editor) Export(name string) *domain.Project {
	e.mu.Lock()
	defer e.mu.Unlock()

	project := domain.NewProject(name)
	project.Environment = e.environment
	project.RenderSettings = e.renderSettings
	project.Timeline = e.timeline

	for _, id := range e.order {
		st := e.entities[id]
		if st == nil || st.deleted {
			continue
		}

		record := domain.EntityRecord{
			UUID:    st.id,
			Kind:    st.kind,
			Name:    st.name,
			Parent:  st.parent,
			Bone:    cloneBone(st.bone),
			History: st.history.Clone(),
		}
		if t, err := e.scene.Transform(id); err == nil {
			record.Transform = t
		} else {
			e.logger.Warn("transform read failed, exporting identity", "entity", id, "error", err)
			record.Transform = domain.IdentityTransform()
		}
		if len(st.boneRotations) > 0 {
			record.BoneRotations = make(map[string]domain.Vec3, len(st.boneRotations))
			for bone, rot := range st.boneRotations {
				record.BoneRotations[bone] = rot
			}
		}
		project.Entities = append(project.Entities, record)
	}

	// Deep copy so later editor mutations never leak into the document.
	return project.Clone()
}

func warnf(r *domain.RestoreReport, format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Restore replaces the live scene with the given document using the
// two-pass algorithm: first every entity is materialized in isolation,
// then cross-references (parents, bone attachments) are wired among the
// entities that made it. References may point forward in the entity list;
// the second pass makes order irrelevant.
//
// Failures are isolated: one entity failing to materialize, one dangling
// parent or one unmatched bone never aborts the rest of the load. Every
// skip is logged and reported. The undo history does not survive a
// restore.
func (e *Editor) Restore(ctx context.Context, project *domain.Project) (*domain.RestoreReport, error) {
	if project == nil {
		return nil, fmt.Errorf("restore: nil project")
	}
	// Work on a private copy; the caller keeps ownership of its document.
	project = project.Clone()

	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. Tear down the current scene. A restored scene starts with empty
	// undo/redo stacks and no manipulation handle.
	for _, id := range e.order {
		if err := e.scene.Dispose(id); err != nil {
			e.logger.Warn("dispose failed during restore", "entity", id, "error", err)
		}
		e.tracker.Forget(id)
	}
	e.entities = make(map[uuid.UUID]*entityState, len(project.Entities))
	e.order = nil
	e.drag = nil
	e.stack.Clear()

	report := &domain.RestoreReport{}

	// 2. Materialize pass: every entity in isolation, no parent wiring.
	for i := range project.Entities {
		rec := project.Entities[i]
		if rec.UUID == uuid.Nil {
			warnf(report, "entity %d: missing uuid, skipped", i)
			e.logger.Warn("record without uuid skipped", "index", i)
			continue
		}
		if _, dup := e.entities[rec.UUID]; dup {
			warnf(report, "entity %s: duplicate uuid, skipped", rec.UUID)
			e.logger.Warn("duplicate record skipped", "entity", rec.UUID)
			continue
		}

		isolated := rec.Clone()
		isolated.Parent = uuid.Nil
		isolated.Bone = nil
		if err := e.scene.Materialize(ctx, isolated); err != nil {
			report.Skipped = append(report.Skipped, rec.UUID)
			warnf(report, "entity %s: materialize: %v", rec.UUID, err)
			e.logger.Warn("materialize failed, entity skipped", "entity", rec.UUID, "error", err)
			continue
		}

		st := &entityState{
			id:      rec.UUID,
			kind:    rec.Kind,
			name:    rec.Name,
			history: rec.History.Clone(),
		}
		if rec.Kind.SupportsGeneration() && st.history == nil {
			st.history = &domain.GenerationHistory{}
		}
		if rec.Kind.HasSkeleton() {
			st.boneRotations = make(map[string]domain.Vec3)
		}
		e.entities[st.id] = st
		e.order = append(e.order, st.id)
		report.Restored++

		// Re-materialize the current entry only; intermediate steps are
		// never replayed.
		if st.history != nil {
			if cur, ok := st.history.Current(); ok {
				if err := e.scene.ShowAsset(ctx, st.id, cur); err != nil {
					warnf(report, "entity %s: show asset %s: %v", st.id, cur.ID, err)
					e.logger.Warn("current asset not shown", "entity", st.id, "entry", cur.ID, "error", err)
				}
			}
		}
	}

	// 3. Wiring pass: attach children among the materialized entities.
	for i := range project.Entities {
		rec := &project.Entities[i]
		st, ok := e.entities[rec.UUID]
		if !ok {
			continue
		}

		switch {
		case rec.Bone != nil:
			target, ok := e.entities[rec.Bone.CharacterID]
			if !ok {
				warnf(report, "entity %s: bone parent %s not found", rec.UUID, rec.Bone.CharacterID)
				e.logger.Warn("bone parent missing", "entity", rec.UUID, "character", rec.Bone.CharacterID)
				continue
			}
			if !target.kind.HasSkeleton() {
				warnf(report, "entity %s: bone parent %s is not a character", rec.UUID, rec.Bone.CharacterID)
				e.logger.Warn("bone parent is not a character", "entity", rec.UUID, "character", rec.Bone.CharacterID)
				continue
			}
			if err := e.scene.AttachToBone(rec.UUID, rec.Bone.CharacterID, rec.Bone.Bone); err != nil {
				warnf(report, "entity %s: attach to bone %q: %v", rec.UUID, rec.Bone.Bone, err)
				e.logger.Warn("bone attach failed", "entity", rec.UUID, "bone", rec.Bone.Bone, "error", err)
				continue
			}
			st.bone = cloneBone(rec.Bone)

		case rec.Parent != uuid.Nil:
			if _, ok := e.entities[rec.Parent]; !ok {
				warnf(report, "entity %s: parent %s not found", rec.UUID, rec.Parent)
				e.logger.Warn("parent missing", "entity", rec.UUID, "parent", rec.Parent)
				continue
			}
			if err := e.scene.Attach(rec.UUID, rec.Parent); err != nil {
				warnf(report, "entity %s: attach to %s: %v", rec.UUID, rec.Parent, err)
				e.logger.Warn("attach failed", "entity", rec.UUID, "parent", rec.Parent, "error", err)
				continue
			}
			st.parent = rec.Parent
		}
	}

	// 4. Character poses: per-bone name matching, one bone's failure
	// never blocks the others.
	for i := range project.Entities {
		rec := &project.Entities[i]
		st, ok := e.entities[rec.UUID]
		if !ok || len(rec.BoneRotations) == 0 || !rec.Kind.HasSkeleton() {
			continue
		}
		for bone, rot := range rec.BoneRotations {
			if err := e.scene.ApplyBoneRotation(rec.UUID, bone, rot); err != nil {
				warnf(report, "entity %s: bone %q: %v", rec.UUID, bone, err)
				e.logger.Warn("bone rotation skipped", "entity", rec.UUID, "bone", bone, "error", err)
				continue
			}
			st.boneRotations[bone] = rot
		}
	}

	// 5. Global blobs travel as-is.
	e.environment = project.Environment
	e.renderSettings = project.RenderSettings
	e.timeline = project.Timeline

	e.logger.Info("project restored",
		"project", project.Name,
		"restored", report.Restored,
		"skipped", len(report.Skipped),
		"warnings", len(report.Warnings))
	return report, nil
}
