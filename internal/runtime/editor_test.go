package runtime

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenesmith/scenesmith/pkg/adapters/memory"
	"github.com/scenesmith/scenesmith/pkg/domain"
)

func newTestEditor(t *testing.T, opts ...Option) (*Editor, *memory.Scene, *memory.Generator) {
	t.Helper()
	scene := memory.NewScene()
	scene.DefaultSkeleton = []string{"head", "hand_l", "hand_r"}
	gen := memory.NewGenerator()
	ed := NewEditor(scene, gen, opts...)
	return ed, scene, gen
}

func spawn(t *testing.T, ed *Editor, kind domain.EntityKind, name string) uuid.UUID {
	t.Helper()
	view, err := ed.Spawn(context.Background(), domain.SpawnRequest{Kind: kind, Name: name})
	require.NoError(t, err)
	return view.UUID
}

func TestSpawn_CreatesVisibleEntity(t *testing.T) {
	ed, scene, _ := newTestEditor(t)

	view, err := ed.Spawn(context.Background(), domain.SpawnRequest{Kind: domain.KindShape, Name: "crate"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, view.UUID)
	assert.Equal(t, "crate", view.Name)
	assert.True(t, view.Visible)
	assert.Equal(t, domain.IdentityTransform(), view.Transform)
	assert.Equal(t, domain.PhaseIdle, view.Processing.Phase)

	assert.Len(t, ed.Entities(), 1)
	assert.Equal(t, 1, scene.Live())
	assert.True(t, ed.CanUndo())
	assert.False(t, ed.CanRedo())
}

func TestSpawn_UnknownKindRejected(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	_, err := ed.Spawn(context.Background(), domain.SpawnRequest{Kind: "vehicle"})
	require.Error(t, err)
	assert.Empty(t, ed.Entities())
	assert.False(t, ed.CanUndo())
}

func TestSpawn_MaterializeFailureRecordsNothing(t *testing.T) {
	ed, scene, _ := newTestEditor(t)
	scene.FailMaterialize = func(domain.EntityRecord) error { return assert.AnError }

	_, err := ed.Spawn(context.Background(), domain.SpawnRequest{Kind: domain.KindShape})
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, ed.Entities())
	assert.False(t, ed.CanUndo(), "failed spawn must not become an undo step")
}

func TestSpawn_CustomTransform(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	want := domain.Transform{
		Position: domain.Vec3{X: 1, Y: 2, Z: 3},
		Rotation: domain.Vec3{Y: 90},
		Scale:    domain.Vec3{X: 2, Y: 2, Z: 2},
	}
	view, err := ed.Spawn(context.Background(), domain.SpawnRequest{Kind: domain.KindShape, Transform: &want})
	require.NoError(t, err)
	assert.Equal(t, want, view.Transform)
}

func TestDelete_HidesAndDetaches(t *testing.T) {
	ed, scene, _ := newTestEditor(t)
	ctx := context.Background()

	parent := spawn(t, ed, domain.KindShape, "parent")
	child := spawn(t, ed, domain.KindShape, "child")
	require.NoError(t, ed.Attach(child, parent))

	require.NoError(t, ed.Delete(ctx, child))

	_, err := ed.Entity(child)
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
	assert.Len(t, ed.Entities(), 1)
	assert.Equal(t, uuid.Nil, scene.ParentOf(child))

	visible, err := scene.Visible(child)
	require.NoError(t, err)
	assert.False(t, visible, "deleted entities are hidden, not destroyed")
	assert.False(t, scene.Disposed(child))
}

func TestDelete_UnknownEntity(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	err := ed.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}

func TestUndoRedo_CreateCycle(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindShape, "crate")

	name, err := ed.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "create entity", name)
	assert.Empty(t, ed.Entities())

	name, err = ed.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "create entity", name)
	require.Len(t, ed.Entities(), 1)

	view, err := ed.Entity(id)
	require.NoError(t, err)
	assert.True(t, view.Visible)
}

func TestUndo_DeleteRestoresAttachment(t *testing.T) {
	ed, scene, _ := newTestEditor(t)
	ctx := context.Background()

	char := spawn(t, ed, domain.KindCharacter, "rig")
	prop := spawn(t, ed, domain.KindShape, "sword")
	require.NoError(t, ed.AttachToBone(prop, char, "hand_r"))

	require.NoError(t, ed.Delete(ctx, prop))
	require.Nil(t, scene.BoneOf(prop))

	_, err := ed.Undo(ctx)
	require.NoError(t, err)

	view, err := ed.Entity(prop)
	require.NoError(t, err)
	require.NotNil(t, view.Bone)
	assert.Equal(t, char, view.Bone.CharacterID)
	assert.Equal(t, "hand_r", view.Bone.Bone)

	attachment := scene.BoneOf(prop)
	require.NotNil(t, attachment)
	assert.Equal(t, "hand_r", attachment.Bone)
}

func TestRedo_CreateRestoresAttachment(t *testing.T) {
	ed, scene, _ := newTestEditor(t)
	ctx := context.Background()

	char := spawn(t, ed, domain.KindCharacter, "rig")
	prop := spawn(t, ed, domain.KindShape, "lantern")
	require.NoError(t, ed.AttachToBone(prop, char, "hand_l"))

	// Undoing the create detaches and hides; redo must bring back the
	// attachment the entity had at that moment.
	_, err := ed.Undo(ctx)
	require.NoError(t, err)
	_, err = ed.Redo(ctx)
	require.NoError(t, err)

	attachment := scene.BoneOf(prop)
	require.NotNil(t, attachment)
	assert.Equal(t, char, attachment.CharacterID)
	assert.Equal(t, "hand_l", attachment.Bone)
}

func TestAttach_Validation(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	a := spawn(t, ed, domain.KindShape, "a")
	b := spawn(t, ed, domain.KindShape, "b")

	t.Run("SelfAttach", func(t *testing.T) {
		assert.Error(t, ed.Attach(a, a))
	})

	t.Run("UnknownParent", func(t *testing.T) {
		assert.ErrorIs(t, ed.Attach(a, uuid.New()), domain.ErrEntityNotFound)
	})

	t.Run("BoneTargetNotCharacter", func(t *testing.T) {
		err := ed.AttachToBone(a, b, "head")
		assert.ErrorIs(t, err, domain.ErrBoneTargetNotCharacter)
	})

	t.Run("UnknownBoneName", func(t *testing.T) {
		char := spawn(t, ed, domain.KindCharacter, "rig")
		assert.Error(t, ed.AttachToBone(a, char, "tail"))
	})
}

func TestDetach(t *testing.T) {
	ed, scene, _ := newTestEditor(t)

	parent := spawn(t, ed, domain.KindShape, "parent")
	child := spawn(t, ed, domain.KindShape, "child")
	require.NoError(t, ed.Attach(child, parent))
	require.NoError(t, ed.Detach(child))

	assert.Equal(t, uuid.Nil, scene.ParentOf(child))
	view, err := ed.Entity(child)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, view.Parent)
}

func TestPoseBone(t *testing.T) {
	ed, scene, _ := newTestEditor(t)

	char := spawn(t, ed, domain.KindCharacter, "rig")
	rot := domain.Vec3{X: 45}
	require.NoError(t, ed.PoseBone(char, "head", rot))

	got, ok := scene.Rotation(char, "head")
	require.True(t, ok)
	assert.Equal(t, rot, got)

	// Poses are direct manipulation, never undo steps.
	assert.Equal(t, 1, ed.UndoDepth())

	shape := spawn(t, ed, domain.KindShape, "crate")
	err := ed.PoseBone(shape, "head", rot)
	assert.ErrorIs(t, err, domain.ErrBoneTargetNotCharacter)
}

func TestDrag_CollapsesToSingleUndoStep(t *testing.T) {
	ed, scene, _ := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindShape, "crate")
	initial, err := scene.Transform(id)
	require.NoError(t, err)

	require.NoError(t, ed.BeginDrag(id))
	require.NoError(t, ed.Drag(domain.Transform{Position: domain.Vec3{X: 1}, Scale: initial.Scale}))
	require.NoError(t, ed.Drag(domain.Transform{Position: domain.Vec3{X: 2}, Scale: initial.Scale}))
	final := domain.Transform{Position: domain.Vec3{X: 3}, Scale: initial.Scale}
	require.NoError(t, ed.Drag(final))
	require.NoError(t, ed.EndDrag(ctx))

	// create + one transform, regardless of intermediate updates.
	assert.Equal(t, 2, ed.UndoDepth())

	_, err = ed.Undo(ctx)
	require.NoError(t, err)
	got, err := scene.Transform(id)
	require.NoError(t, err)
	assert.Equal(t, initial, got, "undo restores the state at drag begin")

	_, err = ed.Redo(ctx)
	require.NoError(t, err)
	got, err = scene.Transform(id)
	require.NoError(t, err)
	assert.Equal(t, final, got, "redo restores the state at drag end")
}

func TestDrag_NoMovementDiscarded(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindShape, "crate")
	require.NoError(t, ed.BeginDrag(id))
	require.NoError(t, ed.EndDrag(ctx))

	assert.Equal(t, 1, ed.UndoDepth(), "a drag that moved nothing is not recorded")
}

func TestCancelDrag_RevertsWithoutCommand(t *testing.T) {
	ed, scene, _ := newTestEditor(t)

	id := spawn(t, ed, domain.KindShape, "crate")
	initial, err := scene.Transform(id)
	require.NoError(t, err)

	require.NoError(t, ed.BeginDrag(id))
	require.NoError(t, ed.Drag(domain.Transform{Position: domain.Vec3{X: 9}}))
	require.NoError(t, ed.CancelDrag())

	got, err := scene.Transform(id)
	require.NoError(t, err)
	assert.Equal(t, initial, got)
	assert.Equal(t, 1, ed.UndoDepth())
}

func TestDrag_WithoutBeginFails(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	assert.Error(t, ed.Drag(domain.Transform{}))
	assert.NoError(t, ed.EndDrag(context.Background()), "ending a non-existent drag is a no-op")
	assert.NoError(t, ed.CancelDrag())
}

func TestSetTransform_DiscreteCommand(t *testing.T) {
	ed, scene, _ := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindShape, "crate")
	initial, err := scene.Transform(id)
	require.NoError(t, err)

	moved := domain.Transform{Position: domain.Vec3{Z: 5}, Scale: initial.Scale}
	require.NoError(t, ed.SetTransform(ctx, id, moved))
	assert.Equal(t, 2, ed.UndoDepth())

	_, err = ed.Undo(ctx)
	require.NoError(t, err)
	got, err := scene.Transform(id)
	require.NoError(t, err)
	assert.Equal(t, initial, got)
}

func TestDeletedEntityNotOperable(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindShape, "crate")
	require.NoError(t, ed.Delete(ctx, id))

	assert.ErrorIs(t, ed.SetTransform(ctx, id, domain.Transform{}), domain.ErrEntityNotFound)
	assert.ErrorIs(t, ed.BeginDrag(id), domain.ErrEntityNotFound)
	assert.ErrorIs(t, ed.Delete(ctx, id), domain.ErrEntityNotFound)
}

func TestDelete_ClearsActiveDrag(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindShape, "crate")
	require.NoError(t, ed.BeginDrag(id))
	require.NoError(t, ed.Delete(ctx, id))

	assert.Error(t, ed.Drag(domain.Transform{}), "the manipulation handle must not outlive its entity")
}

func TestCommandLimit_EvictsOldestWithoutDisposal(t *testing.T) {
	ed, scene, _ := newTestEditor(t, WithCommandLimit(2))
	ctx := context.Background()

	first := spawn(t, ed, domain.KindShape, "first")
	spawn(t, ed, domain.KindShape, "second")
	spawn(t, ed, domain.KindShape, "third")

	assert.Equal(t, 2, ed.UndoDepth(), "oldest command evicted at the limit")

	_, err := ed.Undo(ctx)
	require.NoError(t, err)
	_, err = ed.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ed.CanUndo())

	// The evicted create is out of reach, but its entity lives on.
	view, err := ed.Entity(first)
	require.NoError(t, err)
	assert.True(t, view.Visible)
	assert.False(t, scene.Disposed(first))
}

func TestUndoRedo_EmptyStacksAreSilent(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx := context.Background()

	name, err := ed.Undo(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)

	name, err = ed.Redo(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestHooks_EntityAndCommandEvents(t *testing.T) {
	var created []uuid.UUID
	var commands []string
	var types []domain.EventType

	hooks := domain.LifecycleHooks{
		OnEntityCreated: func(_ context.Context, ev *domain.EntityEvent) {
			created = append(created, ev.EntityID)
		},
		OnCommand: func(_ context.Context, ev *domain.CommandEvent) {
			commands = append(commands, ev.Command)
			types = append(types, ev.Type)
		},
	}
	ed, _, _ := newTestEditor(t, WithLifecycleHooks(hooks))
	ctx := context.Background()

	id := spawn(t, ed, domain.KindShape, "crate")
	_, err := ed.Undo(ctx)
	require.NoError(t, err)
	_, err = ed.Redo(ctx)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{id}, created)
	assert.Equal(t, []string{"create entity", "create entity", "create entity"}, commands)
	assert.Equal(t, []domain.EventType{
		domain.EventCommandExecuted,
		domain.EventCommandUndone,
		domain.EventCommandRedone,
	}, types)
}

func TestEntities_InsertionOrder(t *testing.T) {
	ed, _, _ := newTestEditor(t)

	a := spawn(t, ed, domain.KindShape, "a")
	b := spawn(t, ed, domain.KindLight, "b")
	c := spawn(t, ed, domain.KindGenerative, "c")

	views := ed.Entities()
	require.Len(t, views, 3)
	assert.Equal(t, []uuid.UUID{a, b, c}, []uuid.UUID{views[0].UUID, views[1].UUID, views[2].UUID})
}
