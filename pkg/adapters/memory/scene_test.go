package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenesmith/scenesmith/pkg/adapters/memory"
	"github.com/scenesmith/scenesmith/pkg/domain"
)

func materialize(t *testing.T, scene *memory.Scene, kind domain.EntityKind) uuid.UUID {
	t.Helper()
	id := uuid.New()
	record := domain.EntityRecord{
		UUID:      id,
		Kind:      kind,
		Name:      "test-" + string(kind),
		Transform: domain.IdentityTransform(),
	}
	require.NoError(t, scene.Materialize(context.Background(), record))
	return id
}

func TestScene_MaterializeDefaults(t *testing.T) {
	scene := memory.NewScene()
	id := materialize(t, scene, domain.KindShape)

	visible, err := scene.Visible(id)
	require.NoError(t, err)
	assert.True(t, visible, "fresh entities start visible")

	tr, err := scene.Transform(id)
	require.NoError(t, err)
	assert.Equal(t, domain.IdentityTransform(), tr)

	assert.Equal(t, 1, scene.Live())
}

func TestScene_BoneAttachmentRequiresKnownBone(t *testing.T) {
	scene := memory.NewScene()
	scene.DefaultSkeleton = []string{"hand_l", "hand_r"}

	char := materialize(t, scene, domain.KindCharacter)
	prop := materialize(t, scene, domain.KindShape)

	require.NoError(t, scene.AttachToBone(prop, char, "hand_r"))
	attachment := scene.BoneOf(prop)
	require.NotNil(t, attachment)
	assert.Equal(t, "hand_r", attachment.Bone)

	err := scene.AttachToBone(prop, char, "tail")
	assert.Error(t, err, "unknown bone names are rejected")
}

func TestScene_PlainAttachClearsBone(t *testing.T) {
	scene := memory.NewScene()
	scene.DefaultSkeleton = []string{"head"}

	char := materialize(t, scene, domain.KindCharacter)
	prop := materialize(t, scene, domain.KindShape)
	parent := materialize(t, scene, domain.KindShape)

	require.NoError(t, scene.AttachToBone(prop, char, "head"))
	require.NoError(t, scene.Attach(prop, parent))

	assert.Nil(t, scene.BoneOf(prop))
	assert.Equal(t, parent, scene.ParentOf(prop))
}

func TestScene_ShowAssetOnHiddenEntity(t *testing.T) {
	scene := memory.NewScene()
	id := materialize(t, scene, domain.KindGenerative)
	require.NoError(t, scene.SetVisible(id, false))

	entry := domain.GenerationEntry{ID: "e1", Prompt: "a lantern", FileURL: "mem://lantern.png"}
	require.NoError(t, scene.ShowAsset(context.Background(), id, entry))

	shown, ok := scene.Shown(id)
	require.True(t, ok)
	assert.Equal(t, "mem://lantern.png", shown.FileURL)
}

func TestScene_DisposeReleasesEntity(t *testing.T) {
	scene := memory.NewScene()
	id := materialize(t, scene, domain.KindShape)

	require.NoError(t, scene.Dispose(id))

	assert.True(t, scene.Disposed(id))
	assert.Equal(t, 0, scene.Live())

	_, err := scene.Transform(id)
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}

func TestScene_MaterializeFailureInjection(t *testing.T) {
	scene := memory.NewScene()
	scene.FailMaterialize = func(record domain.EntityRecord) error {
		if record.Name == "broken" {
			return assert.AnError
		}
		return nil
	}

	ok := domain.EntityRecord{UUID: uuid.New(), Kind: domain.KindShape, Name: "fine", Transform: domain.IdentityTransform()}
	broken := domain.EntityRecord{UUID: uuid.New(), Kind: domain.KindShape, Name: "broken", Transform: domain.IdentityTransform()}

	require.NoError(t, scene.Materialize(context.Background(), ok))
	require.ErrorIs(t, scene.Materialize(context.Background(), broken), assert.AnError)
	assert.Equal(t, 1, scene.Live())
}
