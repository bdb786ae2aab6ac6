package ports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// RunProjectStoreContract runs a suite of tests to verify that a
// ProjectStore implementation adheres to the defined interface contract.
func RunProjectStoreContract(t *testing.T, store ProjectStore) {
	ctx := context.Background()
	name := "contract-test-project-" + time.Now().Format("20060102150405")

	sample := func(n string) *domain.Project {
		p := domain.NewProject(n)
		h := &domain.GenerationHistory{}
		img := h.AppendImage("a stone bridge", "blob:img-1", domain.ImageParams{Ratio: "1:1"})
		if _, err := h.AppendModel("blob:mdl-1", img.ID); err != nil {
			t.Fatalf("building sample history: %v", err)
		}
		p.Entities = []domain.EntityRecord{
			{UUID: uuid.New(), Kind: domain.KindGenerative, Name: "bridge", Transform: domain.IdentityTransform(), History: h},
			{UUID: uuid.New(), Kind: domain.KindLight, Name: "sun", Transform: domain.IdentityTransform()},
		}
		p.Environment = map[string]any{"sky": "dusk"}
		return p
	}

	t.Run("Save and Load", func(t *testing.T) {
		// 1. Build a document with a populated history
		project := sample(name)

		// 2. Save
		err := store.Save(ctx, project)
		require.NoError(t, err, "Save should not return error")

		// 3. Load and verify the document round-tripped
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		require.Len(t, loaded.Entities, 2)
		assert.Equal(t, project.Entities[0].UUID, loaded.Entities[0].UUID)
		assert.Equal(t, domain.KindGenerative, loaded.Entities[0].Kind)

		history := loaded.Entities[0].History
		require.NotNil(t, history)
		assert.Equal(t, 2, history.Len())
		assert.Equal(t, project.Entities[0].History.CurrentID, history.CurrentID)
		assert.Equal(t, "dusk", loaded.Environment["sky"])
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		project := sample(name)
		project.Entities = project.Entities[:1]
		require.NoError(t, store.Save(ctx, project))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Len(t, loaded.Entities, 1)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		// Mutating a loaded document must not leak into the store.
		require.NoError(t, store.Save(ctx, sample(name)))

		first, err := store.Load(ctx, name)
		require.NoError(t, err)
		first.Entities[0].Name = "mutated"
		first.Environment["sky"] = "noon"

		second, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "bridge", second.Entities[0].Name)
		assert.Equal(t, "dusk", second.Environment["sky"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		// Setup
		require.NoError(t, store.Save(ctx, sample(name)))

		// Delete
		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		// Verify gone
		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound, "Load after Delete should return ErrProjectNotFound")

		// Deleting again stays quiet
		assert.NoError(t, store.Delete(ctx, name))
	})

	t.Run("List", func(t *testing.T) {
		// Setup: two projects
		n1 := name + "-1"
		n2 := name + "-2"
		require.NoError(t, store.Save(ctx, sample(n1)))
		require.NoError(t, store.Save(ctx, sample(n2)))

		// Ensure cleanup
		defer func() {
			_ = store.Delete(ctx, n1)
			_ = store.Delete(ctx, n2)
		}()

		// List
		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, n1)
		assert.Contains(t, names, n2)
	})
}
