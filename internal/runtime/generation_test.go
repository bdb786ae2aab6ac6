package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenesmith/scenesmith/pkg/adapters/memory"
	"github.com/scenesmith/scenesmith/pkg/domain"
)

func TestGenerateImage_AppendsAndShows(t *testing.T) {
	ed, scene, gen := newTestEditor(t)
	ctx := context.Background()
	gen.QueueImage("mem://tree.png", nil)

	id := spawn(t, ed, domain.KindGenerative, "tree")

	entry, err := ed.GenerateImage(ctx, id, "a gnarled oak", domain.ImageParams{Ratio: "16:9"})
	require.NoError(t, err)

	assert.Equal(t, domain.AssetImage, entry.Kind)
	assert.Equal(t, "mem://tree.png", entry.FileURL)
	assert.Equal(t, "a gnarled oak", entry.Prompt)
	require.NotNil(t, entry.Image)
	assert.Equal(t, "16:9", entry.Image.Ratio)

	history, err := ed.History(id)
	require.NoError(t, err)
	assert.Equal(t, 1, history.Len())
	assert.Equal(t, entry.ID, history.CurrentID)

	shown, ok := scene.Shown(id)
	require.True(t, ok, "the new entry is materialized into the scene")
	assert.Equal(t, entry.ID, shown.ID)

	assert.Equal(t, domain.PhaseIdle, ed.ProcessingState(id).Phase)
}

func TestGenerateImage_UnsupportedKinds(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx := context.Background()

	t.Run("ShapeEntity", func(t *testing.T) {
		id := spawn(t, ed, domain.KindShape, "crate")
		_, err := ed.GenerateImage(ctx, id, "anything", domain.ImageParams{})
		assert.ErrorIs(t, err, domain.ErrGenerationUnsupported)
	})

	t.Run("NoClientConfigured", func(t *testing.T) {
		noGen := NewEditor(memory.NewScene(), nil)
		id := spawn(t, noGen, domain.KindGenerative, "tree")
		_, err := noGen.GenerateImage(ctx, id, "anything", domain.ImageParams{})
		assert.ErrorIs(t, err, domain.ErrGenerationUnsupported)
	})
}

func TestGenerateImage_FailureLeavesLogUntouched(t *testing.T) {
	ed, scene, gen := newTestEditor(t)
	ctx := context.Background()
	gen.QueueImage("", errors.New("provider quota exceeded"))

	id := spawn(t, ed, domain.KindGenerative, "tree")

	_, err := ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
	require.Error(t, err)

	history, err := ed.History(id)
	require.NoError(t, err)
	assert.Equal(t, 0, history.Len(), "failed generations append nothing")

	state := ed.ProcessingState(id)
	assert.Equal(t, domain.PhaseIdle, state.Phase, "failure returns the entity to idle")
	assert.Contains(t, state.Message, "failed")

	_, ok := scene.Shown(id)
	assert.False(t, ok)

	// The entity is immediately usable again.
	gen.QueueImage("mem://retry.png", nil)
	_, err = ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
	assert.NoError(t, err)
}

func TestGenerateModel_DerivesFromCurrent(t *testing.T) {
	ed, _, gen := newTestEditor(t)
	ctx := context.Background()
	gen.QueueImage("mem://tree.png", nil)
	gen.QueueModel("mem://tree.glb", nil)

	id := spawn(t, ed, domain.KindGenerative, "tree")
	image, err := ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
	require.NoError(t, err)

	model, err := ed.GenerateModel(ctx, id, "")
	require.NoError(t, err)

	assert.Equal(t, domain.AssetModel, model.Kind)
	assert.Equal(t, "mem://tree.glb", model.FileURL)
	assert.Equal(t, image.ID, model.DerivedFrom, "empty source means the current entry")
	assert.Empty(t, model.Prompt)
	assert.Nil(t, model.Image)

	history, err := ed.History(id)
	require.NoError(t, err)
	assert.Equal(t, 2, history.Len())
	assert.Equal(t, model.ID, history.CurrentID)
}

func TestGenerateModel_ExplicitSource(t *testing.T) {
	ed, _, gen := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindGenerative, "tree")
	first, err := ed.GenerateImage(ctx, id, "first", domain.ImageParams{})
	require.NoError(t, err)
	_, err = ed.GenerateImage(ctx, id, "second", domain.ImageParams{})
	require.NoError(t, err)

	model, err := ed.GenerateModel(ctx, id, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, model.DerivedFrom)
	assert.Equal(t, 3, gen.Calls())
}

func TestGenerateModel_UnknownSourceNeverCallsProvider(t *testing.T) {
	ed, _, gen := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindGenerative, "tree")
	_, err := ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
	require.NoError(t, err)

	_, err = ed.GenerateModel(ctx, id, "no-such-entry")
	require.ErrorIs(t, err, domain.ErrUnknownDerivation)

	history, herr := ed.History(id)
	require.NoError(t, herr)
	assert.Equal(t, 1, history.Len(), "rejected derivation leaves the log untouched")
	assert.Equal(t, 1, gen.Calls(), "the provider is never called for unknown sources")
	assert.Equal(t, domain.PhaseIdle, ed.ProcessingState(id).Phase)
}

func TestGenerateModel_OnEmptyHistory(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	id := spawn(t, ed, domain.KindGenerative, "tree")

	_, err := ed.GenerateModel(context.Background(), id, "")
	assert.ErrorIs(t, err, domain.ErrUnknownDerivation)
}

func TestGenerate_InFlightGuard(t *testing.T) {
	ed, _, gen := newTestEditor(t)
	ctx := context.Background()
	gen.Gate = make(chan struct{})

	id := spawn(t, ed, domain.KindGenerative, "tree")

	done := make(chan error, 1)
	go func() {
		_, err := ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
		done <- err
	}()

	require.Eventually(t, func() bool {
		return ed.ProcessingState(id).Phase.Busy()
	}, time.Second, 2*time.Millisecond)

	// A second generation on the same entity is rejected while busy,
	// including the image-to-model transition.
	_, err := ed.GenerateImage(ctx, id, "again", domain.ImageParams{})
	assert.ErrorIs(t, err, domain.ErrGenerationInFlight)
	_, err = ed.GenerateModel(ctx, id, "")
	assert.ErrorIs(t, err, domain.ErrGenerationInFlight)

	gen.Gate <- struct{}{}
	require.NoError(t, <-done)
	assert.Equal(t, domain.PhaseIdle, ed.ProcessingState(id).Phase)
}

func TestGenerate_OtherEntitiesStayOperable(t *testing.T) {
	ed, _, gen := newTestEditor(t)
	ctx := context.Background()
	gen.Gate = make(chan struct{})

	busy := spawn(t, ed, domain.KindGenerative, "busy")
	other := spawn(t, ed, domain.KindShape, "other")

	done := make(chan error, 1)
	go func() {
		_, err := ed.GenerateImage(ctx, busy, "a tree", domain.ImageParams{})
		done <- err
	}()
	require.Eventually(t, func() bool {
		return ed.ProcessingState(busy).Phase.Busy()
	}, time.Second, 2*time.Millisecond)

	// The provider call holds no editor lock, so unrelated entities
	// remain fully editable mid-generation.
	moved := domain.Transform{Position: domain.Vec3{X: 7}}
	require.NoError(t, ed.SetTransform(ctx, other, moved))

	view, err := ed.Entity(other)
	require.NoError(t, err)
	assert.Equal(t, moved, view.Transform)

	gen.Gate <- struct{}{}
	require.NoError(t, <-done)
}

func TestGenerate_DeleteMidFlightAppendsHidden(t *testing.T) {
	ed, scene, gen := newTestEditor(t)
	ctx := context.Background()
	gen.Gate = make(chan struct{})

	id := spawn(t, ed, domain.KindGenerative, "tree")

	type result struct {
		entry domain.GenerationEntry
		err   error
	}
	done := make(chan result, 1)
	go func() {
		entry, err := ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
		done <- result{entry, err}
	}()
	require.Eventually(t, func() bool {
		return ed.ProcessingState(id).Phase.Busy()
	}, time.Second, 2*time.Millisecond)

	require.NoError(t, ed.Delete(ctx, id))
	gen.Gate <- struct{}{}

	res := <-done
	require.NoError(t, res.err, "the result still lands in the log")

	_, ok := scene.Shown(id)
	assert.False(t, ok, "hidden entities do not get their asset displayed")

	// Undoing the delete brings the entity back with the entry recorded.
	_, err := ed.Undo(ctx)
	require.NoError(t, err)
	history, err := ed.History(id)
	require.NoError(t, err)
	assert.Equal(t, 1, history.Len())
	assert.Equal(t, res.entry.ID, history.CurrentID)
}

func TestStatusSubscription_ObservesWholeLifecycle(t *testing.T) {
	ed, _, gen := newTestEditor(t)
	ctx := context.Background()
	gen.ProgressMessages = []string{"queued", "rendering"}

	id := spawn(t, ed, domain.KindGenerative, "tree")

	var phases []domain.Phase
	var messages []string
	cancel := ed.SubscribeStatus(id, func(s domain.ProcessingState) {
		phases = append(phases, s.Phase)
		messages = append(messages, s.Message)
	})
	defer cancel()

	_, err := ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
	require.NoError(t, err)

	require.Equal(t, []domain.Phase{
		domain.PhaseGeneratingImage,
		domain.PhaseGeneratingImage,
		domain.PhaseGeneratingImage,
		domain.PhaseIdle,
	}, phases)
	assert.Equal(t, []string{"generating image", "queued", "rendering", ""}, messages)
}

func TestStepHistory_NavigatesWithoutTruncation(t *testing.T) {
	ed, scene, _ := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindGenerative, "tree")
	first, err := ed.GenerateImage(ctx, id, "first", domain.ImageParams{})
	require.NoError(t, err)
	second, err := ed.GenerateImage(ctx, id, "second", domain.ImageParams{})
	require.NoError(t, err)

	require.NoError(t, ed.StepHistory(ctx, id, first.ID))

	history, err := ed.History(id)
	require.NoError(t, err)
	assert.Equal(t, 2, history.Len(), "stepping back never truncates")
	assert.Equal(t, first.ID, history.CurrentID)

	shown, ok := scene.Shown(id)
	require.True(t, ok)
	assert.Equal(t, first.ID, shown.ID, "the stepped-to asset is materialized")

	t.Run("UnknownEntryIsSilent", func(t *testing.T) {
		require.NoError(t, ed.StepHistory(ctx, id, "no-such-entry"))
		history, err := ed.History(id)
		require.NoError(t, err)
		assert.Equal(t, first.ID, history.CurrentID)
	})

	t.Run("PrevAtStartIsSilent", func(t *testing.T) {
		require.NoError(t, ed.StepPrev(ctx, id))
		history, err := ed.History(id)
		require.NoError(t, err)
		assert.Equal(t, first.ID, history.CurrentID)
	})

	t.Run("NextAdvances", func(t *testing.T) {
		require.NoError(t, ed.StepNext(ctx, id))
		history, err := ed.History(id)
		require.NoError(t, err)
		assert.Equal(t, second.ID, history.CurrentID)
	})
}

func TestGenerationAfterStepBackAppends(t *testing.T) {
	ed, _, gen := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindGenerative, "tree")
	a, err := ed.GenerateImage(ctx, id, "variant a", domain.ImageParams{})
	require.NoError(t, err)
	b, err := ed.GenerateImage(ctx, id, "variant b", domain.ImageParams{})
	require.NoError(t, err)

	require.NoError(t, ed.StepHistory(ctx, id, a.ID))

	gen.QueueModel("mem://a.glb", nil)
	c, err := ed.GenerateModel(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, a.ID, c.DerivedFrom)

	history, err := ed.History(id)
	require.NoError(t, err)
	assert.Equal(t, 3, history.Len(), "the log only ever grows")
	assert.Equal(t, c.ID, history.CurrentID)

	_, stillThere := history.Entry(b.ID)
	assert.True(t, stillThere, "entries ahead of the cursor survive new generations")
}

func TestScenario_UndoAfterGenerationsKeepsCursor(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindGenerative, "tree")
	_, err := ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
	require.NoError(t, err)
	model, err := ed.GenerateModel(ctx, id, "")
	require.NoError(t, err)

	// Generations are not commands: the only undo step is the create.
	assert.Equal(t, 1, ed.UndoDepth())

	_, err = ed.Undo(ctx)
	require.NoError(t, err)
	assert.Empty(t, ed.Entities())

	_, err = ed.Redo(ctx)
	require.NoError(t, err)

	history, err := ed.History(id)
	require.NoError(t, err)
	assert.Equal(t, 2, history.Len())
	assert.Equal(t, model.ID, history.CurrentID, "undo cycles never touch the generation log")
}

func TestHooks_GenerationEvents(t *testing.T) {
	var events []*domain.GenerationEvent
	hooks := domain.LifecycleHooks{
		OnGenerationStarted:  func(_ context.Context, ev *domain.GenerationEvent) { events = append(events, ev) },
		OnGenerationFinished: func(_ context.Context, ev *domain.GenerationEvent) { events = append(events, ev) },
	}
	ed, _, gen := newTestEditor(t, WithLifecycleHooks(hooks))
	ctx := context.Background()

	id := spawn(t, ed, domain.KindGenerative, "tree")
	entry, err := ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
	require.NoError(t, err)

	gen.QueueImage("", errors.New("boom"))
	_, err = ed.GenerateImage(ctx, id, "again", domain.ImageParams{})
	require.Error(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, domain.EventGenerationStarted, events[0].Type)
	assert.Equal(t, domain.EventGenerationFinished, events[1].Type)
	assert.Equal(t, entry.ID, events[1].EntryID)
	assert.False(t, events[1].Failed())
	assert.True(t, events[3].Failed())
	assert.Contains(t, events[3].Err, "boom")
}

func TestHooks_HistoryStepEvents(t *testing.T) {
	var steps []*domain.HistoryEvent
	hooks := domain.LifecycleHooks{
		OnHistoryStep: func(_ context.Context, ev *domain.HistoryEvent) { steps = append(steps, ev) },
	}
	ed, _, _ := newTestEditor(t, WithLifecycleHooks(hooks))
	ctx := context.Background()

	id := spawn(t, ed, domain.KindGenerative, "tree")
	first, err := ed.GenerateImage(ctx, id, "first", domain.ImageParams{})
	require.NoError(t, err)
	_, err = ed.GenerateImage(ctx, id, "second", domain.ImageParams{})
	require.NoError(t, err)

	require.NoError(t, ed.StepHistory(ctx, id, first.ID))
	require.NoError(t, ed.StepHistory(ctx, id, "unknown"))

	require.Len(t, steps, 1, "silent no-ops emit nothing")
	assert.Equal(t, first.ID, steps[0].EntryID)
	assert.Equal(t, 0, steps[0].Index)
	assert.Equal(t, 2, steps[0].Total)
}

func TestHistory_ReturnsIsolatedCopy(t *testing.T) {
	ed, _, _ := newTestEditor(t)
	ctx := context.Background()

	id := spawn(t, ed, domain.KindGenerative, "tree")
	_, err := ed.GenerateImage(ctx, id, "a tree", domain.ImageParams{})
	require.NoError(t, err)

	history, err := ed.History(id)
	require.NoError(t, err)
	history.CurrentID = "tampered"
	history.Entries[0].Prompt = "tampered"

	fresh, err := ed.History(id)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", fresh.CurrentID)
	assert.Equal(t, "a tree", fresh.Entries[0].Prompt)
}
