package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// GenerateImage runs a 2D generation for one entity and appends the result
// to its history. The call blocks until the provider resolves; the editor
// lock is released meanwhile, so other entities stay fully operable. The
// new entry becomes current and is materialized into the scene.
//
// Generation is never recorded on the undo stack: rewinding generation is
// done through the history cursor, not through undo.
func (e *Editor) GenerateImage(ctx context.Context, id uuid.UUID, prompt string, p domain.ImageParams) (domain.GenerationEntry, error) {
	// 1. Validate and flip to busy while holding the lock, so the
	// in-flight guard is atomic with the lookup.
	e.mu.Lock()
	st, err := e.lookupLocked(id)
	if err != nil {
		e.mu.Unlock()
		return domain.GenerationEntry{}, err
	}
	if err := e.generationReadyLocked(st); err != nil {
		e.mu.Unlock()
		return domain.GenerationEntry{}, err
	}
	if err := e.tracker.Begin(id, domain.PhaseGeneratingImage, "generating image"); err != nil {
		e.mu.Unlock()
		return domain.GenerationEntry{}, err
	}
	e.mu.Unlock()

	e.emitGeneration(ctx, domain.EventGenerationStarted, id, domain.AssetImage, "", "", 0)
	e.logger.Info("image generation started", "entity", id)
	start := time.Now()

	// 2. Call the provider without the lock.
	fileURL, err := e.gen.GenerateImage(ctx, prompt, p, func(msg string) {
		e.tracker.Progress(id, msg)
	})
	if err != nil {
		return domain.GenerationEntry{}, e.failGeneration(ctx, id, domain.AssetImage, start, err)
	}

	// 3. Publish the result.
	return e.finishGeneration(ctx, id, domain.AssetImage, start, func(h *domain.GenerationHistory) (domain.GenerationEntry, error) {
		return h.AppendImage(prompt, fileURL, p), nil
	})
}

// GenerateModel converts one of the entity's image entries into a 3D model
// and appends the result with a derivation link. An empty derivedFrom uses
// the current entry. The source must already be in the log; unknown
// sources fail with domain.ErrUnknownDerivation before the provider is
// ever called.
func (e *Editor) GenerateModel(ctx context.Context, id uuid.UUID, derivedFrom string) (domain.GenerationEntry, error) {
	e.mu.Lock()
	st, err := e.lookupLocked(id)
	if err != nil {
		e.mu.Unlock()
		return domain.GenerationEntry{}, err
	}
	if err := e.generationReadyLocked(st); err != nil {
		e.mu.Unlock()
		return domain.GenerationEntry{}, err
	}

	// Resolve the derivation source up front. Entries are immutable and
	// never removed, so the resolved source cannot vanish mid-flight.
	var source domain.GenerationEntry
	var ok bool
	if derivedFrom == "" {
		source, ok = st.history.Current()
	} else {
		source, ok = st.history.Entry(derivedFrom)
	}
	if !ok {
		e.mu.Unlock()
		return domain.GenerationEntry{}, fmt.Errorf("entity %s: derivation %q: %w", id, derivedFrom, domain.ErrUnknownDerivation)
	}

	if err := e.tracker.Begin(id, domain.PhaseGeneratingModel, "generating model"); err != nil {
		e.mu.Unlock()
		return domain.GenerationEntry{}, err
	}
	e.mu.Unlock()

	e.emitGeneration(ctx, domain.EventGenerationStarted, id, domain.AssetModel, "", "", 0)
	e.logger.Info("model generation started", "entity", id, "source", source.ID)
	start := time.Now()

	fileURL, err := e.gen.GenerateModel(ctx, source.FileURL, func(msg string) {
		e.tracker.Progress(id, msg)
	})
	if err != nil {
		return domain.GenerationEntry{}, e.failGeneration(ctx, id, domain.AssetModel, start, err)
	}

	return e.finishGeneration(ctx, id, domain.AssetModel, start, func(h *domain.GenerationHistory) (domain.GenerationEntry, error) {
		return h.AppendModel(fileURL, source.ID)
	})
}

// generationReadyLocked checks the entity kind and client wiring.
func (e *Editor) generationReadyLocked(st *entityState) error {
	if !st.kind.SupportsGeneration() {
		return fmt.Errorf("entity %s is %s: %w", st.id, st.kind, domain.ErrGenerationUnsupported)
	}
	if e.gen == nil {
		return fmt.Errorf("no generation client configured: %w", domain.ErrGenerationUnsupported)
	}
	if st.history == nil {
		st.history = &domain.GenerationHistory{}
	}
	return nil
}

// failGeneration resolves a provider failure: the state machine returns to
// idle carrying the failure message, nothing is appended, and the error is
// surfaced to the caller. Nothing panics past this point.
func (e *Editor) failGeneration(ctx context.Context, id uuid.UUID, asset domain.AssetKind, start time.Time, cause error) error {
	e.tracker.Fail(id, fmt.Sprintf("%s generation failed: %v", asset, cause))
	e.emitGeneration(ctx, domain.EventGenerationFinished, id, asset, "", cause.Error(), time.Since(start))
	e.logger.Warn("generation failed", "entity", id, "asset", asset, "error", cause)
	return fmt.Errorf("generate %s: %w", asset, cause)
}

// finishGeneration appends the produced entry and materializes it. The
// entity may have been deleted or the scene replaced while the provider
// worked; both are tolerated, the artifact is simply not shown.
func (e *Editor) finishGeneration(ctx context.Context, id uuid.UUID, asset domain.AssetKind, start time.Time, appendEntry func(*domain.GenerationHistory) (domain.GenerationEntry, error)) (domain.GenerationEntry, error) {
	e.mu.Lock()
	st, ok := e.entities[id]
	if !ok {
		// The scene was replaced underneath the generation. End cleanly
		// and report the entity gone.
		e.mu.Unlock()
		e.tracker.End(id)
		e.logger.Warn("generation finished for vanished entity", "entity", id)
		return domain.GenerationEntry{}, fmt.Errorf("entity %s: %w", id, domain.ErrEntityNotFound)
	}
	if st.history == nil {
		st.history = &domain.GenerationHistory{}
	}
	entry, err := appendEntry(st.history)
	if err != nil {
		e.mu.Unlock()
		return domain.GenerationEntry{}, e.failGeneration(ctx, id, asset, start, err)
	}
	hidden := st.deleted
	e.mu.Unlock()

	if hidden {
		e.logger.Debug("entity hidden, skipping asset display", "entity", id, "entry", entry.ID)
	} else if err := e.scene.ShowAsset(ctx, id, entry); err != nil {
		e.logger.Warn("show asset failed", "entity", id, "entry", entry.ID, "error", err)
	}

	e.tracker.End(id)
	e.emitGeneration(ctx, domain.EventGenerationFinished, id, asset, entry.ID, "", time.Since(start))
	e.logger.Info("generation finished", "entity", id, "asset", asset, "entry", entry.ID)
	return entry, nil
}

// AdoptAsset records an externally produced image in an entity's history
// without calling a provider, e.g. a catalog preset shipping a ready-made
// file. The entry becomes current and is shown like a generated one.
func (e *Editor) AdoptAsset(ctx context.Context, id uuid.UUID, label, fileURL string) (domain.GenerationEntry, error) {
	e.mu.Lock()
	st, err := e.lookupLocked(id)
	if err != nil {
		e.mu.Unlock()
		return domain.GenerationEntry{}, err
	}
	if !st.kind.SupportsGeneration() {
		e.mu.Unlock()
		return domain.GenerationEntry{}, fmt.Errorf("entity %s is %s: %w", st.id, st.kind, domain.ErrGenerationUnsupported)
	}
	if st.history == nil {
		st.history = &domain.GenerationHistory{}
	}
	entry := st.history.AppendImage(label, fileURL, domain.ImageParams{})
	e.mu.Unlock()

	if err := e.scene.ShowAsset(ctx, id, entry); err != nil {
		e.logger.Warn("show adopted asset failed", "entity", id, "entry", entry.ID, "error", err)
	}
	e.logger.Debug("asset adopted", "entity", id, "entry", entry.ID, "file", fileURL)
	return entry, nil
}

// StepHistory moves an entity's generation cursor to a specific entry and
// materializes that entry's asset. Stepping to an unknown entry is a
// silent no-op; the log itself never changes.
func (e *Editor) StepHistory(ctx context.Context, id uuid.UUID, entryID string) error {
	return e.step(ctx, id, func(h *domain.GenerationHistory) bool {
		return h.StepTo(entryID)
	})
}

// StepPrev moves the cursor one chronological position back.
func (e *Editor) StepPrev(ctx context.Context, id uuid.UUID) error {
	return e.step(ctx, id, (*domain.GenerationHistory).StepPrev)
}

// StepNext moves the cursor one chronological position forward.
func (e *Editor) StepNext(ctx context.Context, id uuid.UUID) error {
	return e.step(ctx, id, (*domain.GenerationHistory).StepNext)
}

func (e *Editor) step(ctx context.Context, id uuid.UUID, move func(*domain.GenerationHistory) bool) error {
	e.mu.Lock()
	st, err := e.lookupLocked(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if st.history == nil || !move(st.history) {
		e.mu.Unlock()
		return nil
	}
	entry, _ := st.history.Current()
	index := st.history.CurrentIndex()
	total := st.history.Len()
	e.mu.Unlock()

	e.emitHistoryStep(ctx, id, entry.ID, index, total)
	if err := e.scene.ShowAsset(ctx, id, entry); err != nil {
		return fmt.Errorf("show asset %s: %w", entry.ID, err)
	}
	return nil
}

// History returns a deep copy of an entity's generation log.
func (e *Editor) History(id uuid.UUID) (*domain.GenerationHistory, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.lookupLocked(id)
	if err != nil {
		return nil, err
	}
	if st.history == nil {
		return &domain.GenerationHistory{}, nil
	}
	return st.history.Clone(), nil
}
