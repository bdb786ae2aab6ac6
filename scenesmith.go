package scenesmith

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/internal/runtime"
	"github.com/scenesmith/scenesmith/pkg/command"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

// Editor is the high-level entry point for the scenesmith library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Editor struct {
	runtime *runtime.Editor
	scene   ports.SceneAdapter
	gen     ports.GenerationClient
	store   ports.ProjectStore
	catalog ports.AssetCatalog
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	limit   int
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithCommandLimit overrides the undo depth of the command stack
// (default: command.DefaultLimit).
func WithCommandLimit(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithStore attaches a project store, enabling SaveProject and LoadProject.
func WithStore(store ports.ProjectStore) Option {
	return func(e *Editor) {
		e.store = store
	}
}

// WithCatalog attaches an asset catalog, enabling SpawnPreset.
func WithCatalog(catalog ports.AssetCatalog) Option {
	return func(e *Editor) {
		e.catalog = catalog
	}
}

// New initializes a new scenesmith Editor bound to a scene adapter.
// The generation client may be nil, which disables asset generation while
// every other editing operation keeps working.
func New(scene ports.SceneAdapter, gen ports.GenerationClient, opts ...Option) (*Editor, error) {
	if scene == nil {
		return nil, fmt.Errorf("scene adapter is required")
	}

	ed := &Editor{
		scene: scene,
		gen:   gen,
		limit: command.DefaultLimit,
	}
	for _, opt := range opts {
		opt(ed)
	}

	// Ensure the logger is initialized so we never pass nil downstream.
	if ed.logger == nil {
		ed.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	ed.runtime = runtime.NewEditor(scene, gen,
		runtime.WithLogger(ed.logger),
		runtime.WithLifecycleHooks(ed.hooks),
		runtime.WithCommandLimit(ed.limit),
	)
	return ed, nil
}

// Spawn creates a new entity and records the creation as an undo step.
func (e *Editor) Spawn(ctx context.Context, req domain.SpawnRequest) (domain.EntityView, error) {
	return e.runtime.Spawn(ctx, req)
}

// SpawnPreset creates an entity from a catalog preset. Presets that ship a
// ready-made asset seed the entity's generation history with it.
func (e *Editor) SpawnPreset(ctx context.Context, presetID string) (domain.EntityView, error) {
	if e.catalog == nil {
		return domain.EntityView{}, fmt.Errorf("no asset catalog configured")
	}
	preset, err := e.catalog.Get(ctx, presetID)
	if err != nil {
		return domain.EntityView{}, fmt.Errorf("preset %q: %w", presetID, err)
	}

	t := preset.Transform
	view, err := e.runtime.Spawn(ctx, domain.SpawnRequest{
		Kind:      preset.Kind,
		Name:      preset.Name,
		Transform: &t,
	})
	if err != nil {
		return domain.EntityView{}, err
	}

	if preset.FileURL != "" && preset.Kind.SupportsGeneration() {
		if _, err := e.runtime.AdoptAsset(ctx, view.UUID, preset.Name, preset.FileURL); err != nil {
			e.logger.Warn("preset asset not adopted", "preset", presetID, "error", err)
		}
		return e.runtime.Entity(view.UUID)
	}
	return view, nil
}

// Delete removes an entity from the scene as an undo step. Resources are
// retained so a later undo restores the entity exactly.
func (e *Editor) Delete(ctx context.Context, id uuid.UUID) error {
	return e.runtime.Delete(ctx, id)
}

// Attach parents child under parent.
func (e *Editor) Attach(child, parent uuid.UUID) error {
	return e.runtime.Attach(child, parent)
}

// AttachToBone parents child under a named bone of a character.
func (e *Editor) AttachToBone(child, character uuid.UUID, bone string) error {
	return e.runtime.AttachToBone(child, character, bone)
}

// Detach removes an entity from its parent or bone.
func (e *Editor) Detach(id uuid.UUID) error {
	return e.runtime.Detach(id)
}

// PoseBone rotates a named bone of a character.
func (e *Editor) PoseBone(character uuid.UUID, bone string, rotation domain.Vec3) error {
	return e.runtime.PoseBone(character, bone, rotation)
}

// BeginDrag opens an interactive transform manipulation on an entity.
func (e *Editor) BeginDrag(id uuid.UUID) error {
	return e.runtime.BeginDrag(id)
}

// Drag applies an intermediate transform of the active manipulation.
func (e *Editor) Drag(t domain.Transform) error {
	return e.runtime.Drag(t)
}

// EndDrag closes the active manipulation, recording begin and end state as
// one undo step.
func (e *Editor) EndDrag(ctx context.Context) error {
	return e.runtime.EndDrag(ctx)
}

// CancelDrag reverts the active manipulation without recording anything.
func (e *Editor) CancelDrag() error {
	return e.runtime.CancelDrag()
}

// SetTransform applies a transform as a single discrete undo step.
func (e *Editor) SetTransform(ctx context.Context, id uuid.UUID, t domain.Transform) error {
	return e.runtime.SetTransform(ctx, id, t)
}

// Undo reverts the most recent command. An empty stack is a silent no-op.
func (e *Editor) Undo(ctx context.Context) (string, error) {
	return e.runtime.Undo(ctx)
}

// Redo re-applies the most recently undone command.
func (e *Editor) Redo(ctx context.Context) (string, error) {
	return e.runtime.Redo(ctx)
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool { return e.runtime.CanUndo() }

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool { return e.runtime.CanRedo() }

// UndoDepth returns the number of commands available to undo.
func (e *Editor) UndoDepth() int { return e.runtime.UndoDepth() }

// RedoDepth returns the number of commands available to redo.
func (e *Editor) RedoDepth() int { return e.runtime.RedoDepth() }

// GenerateImage produces a 2D asset for the entity from a text prompt and
// appends it to the entity's generation history.
func (e *Editor) GenerateImage(ctx context.Context, id uuid.UUID, prompt string, params domain.ImageParams) (domain.GenerationEntry, error) {
	return e.runtime.GenerateImage(ctx, id, prompt, params)
}

// GenerateModel derives a 3D asset from one of the entity's image entries.
// An empty derivedFrom uses the current entry.
func (e *Editor) GenerateModel(ctx context.Context, id uuid.UUID, derivedFrom string) (domain.GenerationEntry, error) {
	return e.runtime.GenerateModel(ctx, id, derivedFrom)
}

// History returns a copy of the entity's generation log.
func (e *Editor) History(id uuid.UUID) (*domain.GenerationHistory, error) {
	return e.runtime.History(id)
}

// StepHistory moves the entity's generation cursor to a specific entry.
func (e *Editor) StepHistory(ctx context.Context, id uuid.UUID, entryID string) error {
	return e.runtime.StepHistory(ctx, id, entryID)
}

// StepPrev moves the generation cursor one chronological position back.
func (e *Editor) StepPrev(ctx context.Context, id uuid.UUID) error {
	return e.runtime.StepPrev(ctx, id)
}

// StepNext moves the generation cursor one chronological position forward.
func (e *Editor) StepNext(ctx context.Context, id uuid.UUID) error {
	return e.runtime.StepNext(ctx, id)
}

// ProcessingState reads an entity's generation status.
func (e *Editor) ProcessingState(id uuid.UUID) domain.ProcessingState {
	return e.runtime.ProcessingState(id)
}

// SubscribeStatus observes an entity's processing state changes. The
// returned function cancels the subscription.
func (e *Editor) SubscribeStatus(id uuid.UUID, fn func(domain.ProcessingState)) func() {
	return e.runtime.SubscribeStatus(id, fn)
}

// Entities lists every live entity in scene insertion order.
func (e *Editor) Entities() []domain.EntityView {
	return e.runtime.Entities()
}

// Entity returns the view of a single live entity.
func (e *Editor) Entity(id uuid.UUID) (domain.EntityView, error) {
	return e.runtime.Entity(id)
}

// SetEnvironment replaces the opaque environment blob carried by exports.
func (e *Editor) SetEnvironment(env map[string]any) { e.runtime.SetEnvironment(env) }

// SetRenderSettings replaces the opaque render settings blob.
func (e *Editor) SetRenderSettings(settings map[string]any) { e.runtime.SetRenderSettings(settings) }

// SetTimeline replaces the opaque timeline blob.
func (e *Editor) SetTimeline(timeline map[string]any) { e.runtime.SetTimeline(timeline) }

// Export snapshots the live scene into a named project document.
func (e *Editor) Export(name string) *domain.Project {
	return e.runtime.Export(name)
}

// Restore replaces the live scene with the given project document,
// tolerating partially loadable documents. The report lists everything
// that could not be brought back.
func (e *Editor) Restore(ctx context.Context, project *domain.Project) (*domain.RestoreReport, error) {
	return e.runtime.Restore(ctx, project)
}

// SaveProject exports the live scene and persists it under the given name.
// Requires a store (see WithStore).
func (e *Editor) SaveProject(ctx context.Context, name string) error {
	if e.store == nil {
		return fmt.Errorf("no project store configured")
	}
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	if err := e.store.Save(ctx, e.Export(name)); err != nil {
		return fmt.Errorf("save project %q: %w", name, err)
	}
	e.logger.Info("project saved", "project", name)
	return nil
}

// LoadProject loads a named project from the store and restores it into
// the live scene. Requires a store (see WithStore).
func (e *Editor) LoadProject(ctx context.Context, name string) (*domain.RestoreReport, error) {
	if e.store == nil {
		return nil, fmt.Errorf("no project store configured")
	}
	project, err := e.store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load project %q: %w", name, err)
	}
	return e.Restore(ctx, project)
}

// DeleteProject removes a named project from the store.
func (e *Editor) DeleteProject(ctx context.Context, name string) error {
	if e.store == nil {
		return fmt.Errorf("no project store configured")
	}
	return e.store.Delete(ctx, name)
}

// ListProjects returns the names of projects in the store.
func (e *Editor) ListProjects(ctx context.Context) ([]string, error) {
	if e.store == nil {
		return nil, fmt.Errorf("no project store configured")
	}
	return e.store.List(ctx)
}

// Catalog returns the attached asset catalog, or nil.
func (e *Editor) Catalog() ports.AssetCatalog {
	return e.catalog
}

// WatchCatalog returns a channel signaled when the underlying asset
// library changes. Returns an error if the catalog does not support
// watching.
func (e *Editor) WatchCatalog(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.catalog.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current catalog does not support watching")
}
