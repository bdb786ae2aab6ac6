package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/command"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
	"github.com/scenesmith/scenesmith/pkg/status"
)

// entityState is the editor's bookkeeping for one live entity. Transforms
// and visibility live in the scene adapter; the editor owns identity,
// history, attachment wiring and the deleted flag.
type entityState struct {
	id            uuid.UUID
	kind          domain.EntityKind
	name          string
	history       *domain.GenerationHistory
	boneRotations map[string]domain.Vec3
	parent        uuid.UUID
	bone          *domain.BoneAttachment

	// deleted marks entities hidden by a delete (or an undone create).
	// Their resources stay alive so undo/redo stays cheap and exact.
	deleted bool
}

// dragState is the active manipulation handle: one interactive transform
// in progress, at most one at a time.
type dragState struct {
	id      uuid.UUID
	initial domain.Transform
}

// Editor is the application context that owns the command stack, the
// processing tracker, the entity table and the collaborator ports. All
// process-wide state lives here; tests construct isolated editors.
//
// An Editor is safe for concurrent use. Generation calls are the only
// operations that block; they release the editor lock while the provider
// works so other entities stay operable.
type Editor struct {
	mu      sync.Mutex
	scene   ports.SceneAdapter
	gen     ports.GenerationClient
	stack   *command.Stack
	tracker *status.Tracker
	logger  *slog.Logger
	hooks   domain.LifecycleHooks

	entities map[uuid.UUID]*entityState
	order    []uuid.UUID
	drag     *dragState

	environment    map[string]any
	renderSettings map[string]any
	timeline       map[string]any
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCommandLimit sets the undo depth of the command stack.
func WithCommandLimit(n int) Option {
	return func(e *Editor) {
		e.stack = command.NewStack(command.WithLimit(n))
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// NewEditor creates an editor bound to a scene adapter and an optional
// generation client. A nil client leaves every entity kind without
// generation support.
func NewEditor(scene ports.SceneAdapter, gen ports.GenerationClient, opts ...Option) *Editor {
	e := &Editor{
		scene:    scene,
		gen:      gen,
		stack:    command.NewStack(),
		tracker:  status.NewTracker(),
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		entities: make(map[uuid.UUID]*entityState),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Spawn materializes a new entity and records its creation on the undo
// stack. The returned view reflects the entity immediately after creation.
func (e *Editor) Spawn(ctx context.Context, req domain.SpawnRequest) (domain.EntityView, error) {
	if !req.Kind.Valid() {
		return domain.EntityView{}, fmt.Errorf("spawn: unknown entity type %q", req.Kind)
	}

	t := domain.IdentityTransform()
	if req.Transform != nil {
		t = *req.Transform
	}

	record := domain.EntityRecord{
		UUID:      uuid.New(),
		Kind:      req.Kind,
		Name:      req.Name,
		Transform: t,
	}
	if req.Kind.SupportsGeneration() {
		record.History = &domain.GenerationHistory{}
	}

	// 1. Materialize resources before anything becomes undoable.
	if err := e.scene.Materialize(ctx, record); err != nil {
		return domain.EntityView{}, fmt.Errorf("materialize %s: %w", record.UUID, err)
	}

	e.mu.Lock()
	st := &entityState{
		id:      record.UUID,
		kind:    record.Kind,
		name:    record.Name,
		history: record.History,
	}
	if record.Kind.HasSkeleton() {
		st.boneRotations = make(map[string]domain.Vec3)
	}
	e.entities[st.id] = st
	e.order = append(e.order, st.id)

	// 2. The create command owns visibility: execute shows the entity.
	err := e.stack.Do(&createCommand{ed: e, id: st.id})
	view := e.viewLocked(st)
	e.mu.Unlock()
	if err != nil {
		return domain.EntityView{}, err
	}

	e.emitEntity(ctx, domain.EventEntityCreated, st)
	e.emitCommand(ctx, domain.EventCommandExecuted, "create entity")
	e.logger.Info("entity spawned", "entity", st.id, "kind", st.kind)
	return view, nil
}

// Delete hides and detaches an entity, recording the step for undo. The
// entity's resources are not destroyed; redo restores it exactly.
func (e *Editor) Delete(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	st, err := e.lookupLocked(id)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	visible, verr := e.scene.Visible(id)
	if verr != nil {
		visible = true
	}
	cmd := &deleteCommand{
		ed:         e,
		id:         id,
		wasVisible: visible,
		parent:     st.parent,
		bone:       cloneBone(st.bone),
	}
	err = e.stack.Do(cmd)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	e.emitEntity(ctx, domain.EventEntityDeleted, st)
	e.emitCommand(ctx, domain.EventCommandExecuted, cmd.Name())
	e.logger.Info("entity deleted", "entity", id)
	return nil
}

// Attach parents child under parent. Attachment is direct manipulation of
// scene structure, not an undoable command.
func (e *Editor) Attach(child, parent uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.lookupLocked(child)
	if err != nil {
		return err
	}
	if _, err := e.lookupLocked(parent); err != nil {
		return err
	}
	if child == parent {
		return fmt.Errorf("attach %s to itself", child)
	}
	if err := e.scene.Attach(child, parent); err != nil {
		return fmt.Errorf("attach: %w", err)
	}
	st.parent = parent
	st.bone = nil
	return nil
}

// AttachToBone parents child under a named bone of a character's skeleton.
func (e *Editor) AttachToBone(child, character uuid.UUID, bone string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.lookupLocked(child)
	if err != nil {
		return err
	}
	target, err := e.lookupLocked(character)
	if err != nil {
		return err
	}
	if !target.kind.HasSkeleton() {
		return fmt.Errorf("attach %s to %s: %w", child, character, domain.ErrBoneTargetNotCharacter)
	}
	if err := e.scene.AttachToBone(child, character, bone); err != nil {
		return fmt.Errorf("attach to bone: %w", err)
	}
	st.bone = &domain.BoneAttachment{CharacterID: character, Bone: bone}
	st.parent = uuid.Nil
	return nil
}

// Detach removes the entity from its parent or bone, leaving it alive.
func (e *Editor) Detach(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.lookupLocked(id)
	if err != nil {
		return err
	}
	if err := e.scene.Detach(id); err != nil {
		return fmt.Errorf("detach: %w", err)
	}
	st.parent = uuid.Nil
	st.bone = nil
	return nil
}

// PoseBone rotates one named bone of a character and remembers the pose
// for export. Poses are not undoable commands.
func (e *Editor) PoseBone(character uuid.UUID, bone string, rotation domain.Vec3) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.lookupLocked(character)
	if err != nil {
		return err
	}
	if !st.kind.HasSkeleton() {
		return fmt.Errorf("pose %s: %w", character, domain.ErrBoneTargetNotCharacter)
	}
	if err := e.scene.ApplyBoneRotation(character, bone, rotation); err != nil {
		return fmt.Errorf("pose bone %q: %w", bone, err)
	}
	if st.boneRotations == nil {
		st.boneRotations = make(map[string]domain.Vec3)
	}
	st.boneRotations[bone] = rotation
	return nil
}

// BeginDrag opens an interactive transform on one entity, capturing its
// initial state. At most one drag is active at a time; starting a new one
// silently drops the previous capture.
func (e *Editor) BeginDrag(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.lookupLocked(id); err != nil {
		return err
	}
	initial, err := e.scene.Transform(id)
	if err != nil {
		return fmt.Errorf("begin drag: %w", err)
	}
	e.drag = &dragState{id: id, initial: initial}
	return nil
}

// Drag applies an intermediate transform of the active drag directly to
// the scene. Intermediate states never reach the undo stack.
func (e *Editor) Drag(t domain.Transform) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag == nil {
		return fmt.Errorf("no drag in progress")
	}
	return e.scene.SetTransform(e.drag.id, t)
}

// EndDrag captures the final state and records the whole drag as one undo
// step. A drag that moved nothing is discarded: it would only be a no-op
// on the stack.
func (e *Editor) EndDrag(ctx context.Context) error {
	e.mu.Lock()
	if e.drag == nil {
		e.mu.Unlock()
		return nil
	}
	d := e.drag
	e.drag = nil

	final, err := e.scene.Transform(d.id)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("end drag: %w", err)
	}
	if final == d.initial {
		e.mu.Unlock()
		return nil
	}

	cmd := &transformCommand{ed: e, id: d.id, initial: d.initial, final: final, captured: true}
	err = e.stack.Do(cmd)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	e.emitCommand(ctx, domain.EventCommandExecuted, cmd.Name())
	return nil
}

// CancelDrag reverts the active drag to its initial state without touching
// the undo stack.
func (e *Editor) CancelDrag() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drag == nil {
		return nil
	}
	d := e.drag
	e.drag = nil
	return e.scene.SetTransform(d.id, d.initial)
}

// SetTransform applies a transform as a single discrete undo step, the
// non-interactive equivalent of a begin/end drag pair.
func (e *Editor) SetTransform(ctx context.Context, id uuid.UUID, t domain.Transform) error {
	e.mu.Lock()
	if _, err := e.lookupLocked(id); err != nil {
		e.mu.Unlock()
		return err
	}
	initial, err := e.scene.Transform(id)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("transform: %w", err)
	}
	cmd := &transformCommand{ed: e, id: id, initial: initial, final: t, captured: true}
	err = e.stack.Do(cmd)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	e.emitCommand(ctx, domain.EventCommandExecuted, cmd.Name())
	return nil
}

// Undo reverts the most recent command. On an empty stack it is a silent
// no-op returning an empty name.
func (e *Editor) Undo(ctx context.Context) (string, error) {
	e.mu.Lock()
	cmd, err := e.stack.Undo()
	e.mu.Unlock()
	if cmd == nil {
		return "", err
	}

	e.emitCommand(ctx, domain.EventCommandUndone, cmd.Name())
	e.logger.Debug("command undone", "command", cmd.Name())
	return cmd.Name(), err
}

// Redo re-applies the most recently undone command. On an empty redo stack
// it is a silent no-op returning an empty name.
func (e *Editor) Redo(ctx context.Context) (string, error) {
	e.mu.Lock()
	cmd, err := e.stack.Redo()
	e.mu.Unlock()
	if cmd == nil {
		return "", err
	}

	e.emitCommand(ctx, domain.EventCommandRedone, cmd.Name())
	e.logger.Debug("command redone", "command", cmd.Name())
	return cmd.Name(), err
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.CanRedo()
}

// UndoDepth returns the number of commands available to undo.
func (e *Editor) UndoDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.UndoDepth()
}

// RedoDepth returns the number of commands available to redo.
func (e *Editor) RedoDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.RedoDepth()
}

// SetEnvironment replaces the opaque environment blob carried by exports.
func (e *Editor) SetEnvironment(env map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.environment = env
}

// SetRenderSettings replaces the opaque render settings blob.
func (e *Editor) SetRenderSettings(settings map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderSettings = settings
}

// SetTimeline replaces the opaque timeline blob.
func (e *Editor) SetTimeline(timeline map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeline = timeline
}

// ProcessingState reads an entity's generation status. Unknown entities
// read as idle.
func (e *Editor) ProcessingState(id uuid.UUID) domain.ProcessingState {
	return e.tracker.State(id)
}

// SubscribeStatus registers a per-entity observer of processing state
// changes and returns its unsubscribe function.
func (e *Editor) SubscribeStatus(id uuid.UUID, fn func(domain.ProcessingState)) func() {
	return e.tracker.Subscribe(id, fn)
}

// lookupLocked resolves a live entity. Deleted entities stay in the table
// for undo but are not addressable by operations.
func (e *Editor) lookupLocked(id uuid.UUID) (*entityState, error) {
	st, ok := e.entities[id]
	if !ok || st.deleted {
		return nil, fmt.Errorf("entity %s: %w", id, domain.ErrEntityNotFound)
	}
	return st, nil
}

func cloneBone(b *domain.BoneAttachment) *domain.BoneAttachment {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}
