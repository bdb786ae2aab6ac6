// Package status tracks the ephemeral per-entity generation state and
// fans it out to observers. A Tracker is the bookkeeping half of the
// editor's Idle/GeneratingImage/GeneratingModel machine: begin and end are
// driven by the generation pipeline, observers (UI panels, SSE streams)
// subscribe per entity.
package status

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

type listener struct {
	seq int
	fn  func(domain.ProcessingState)
}

// Tracker holds the processing state of every entity it has seen and the
// listeners subscribed to each. Unknown entities read as Idle. A Tracker
// is safe for concurrent use; generation pipelines publish from their own
// goroutines.
type Tracker struct {
	mu        sync.Mutex
	states    map[uuid.UUID]domain.ProcessingState
	listeners map[uuid.UUID][]listener
	seq       int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		states:    make(map[uuid.UUID]domain.ProcessingState),
		listeners: make(map[uuid.UUID][]listener),
	}
}

// Begin moves an entity from Idle into a busy phase and notifies its
// observers. Both busy phases are entered from Idle only; an entity with a
// generation already in flight returns domain.ErrGenerationInFlight, which
// is also how the "no direct image-to-model transition" rule is enforced.
func (t *Tracker) Begin(id uuid.UUID, phase domain.Phase, message string) error {
	if !phase.Busy() {
		return fmt.Errorf("begin with non-busy phase %q", phase)
	}

	t.mu.Lock()
	if t.states[id].Phase.Busy() {
		t.mu.Unlock()
		return domain.ErrGenerationInFlight
	}
	next := domain.ProcessingState{Phase: phase, Message: message}
	t.states[id] = next
	snapshot := t.snapshotLocked(id)
	t.mu.Unlock()

	notify(snapshot, next)
	return nil
}

// Progress updates the message of an in-flight generation without changing
// phase and notifies observers. Stale progress arriving after the
// generation ended is dropped silently.
func (t *Tracker) Progress(id uuid.UUID, message string) {
	t.mu.Lock()
	cur := t.states[id]
	if !cur.Phase.Busy() {
		t.mu.Unlock()
		return
	}
	next := domain.ProcessingState{Phase: cur.Phase, Message: message}
	t.states[id] = next
	snapshot := t.snapshotLocked(id)
	t.mu.Unlock()

	notify(snapshot, next)
}

// End returns the entity to Idle with a clear message and notifies
// observers. Ending an already idle entity is a silent no-op, which makes
// completions racing a deletion harmless.
func (t *Tracker) End(id uuid.UUID) {
	t.finish(id, "")
}

// Fail returns the entity to Idle carrying a human-readable failure
// message and notifies observers. Failures never propagate further than
// this message.
func (t *Tracker) Fail(id uuid.UUID, message string) {
	t.finish(id, message)
}

func (t *Tracker) finish(id uuid.UUID, message string) {
	t.mu.Lock()
	cur := t.states[id]
	if !cur.Phase.Busy() {
		t.mu.Unlock()
		return
	}
	next := domain.ProcessingState{Phase: domain.PhaseIdle, Message: message}
	t.states[id] = next
	snapshot := t.snapshotLocked(id)
	t.mu.Unlock()

	notify(snapshot, next)
}

// State reads an entity's current processing state. Entities never seen
// read as Idle.
func (t *Tracker) State(id uuid.UUID) domain.ProcessingState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.states[id]; ok {
		return s
	}
	return domain.IdleState()
}

// Busy reports whether the entity has a generation in flight.
func (t *Tracker) Busy(id uuid.UUID) bool {
	return t.State(id).Phase.Busy()
}

// Subscribe registers fn for one entity's state changes and returns the
// matching unsubscribe function. Notification is synchronous and delivered
// in subscription order. Each emission works on a stable snapshot of the
// listener set: a listener added during notification is not invoked for
// the in-flight notification.
func (t *Tracker) Subscribe(id uuid.UUID, fn func(domain.ProcessingState)) (unsubscribe func()) {
	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.listeners[id] = append(t.listeners[id], listener{seq: seq, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		subs := t.listeners[id]
		for i, l := range subs {
			if l.seq == seq {
				t.listeners[id] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(t.listeners[id]) == 0 {
			delete(t.listeners, id)
		}
	}
}

// Forget drops the entity's state and listeners. Called when an entity's
// resources are disposed for good.
func (t *Tracker) Forget(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, id)
	delete(t.listeners, id)
}

// snapshotLocked copies the listener slice so emission can run without the
// lock and without seeing concurrent subscribes.
func (t *Tracker) snapshotLocked(id uuid.UUID) []listener {
	subs := t.listeners[id]
	if len(subs) == 0 {
		return nil
	}
	out := make([]listener, len(subs))
	copy(out, subs)
	return out
}

func notify(subs []listener, state domain.ProcessingState) {
	for _, l := range subs {
		l.fn(state)
	}
}
