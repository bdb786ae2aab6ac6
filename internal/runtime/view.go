package runtime

import (
	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// Entities lists every live entity in scene insertion order. Deleted
// entities are not listed.
func (e *Editor) Entities() []domain.EntityView {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.EntityView, 0, len(e.order))
	for _, id := range e.order {
		st := e.entities[id]
		if st == nil || st.deleted {
			continue
		}
		out = append(out, e.viewLocked(st))
	}
	return out
}

// Entity returns the view of a single live entity.
func (e *Editor) Entity(id uuid.UUID) (domain.EntityView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.lookupLocked(id)
	if err != nil {
		return domain.EntityView{}, err
	}
	return e.viewLocked(st), nil
}

func (e *Editor) viewLocked(st *entityState) domain.EntityView {
	v := domain.EntityView{
		UUID:         st.id,
		Kind:         st.kind,
		Name:         st.name,
		Parent:       st.parent,
		Bone:         cloneBone(st.bone),
		Visible:      !st.deleted,
		Processing:   e.tracker.State(st.id),
		HistoryIndex: -1,
	}
	if t, err := e.scene.Transform(st.id); err == nil {
		v.Transform = t
	}
	if vis, err := e.scene.Visible(st.id); err == nil {
		v.Visible = vis
	}
	if st.history != nil {
		v.HistoryLen = st.history.Len()
		v.HistoryIndex = st.history.CurrentIndex()
		if cur, ok := st.history.Current(); ok {
			v.CurrentEntry = &cur
		}
	}
	return v
}
