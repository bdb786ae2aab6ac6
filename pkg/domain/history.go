package domain

import "fmt"

// GenerationHistory is the append-only log of every artifact an entity has
// produced, plus a movable cursor over it. Entries stay in insertion order,
// which is chronological order; derivation links form a forest on top of
// that flat sequence. The zero value is an empty, usable history.
//
// The history holds no rendering state. Whoever moves the cursor is
// responsible for materializing the newly current asset into the scene.
type GenerationHistory struct {
	Entries   []GenerationEntry `json:"entries"`
	CurrentID string            `json:"currentId,omitempty"`
}

// AppendImage creates a root image entry, appends it and makes it current.
func (h *GenerationHistory) AppendImage(prompt, fileURL string, p ImageParams) GenerationEntry {
	e := newImageEntry(prompt, fileURL, p)
	h.Entries = append(h.Entries, e)
	h.CurrentID = e.ID
	return e
}

// AppendModel creates a model entry derived from an existing entry, appends
// it and makes it current. If derivedFrom is not present in the log the
// history is left untouched and ErrUnknownDerivation is returned.
func (h *GenerationHistory) AppendModel(fileURL, derivedFrom string) (GenerationEntry, error) {
	if _, ok := h.Entry(derivedFrom); !ok {
		return GenerationEntry{}, fmt.Errorf("derivation %q: %w", derivedFrom, ErrUnknownDerivation)
	}
	e := newModelEntry(fileURL, derivedFrom)
	h.Entries = append(h.Entries, e)
	h.CurrentID = e.ID
	return e, nil
}

// Current returns the entry the cursor points at, if any.
func (h *GenerationHistory) Current() (GenerationEntry, bool) {
	if h.CurrentID == "" {
		return GenerationEntry{}, false
	}
	return h.Entry(h.CurrentID)
}

// Entry looks up an entry by ID.
func (h *GenerationHistory) Entry(id string) (GenerationEntry, bool) {
	if id == "" {
		return GenerationEntry{}, false
	}
	for _, e := range h.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return GenerationEntry{}, false
}

// StepTo moves the cursor to the given entry. It is pure navigation: no
// entry is ever removed, and entries ahead of the cursor survive. Stepping
// to an unknown ID is a no-op and returns false.
func (h *GenerationHistory) StepTo(id string) bool {
	if _, ok := h.Entry(id); !ok {
		return false
	}
	h.CurrentID = id
	return true
}

// StepPrev moves the cursor one position back in chronological order.
// Derivation links are ignored. Returns false at the start of the log or
// when no entry is current.
func (h *GenerationHistory) StepPrev() bool {
	i := h.CurrentIndex()
	if i <= 0 {
		return false
	}
	h.CurrentID = h.Entries[i-1].ID
	return true
}

// StepNext moves the cursor one position forward in chronological order.
func (h *GenerationHistory) StepNext() bool {
	i := h.CurrentIndex()
	if i < 0 || i >= len(h.Entries)-1 {
		return false
	}
	h.CurrentID = h.Entries[i+1].ID
	return true
}

// CurrentIndex returns the chronological position of the current entry, or
// -1 when nothing is current. Together with Len it drives "n / total"
// displays and prev/next enablement.
func (h *GenerationHistory) CurrentIndex() int {
	return h.IndexOf(h.CurrentID)
}

// IndexOf returns the chronological position of the given entry, or -1.
func (h *GenerationHistory) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, e := range h.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of entries ever appended.
func (h *GenerationHistory) Len() int {
	return len(h.Entries)
}

// Clone returns a deep copy, safe to mutate independently.
func (h *GenerationHistory) Clone() *GenerationHistory {
	if h == nil {
		return nil
	}
	out := &GenerationHistory{CurrentID: h.CurrentID}
	if h.Entries != nil {
		out.Entries = make([]GenerationEntry, len(h.Entries))
		copy(out.Entries, h.Entries)
		for i, e := range h.Entries {
			if e.Image != nil {
				cp := *e.Image
				out.Entries[i].Image = &cp
			}
		}
	}
	return out
}

// Validate checks the structural invariants of the log: the cursor points
// at a known entry, derivation links reference earlier entries only, image
// parameters appear on image entries only, and IDs are unique.
func (h *GenerationHistory) Validate() error {
	seen := make(map[string]int, len(h.Entries))
	for i, e := range h.Entries {
		if e.ID == "" {
			return fmt.Errorf("entry %d: empty id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("entry %d: duplicate id %q", i, e.ID)
		}
		if !e.Kind.Valid() {
			return fmt.Errorf("entry %q: unknown asset type %q", e.ID, e.Kind)
		}
		if e.DerivedFrom != "" {
			if _, ok := seen[e.DerivedFrom]; !ok {
				return fmt.Errorf("entry %q: %w: %q", e.ID, ErrUnknownDerivation, e.DerivedFrom)
			}
		}
		if e.Image != nil && e.Kind != AssetImage {
			return fmt.Errorf("entry %q: image params on %s entry", e.ID, e.Kind)
		}
		seen[e.ID] = i
	}
	if h.CurrentID != "" {
		if _, ok := seen[h.CurrentID]; !ok {
			return fmt.Errorf("current entry %q not in log", h.CurrentID)
		}
	}
	return nil
}
