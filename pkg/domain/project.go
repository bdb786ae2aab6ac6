package domain

// ProjectVersion is the informal document version written on export. There
// is no schema migration machinery; readers tolerate unknown and missing
// optional fields instead.
const ProjectVersion = "1"

// Project is the persistence document for a whole scene: every entity
// record (embedding its generation history) plus the global state blobs the
// editor does not interpret. Entity order is the scene's insertion order;
// nothing in the format depends on it.
type Project struct {
	Version  string         `json:"version"`
	Name     string         `json:"name,omitempty"`
	Entities []EntityRecord `json:"entities"`

	// Environment, RenderSettings and Timeline are passed through opaque.
	Environment    map[string]any `json:"environment,omitempty"`
	RenderSettings map[string]any `json:"renderSettings,omitempty"`
	Timeline       map[string]any `json:"timeline,omitempty"`
}

// NewProject returns an empty document with the current version stamp.
func NewProject(name string) *Project {
	return &Project{Version: ProjectVersion, Name: name}
}

// Entity finds a record by UUID string representation or name. Convenience
// for the CLI and validation surfaces; O(n).
func (p *Project) Entity(key string) (EntityRecord, bool) {
	for _, e := range p.Entities {
		if e.UUID.String() == key || (e.Name != "" && e.Name == key) {
			return e, true
		}
	}
	return EntityRecord{}, false
}

// Clone returns a deep copy of the document.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := &Project{Version: p.Version, Name: p.Name}
	if p.Entities != nil {
		out.Entities = make([]EntityRecord, 0, len(p.Entities))
		for i := range p.Entities {
			out.Entities = append(out.Entities, p.Entities[i].Clone())
		}
	}
	out.Environment = cloneMap(p.Environment)
	out.RenderSettings = cloneMap(p.RenderSettings)
	out.Timeline = cloneMap(p.Timeline)
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
