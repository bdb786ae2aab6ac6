package loam

// PresetMetadata is the frontmatter of a preset document. The document
// body carries the human-readable description. It uses "mapstructure"
// tags to match the YAML frontmatter keys.
type PresetMetadata struct {
	ID      string   `json:"id" mapstructure:"id"`
	Name    string   `json:"name" mapstructure:"name"`
	Kind    string   `json:"kind" mapstructure:"kind"`
	FileURL string   `json:"fileUrl" mapstructure:"fileUrl"`
	Tags    []string `json:"tags" mapstructure:"tags"`

	// Default placement, each a [x, y, z] triple. Missing vectors fall
	// back to the identity transform.
	Position []float64 `json:"position" mapstructure:"position"`
	Rotation []float64 `json:"rotation" mapstructure:"rotation"`
	Scale    []float64 `json:"scale" mapstructure:"scale"`
}
