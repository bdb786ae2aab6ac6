package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/scenesmith/scenesmith/pkg/ports"
)

// Catalog implements ports.AssetCatalog using an in-memory map.
type Catalog struct {
	presets map[string]ports.Preset
}

var _ ports.AssetCatalog = (*Catalog)(nil)

// NewCatalog creates a catalog from the provided presets.
// Presets without an ID are rejected.
func NewCatalog(presets ...ports.Preset) (*Catalog, error) {
	byID := make(map[string]ports.Preset, len(presets))
	for _, p := range presets {
		if p.ID == "" {
			return nil, fmt.Errorf("preset %q missing ID", p.Name)
		}
		byID[p.ID] = p
	}
	return &Catalog{presets: byID}, nil
}

// Get retrieves a preset by ID.
func (c *Catalog) Get(ctx context.Context, id string) (*ports.Preset, error) {
	preset, ok := c.presets[id]
	if !ok {
		return nil, fmt.Errorf("preset not found: %s", id)
	}
	return &preset, nil
}

// List returns all presets sorted by ID for deterministic order.
func (c *Catalog) List(ctx context.Context) ([]ports.Preset, error) {
	out := make([]ports.Preset, 0, len(c.presets))
	for _, p := range c.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
