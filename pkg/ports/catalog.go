package ports

import (
	"context"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// Preset is a ready-made entity definition from an asset library: a named
// kind plus the asset and placement defaults to spawn it with.
type Preset struct {
	ID          string
	Name        string
	Description string
	Kind        domain.EntityKind
	FileURL     string
	Tags        []string
	Transform   domain.Transform
}

// AssetCatalog defines a read-only library of presets the editor can spawn
// entities from.
type AssetCatalog interface {
	// Get retrieves a preset by ID.
	Get(ctx context.Context, id string) (*Preset, error)

	// List returns all presets in the catalog.
	List(ctx context.Context) ([]Preset, error)
}

// Watchable defines an interface for catalogs that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying library changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
