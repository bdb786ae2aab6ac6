// Package loam adapts a Loam repository of markdown preset documents to
// the ports.AssetCatalog interface. Each preset is one markdown file:
// YAML frontmatter for the metadata, body for the description. Editing
// the library on disk is picked up through Watch.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

// Catalog implements ports.AssetCatalog over a typed Loam repository.
type Catalog struct {
	Repo *loam.TypedRepository[PresetMetadata]
}

var (
	_ ports.AssetCatalog = (*Catalog)(nil)
	_ ports.Watchable    = (*Catalog)(nil)
)

// New wraps an already initialized typed repository.
func New(repo *loam.TypedRepository[PresetMetadata]) *Catalog {
	return &Catalog{Repo: repo}
}

// Open initializes a Loam repository rooted at the given directory and
// returns a catalog over it. Read-only mode avoids Loam's sandbox
// behavior, since the editor never writes to the library. Strict mode
// stays off so the placement triples decode as plain floats.
func Open(root string) (*Catalog, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("catalog: invalid path %q: %w", root, err)
	}

	repo, err := loam.Init(absPath, loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("catalog: initialize library at %q: %w", absPath, err)
	}

	return New(loam.NewTypedRepository[PresetMetadata](repo)), nil
}

// Get retrieves one preset by ID. Loam resolves path-derived IDs
// directly; IDs declared in frontmatter are found by a scan, since the
// library is small and the declared ID may not match the filename.
func (c *Catalog) Get(ctx context.Context, id string) (*ports.Preset, error) {
	doc, err := c.Repo.Get(ctx, id)
	if err != nil {
		if preset := c.findDeclared(ctx, id); preset != nil {
			return preset, nil
		}
		return nil, fmt.Errorf("catalog: get preset %q: %w", id, err)
	}
	return c.convert(doc.ID, doc.Data, doc.Content)
}

func (c *Catalog) findDeclared(ctx context.Context, id string) *ports.Preset {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil
	}
	for _, doc := range docs {
		if doc.Data.ID != id {
			continue
		}
		preset, err := c.convert(doc.ID, doc.Data, doc.Content)
		if err != nil {
			return nil
		}
		return preset
	}
	return nil
}

// List returns every preset in the library, sorted by ID.
func (c *Catalog) List(ctx context.Context) ([]ports.Preset, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list presets: %w", err)
	}

	presets := make([]ports.Preset, 0, len(docs))
	seen := make(map[string]string, len(docs))
	for _, doc := range docs {
		preset, err := c.convert(doc.ID, doc.Data, doc.Content)
		if err != nil {
			return nil, err
		}
		if previous, ok := seen[preset.ID]; ok {
			return nil, fmt.Errorf("catalog: preset ID %q defined in both %q and %q", preset.ID, previous, doc.ID)
		}
		seen[preset.ID] = doc.ID
		presets = append(presets, *preset)
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, nil
}

// Watch signals whenever a library file changes, so callers can refresh
// cached listings. Event details are collapsed to a bare tick.
func (c *Catalog) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := c.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("catalog: start library watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: a tick already pending is enough.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}

func (c *Catalog) convert(docID string, meta PresetMetadata, content string) (*ports.Preset, error) {
	id := meta.ID
	if id == "" {
		id = docID
	}
	id = trimExtension(id)

	kind := domain.EntityKind(meta.Kind)
	if meta.Kind == "" {
		kind = domain.KindGenerative
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("catalog: preset %q: unknown kind %q", id, meta.Kind)
	}

	transform := domain.IdentityTransform()
	if err := applyVec(&transform.Position, meta.Position, "position", id); err != nil {
		return nil, err
	}
	if err := applyVec(&transform.Rotation, meta.Rotation, "rotation", id); err != nil {
		return nil, err
	}
	if err := applyVec(&transform.Scale, meta.Scale, "scale", id); err != nil {
		return nil, err
	}

	name := meta.Name
	if name == "" {
		name = id
	}

	return &ports.Preset{
		ID:          id,
		Name:        name,
		Description: strings.TrimSpace(content),
		Kind:        kind,
		FileURL:     meta.FileURL,
		Tags:        meta.Tags,
		Transform:   transform,
	}, nil
}

func applyVec(dst *domain.Vec3, values []float64, field, presetID string) error {
	switch len(values) {
	case 0:
		return nil
	case 3:
		dst.X, dst.Y, dst.Z = values[0], values[1], values[2]
		return nil
	default:
		return fmt.Errorf("catalog: preset %q: %s needs 3 components, got %d", presetID, field, len(values))
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
