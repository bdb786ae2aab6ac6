package tests

import (
	"context"
	"testing"

	"github.com/scenesmith/scenesmith/pkg/ports"
)

// AssetCatalogContractTest is a reusable test suite that verifies if an adapter complies with ports.AssetCatalog.
// expected maps preset IDs to the file URL each preset should resolve to.
func AssetCatalogContractTest(t *testing.T, catalog ports.AssetCatalog, expected map[string]string) {
	t.Helper()
	ctx := context.Background()

	// 1. Test Get (Success)
	t.Run("Get_Success", func(t *testing.T) {
		for id, fileURL := range expected {
			preset, err := catalog.Get(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error getting preset %s: %v", id, err)
			}
			if preset.ID != id {
				t.Errorf("id mismatch. got %q, want %q", preset.ID, id)
			}
			if preset.FileURL != fileURL {
				t.Errorf("file url mismatch for %s. got %q, want %q", id, preset.FileURL, fileURL)
			}
			if !preset.Kind.Valid() {
				t.Errorf("preset %s has unknown kind %q", id, preset.Kind)
			}
		}
	})

	// 2. Test Get (NotFound)
	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := catalog.Get(ctx, "non-existent-preset")
		if err == nil {
			t.Error("expected error for non-existent preset, got nil")
		}
	})

	// 3. Test List
	t.Run("List", func(t *testing.T) {
		presets, err := catalog.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing presets: %v", err)
		}

		if len(presets) != len(expected) {
			t.Errorf("expected %d presets, got %d", len(expected), len(presets))
		}

		// Verify all expected IDs are present
		lookup := make(map[string]bool)
		for _, p := range presets {
			lookup[p.ID] = true
		}

		for id := range expected {
			if !lookup[id] {
				t.Errorf("preset %s missing from list", id)
			}
		}
	})
}
