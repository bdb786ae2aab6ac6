// Package testutils carries shared fixtures for adapter tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo initializes a Loam repository in a fresh temporary
// directory and returns its absolute path plus the repository. The test
// fails immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	// t.TempDir usually returns an absolute path already, but Loam
	// insists on one, so normalize.
	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "resolve temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "init loam repo")

	return absPath, repo
}

// WriteMarkdown drops a markdown document at rel under root, creating
// intermediate directories. Used to author library fixtures the way a
// user would: frontmatter plus body, straight on disk.
func WriteMarkdown(t *testing.T, root, rel, content string) {
	t.Helper()

	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
