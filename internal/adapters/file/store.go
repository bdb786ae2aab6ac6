// Package file implements ports.ProjectStore on the local filesystem.
//
// Each project is one pretty-printed JSON document in a configured
// directory. Saves are atomic: the document is written to a temp file in
// the same directory, fsynced, and renamed over the destination, so a
// crash mid-save never leaves a truncated project behind.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

const ext = ".json"

// Store persists projects as JSON files under BasePath.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath. An empty basePath defaults to
// ".scenesmith/projects" relative to the working directory.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".scenesmith", "projects")
	}
	return &Store{BasePath: basePath}
}

// fileName maps a project name to a filesystem-safe file name. Names are
// percent-encoded so separators and dots cannot escape BasePath, and the
// encoding round-trips through List.
func fileName(name string) string {
	return url.PathEscape(name) + ext
}

// projectName reverses fileName. The second return is false for entries
// that were not written by this store.
func projectName(file string) (string, bool) {
	if !strings.HasSuffix(file, ext) {
		return "", false
	}
	name, err := url.PathUnescape(strings.TrimSuffix(file, ext))
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// Save writes the project document atomically.
func (s *Store) Save(ctx context.Context, project *domain.Project) error {
	if project == nil || project.Name == "" {
		return fmt.Errorf("file store: project with a name required")
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("file store: ensure project directory: %w", err)
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: marshal project %q: %w", project.Name, err)
	}

	destPath := filepath.Join(s.BasePath, fileName(project.Name))

	// The temp file lives in the destination directory so the final
	// rename stays on one filesystem.
	tmp, err := os.CreateTemp(s.BasePath, "tmp-project-*"+ext)
	if err != nil {
		return fmt.Errorf("file store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("file store: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("file store: fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close temp file: %w", err)
	}

	// Windows also refuses to rename over an existing file, so clear the
	// destination first. The remove+rename window is narrow and strictly
	// better than a partially written document.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("file store: replace project %q: %w", project.Name, err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("file store: finalize project %q: %w", project.Name, err)
	}
	return nil
}

// Load reads a project document back from disk.
func (s *Store) Load(ctx context.Context, name string) (*domain.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("file store: project name required")
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, fileName(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("project %q: %w", name, domain.ErrProjectNotFound)
		}
		return nil, fmt.Errorf("file store: read project %q: %w", name, err)
	}

	var project domain.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("file store: decode project %q: %w", name, err)
	}
	return &project, nil
}

// Delete removes the project file. Missing files are ignored.
func (s *Store) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("file store: project name required")
	}

	err := os.Remove(filepath.Join(s.BasePath, fileName(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("file store: delete project %q: %w", name, err)
	}
	return nil
}

// List returns the decoded names of all project files under BasePath.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("file store: list projects: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "tmp-") {
			continue
		}
		if name, ok := projectName(entry.Name()); ok {
			names = append(names, name)
		}
	}
	return names, nil
}
