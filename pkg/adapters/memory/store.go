package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jinzhu/copier"

	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

// Store implements ports.ProjectStore in memory, keyed by project name.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Project
	mu   sync.RWMutex
}

var _ ports.ProjectStore = (*Store)(nil)

// NewStore creates a new in-memory project store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Project),
	}
}

// Save persists a deep copy of the project so later mutations by the
// caller cannot leak into the store.
func (s *Store) Save(ctx context.Context, project *domain.Project) error {
	if project == nil || project.Name == "" {
		return fmt.Errorf("memory store: project with a name required")
	}

	copied, err := deepCopy(project)
	if err != nil {
		return fmt.Errorf("memory store: copy project %q: %w", project.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[project.Name] = copied
	return nil
}

// Load retrieves a project. The returned value is a copy, so callers can't
// mutate the stored document through the pointer.
func (s *Store) Load(ctx context.Context, name string) (*domain.Project, error) {
	s.mu.RLock()
	project, ok := s.data[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("project %q: %w", name, domain.ErrProjectNotFound)
	}

	copied, err := deepCopy(project)
	if err != nil {
		return nil, fmt.Errorf("memory store: copy project %q: %w", name, err)
	}
	return copied, nil
}

// Delete removes the project. Deleting a missing project is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the names of stored projects.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	return names, nil
}

func deepCopy(project *domain.Project) (*domain.Project, error) {
	var copied domain.Project
	err := copier.CopyWithOption(&copied, project, copier.Option{
		CaseSensitive: true,
		DeepCopy:      true,
	})
	if err != nil {
		return nil, err
	}
	return &copied, nil
}
