package ports

import (
	"context"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// ProjectStore defines the interface for persisting exported scene
// documents. Documents are stored whole under their name; there is no
// delta or version-chain mechanism.
type ProjectStore interface {
	// Save persists the document under project.Name, overwriting any
	// previous document of the same name.
	Save(ctx context.Context, project *domain.Project) error

	// Load retrieves the document for a given project name.
	// Returns domain.ErrProjectNotFound if the project does not exist.
	Load(ctx context.Context, name string) (*domain.Project, error)

	// Delete removes the document for a given project name. Deleting a
	// missing project is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored projects.
	List(ctx context.Context) ([]string, error)
}
