// Package generation hosts outbound clients for asset generation
// providers. Each provider subpackage implements ports.GenerationClient
// for one backend; Composite stitches two halves together when images
// and models come from different services.
package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

// ErrUnsupported reports that a provider cannot serve the requested
// asset kind. Providers return it wrapped so callers can test with
// errors.Is.
var ErrUnsupported = errors.New("operation not supported by this provider")

// Composite routes image generations to one client and model
// generations to another. Either side may be nil, in which case calls
// for that kind fail with ErrUnsupported.
type Composite struct {
	Image ports.GenerationClient
	Model ports.GenerationClient
}

var _ ports.GenerationClient = Composite{}

// GenerateImage forwards to the image client.
func (c Composite) GenerateImage(ctx context.Context, prompt string, p domain.ImageParams, progress ports.ProgressFunc) (string, error) {
	if c.Image == nil {
		return "", fmt.Errorf("generation: image: %w", ErrUnsupported)
	}
	return c.Image.GenerateImage(ctx, prompt, p, progress)
}

// GenerateModel forwards to the model client.
func (c Composite) GenerateModel(ctx context.Context, imageURL string, progress ports.ProgressFunc) (string, error) {
	if c.Model == nil {
		return "", fmt.Errorf("generation: model: %w", ErrUnsupported)
	}
	return c.Model.GenerateModel(ctx, imageURL, progress)
}
