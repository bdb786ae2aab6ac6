package ports

import (
	"context"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// ProgressFunc receives incremental progress messages while a generation is
// in flight. Implementations of GenerationClient may call it any number of
// times (including zero) before resolving; it is never called after return.
type ProgressFunc func(message string)

// GenerationClient defines the interface to an asset generation provider.
// Both calls block until the provider resolves and honor context
// cancellation. Providers report failure through the error return only;
// they never panic across this boundary.
type GenerationClient interface {
	// GenerateImage produces a 2D image from a text prompt and returns
	// the location of the produced asset.
	GenerateImage(ctx context.Context, prompt string, p domain.ImageParams, progress ProgressFunc) (fileURL string, err error)

	// GenerateModel converts a previously generated image into a 3D model
	// and returns the location of the produced asset.
	GenerateModel(ctx context.Context, imageURL string, progress ProgressFunc) (fileURL string, err error)
}
