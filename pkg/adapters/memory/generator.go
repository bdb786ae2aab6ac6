package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

type genResult struct {
	url string
	err error
}

// Generator implements ports.GenerationClient with scripted results, so
// tests control exactly what each generation call produces.
//
// Results queued with QueueImage and QueueModel are consumed in order.
// With an empty queue, calls succeed with synthetic mem:// URLs.
type Generator struct {
	mu     sync.Mutex
	images []genResult
	models []genResult
	calls  int

	// ProgressMessages are reported through the progress callback before
	// each call resolves.
	ProgressMessages []string

	// Gate, when set, blocks each call until a value is received or the
	// context is cancelled. It makes in-flight windows deterministic.
	Gate chan struct{}
}

var _ ports.GenerationClient = (*Generator)(nil)

// NewGenerator creates a scripted generation client.
func NewGenerator() *Generator {
	return &Generator{}
}

// QueueImage enqueues the result of the next GenerateImage call.
func (g *Generator) QueueImage(url string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.images = append(g.images, genResult{url: url, err: err})
}

// QueueModel enqueues the result of the next GenerateModel call.
func (g *Generator) QueueModel(url string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.models = append(g.models, genResult{url: url, err: err})
}

// Calls returns how many generations were requested so far.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *Generator) GenerateImage(ctx context.Context, prompt string, params domain.ImageParams, progress ports.ProgressFunc) (string, error) {
	return g.resolve(ctx, "image", &g.images, progress)
}

func (g *Generator) GenerateModel(ctx context.Context, imageURL string, progress ports.ProgressFunc) (string, error) {
	return g.resolve(ctx, "model", &g.models, progress)
}

func (g *Generator) resolve(ctx context.Context, kind string, queue *[]genResult, progress ports.ProgressFunc) (string, error) {
	if progress != nil {
		for _, msg := range g.ProgressMessages {
			progress(msg)
		}
	}

	if g.Gate != nil {
		select {
		case <-g.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++

	if len(*queue) > 0 {
		next := (*queue)[0]
		*queue = (*queue)[1:]
		return next.url, next.err
	}
	return fmt.Sprintf("mem://%s-%d", kind, g.calls), nil
}
