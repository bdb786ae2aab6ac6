package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenesmith/scenesmith/pkg/adapters/memory"
	"github.com/scenesmith/scenesmith/pkg/domain"
)

func TestGenerator_QueuedResultsConsumedInOrder(t *testing.T) {
	gen := memory.NewGenerator()
	gen.QueueImage("mem://first.png", nil)
	gen.QueueImage("", errors.New("quota exceeded"))

	ctx := context.Background()

	url, err := gen.GenerateImage(ctx, "a tree", domain.ImageParams{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mem://first.png", url)

	_, err = gen.GenerateImage(ctx, "a tree", domain.ImageParams{}, nil)
	require.Error(t, err)

	// Queue drained, synthetic URLs take over.
	url, err = gen.GenerateImage(ctx, "a tree", domain.ImageParams{}, nil)
	require.NoError(t, err)
	assert.Contains(t, url, "mem://image-")
	assert.Equal(t, 3, gen.Calls())
}

func TestGenerator_ReportsProgress(t *testing.T) {
	gen := memory.NewGenerator()
	gen.ProgressMessages = []string{"queued", "rendering"}

	var seen []string
	_, err := gen.GenerateModel(context.Background(), "mem://src.png", func(msg string) {
		seen = append(seen, msg)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"queued", "rendering"}, seen)
}

func TestGenerator_GateHonorsContext(t *testing.T) {
	gen := memory.NewGenerator()
	gen.Gate = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.GenerateImage(ctx, "a tree", domain.ImageParams{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
