package scenesmith_test

import (
	"context"
	"fmt"
	"log"

	"github.com/scenesmith/scenesmith"
	"github.com/scenesmith/scenesmith/pkg/adapters/memory"
	"github.com/scenesmith/scenesmith/pkg/domain"
)

// ExampleNew_memory demonstrates the full editing loop against the
// in-memory adapters: spawn, generate, undo and redo without a rendering
// engine or a live provider.
func ExampleNew_memory() {
	// 1. Wire the editor with in-memory collaborators. The generator is
	// scripted so the produced URLs are predictable.
	scene := memory.NewScene()
	gen := memory.NewGenerator()
	gen.QueueImage("https://assets.invalid/oak.png", nil)
	gen.QueueModel("https://assets.invalid/oak.glb", nil)

	ed, err := scenesmith.New(scene, gen)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// 2. Create an entity and produce a 2D asset, then derive 3D from it.
	tree, err := ed.Spawn(ctx, domain.SpawnRequest{
		Kind: domain.KindGenerative,
		Name: "oak",
	})
	if err != nil {
		log.Fatal(err)
	}

	image, err := ed.GenerateImage(ctx, tree.UUID, "a gnarled oak", domain.ImageParams{})
	if err != nil {
		log.Fatal(err)
	}
	model, err := ed.GenerateModel(ctx, tree.UUID, "")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("image:", image.FileURL)
	fmt.Println("model:", model.FileURL)

	// 3. Undo removes the entity, redo brings it back with its full
	// generation history.
	if _, err := ed.Undo(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("after undo:", len(ed.Entities()), "entities")

	if _, err := ed.Redo(ctx); err != nil {
		log.Fatal(err)
	}
	history, err := ed.History(tree.UUID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("after redo:", history.Len(), "history entries")

	// Output:
	// image: https://assets.invalid/oak.png
	// model: https://assets.invalid/oak.glb
	// after undo: 0 entities
	// after redo: 2 history entries
}

// ExampleEditor_StepHistory shows cursor navigation over an entity's
// generation log: stepping back never loses newer entries.
func ExampleEditor_StepHistory() {
	gen := memory.NewGenerator()
	gen.QueueImage("https://assets.invalid/v1.png", nil)
	gen.QueueImage("https://assets.invalid/v2.png", nil)

	ed, err := scenesmith.New(memory.NewScene(), gen)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	tree, err := ed.Spawn(ctx, domain.SpawnRequest{Kind: domain.KindGenerative, Name: "oak"})
	if err != nil {
		log.Fatal(err)
	}
	v1, err := ed.GenerateImage(ctx, tree.UUID, "variant one", domain.ImageParams{})
	if err != nil {
		log.Fatal(err)
	}
	if _, err := ed.GenerateImage(ctx, tree.UUID, "variant two", domain.ImageParams{}); err != nil {
		log.Fatal(err)
	}

	// Step back to the first variant.
	if err := ed.StepHistory(ctx, tree.UUID, v1.ID); err != nil {
		log.Fatal(err)
	}

	history, err := ed.History(tree.UUID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("entries:", history.Len())
	fmt.Println("cursor at:", history.CurrentIndex()+1, "of", history.Len())

	// Output:
	// entries: 2
	// cursor at: 1 of 2
}
