/*
Package scenesmith is the headless core of a generative 3D scene editor: an
entity lifecycle engine with per-entity generation history, a bounded
undo/redo command stack and two-pass project serialization.

It separates WHAT the scene contains (entity records, generation logs,
transforms) from HOW it is displayed (a scene adapter you provide) and
WHERE assets come from (a generation client you provide). This Hexagonal
Architecture lets scenesmith drive any rendering engine and any provider:
an in-memory fake in tests, a WebSocket bridge to a browser viewport, or a
real text-to-image pipeline.

# Concept

Every entity carries an append-only generation log: each produced artifact
(2D image, 3D model) is recorded as an immutable entry, and a cursor marks
which entry is displayed. Stepping the cursor backwards never discards
entries, so earlier variants remain reachable forever and a new generation
after stepping back simply appends.

Editing operations (create, delete, transform) are commands on a bounded
undo stack. Generations are deliberately not commands: undoing scene edits
never erases produced assets, and rewinding generations happens through
the history cursor instead.

Projects serialize to a flat entity list with by-UUID references. Loading
materializes every entity in isolation first and wires parent and bone
attachments second, so reference order does not matter and one corrupt
entity never poisons the rest of the document.

# Usage

Construct an Editor with a scene adapter and an optional generation
client. The memory adapters are handy for tests and headless tools:

	package main

	import (
		"context"
		"log"

		"github.com/scenesmith/scenesmith"
		"github.com/scenesmith/scenesmith/pkg/adapters/memory"
		"github.com/scenesmith/scenesmith/pkg/domain"
	)

	func main() {
		ed, err := scenesmith.New(memory.NewScene(), memory.NewGenerator(),
			scenesmith.WithStore(memory.NewStore()),
		)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()

		// Create an entity and generate an asset for it.
		tree, err := ed.Spawn(ctx, domain.SpawnRequest{
			Kind: domain.KindGenerative,
			Name: "oak",
		})
		if err != nil {
			log.Fatal(err)
		}
		if _, err := ed.GenerateImage(ctx, tree.UUID, "a gnarled oak", domain.ImageParams{}); err != nil {
			log.Fatal(err)
		}

		// Persist and reload.
		if err := ed.SaveProject(ctx, "my-scene"); err != nil {
			log.Fatal(err)
		}
		if _, err := ed.LoadProject(ctx, "my-scene"); err != nil {
			log.Fatal(err)
		}
	}

The pkg/ports package defines the SceneAdapter, GenerationClient and
ProjectStore contracts along with reusable contract test suites for
custom implementations.
*/
package scenesmith
