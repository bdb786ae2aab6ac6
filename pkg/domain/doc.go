/*
Package domain contains the core domain models and business logic for the
scenesmith editor.

It defines the data the editor operates on: entity records, transforms,
per-entity generation histories with derivation links, processing states and
the persisted project document. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - EntityRecord: The serialized form of a scene object (kind, transform,
    parenting, bone attachment).
  - GenerationHistory: Append-only log of generated artifacts with a movable
    "current" cursor.
  - GenerationEntry: One produced artifact (image or model) with its
    optional derivation link.
  - ProcessingState: Ephemeral per-entity generation status, never
    persisted.
  - Project: The whole-scene persistence document.
*/
package domain
