/*
Package ports defines the driven ports (interfaces) for the scenesmith
editor core.

These interfaces decouple the core logic from external implementations,
allowing the editor to work with different rendering engines, generation
providers and storage backends.

# Key Interfaces

  - SceneAdapter: Drives the rendering engine (materialize, attach, show
    assets) without the core knowing about meshes or materials.
  - GenerationClient: Calls an asset generation provider (2D images, 3D
    models) with incremental progress reporting.
  - ProjectStore: Persists and loads whole exported scene documents.
  - AssetCatalog: Read-only library of spawnable presets.
  - DistributedLocker: Provides distributed locking for concurrent project
    access across replicas.
*/
package ports
