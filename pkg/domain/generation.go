package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssetKind defines the type of artifact a generation produced.
type AssetKind string

const (
	AssetImage AssetKind = "image" // 2D image generated from a text prompt
	AssetModel AssetKind = "model" // 3D model derived from an image
)

// Valid reports whether k is a known asset kind.
func (k AssetKind) Valid() bool {
	return k == AssetImage || k == AssetModel
}

// ImageParams holds the parameters of an image generation. Present only on
// entries of kind AssetImage.
type ImageParams struct {
	Ratio          string `json:"ratio,omitempty"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
}

// GenerationEntry is one produced artifact in an entity's generation log.
// Entries are immutable once appended.
type GenerationEntry struct {
	// ID is an opaque unique identifier for the entry.
	ID string `json:"id"`

	// CreatedAt is the creation time of the artifact.
	CreatedAt time.Time `json:"timestamp"`

	// Prompt is the text used to produce the artifact. Empty for entries
	// that were not derived from text (e.g. models derived from images).
	Prompt string `json:"prompt,omitempty"`

	// Kind discriminates between image and model artifacts.
	Kind AssetKind `json:"assetType"`

	// FileURL locates the produced asset. It may be a remote URL or a
	// locally addressable blob reference.
	FileURL string `json:"fileUrl"`

	// DerivedFrom optionally references the entry this one was derived
	// from (a model converted from an image). At most one parent per
	// entry; multiple entries may share the same parent.
	DerivedFrom string `json:"derivedFromId,omitempty"`

	// Image holds image-only generation parameters.
	Image *ImageParams `json:"imageParams,omitempty"`
}

// newImageEntry builds a root image entry with a fresh identity.
func newImageEntry(prompt, fileURL string, p ImageParams) GenerationEntry {
	e := GenerationEntry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Prompt:    prompt,
		Kind:      AssetImage,
		FileURL:   fileURL,
	}
	if p != (ImageParams{}) {
		cp := p
		e.Image = &cp
	}
	return e
}

// newModelEntry builds a model entry derived from an existing entry.
func newModelEntry(fileURL, derivedFrom string) GenerationEntry {
	return GenerationEntry{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Kind:        AssetModel,
		FileURL:     fileURL,
		DerivedFrom: derivedFrom,
	}
}
