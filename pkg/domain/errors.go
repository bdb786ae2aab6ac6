package domain

import "errors"

// ErrEntityNotFound is returned when an entity UUID cannot be resolved in
// the live scene.
var ErrEntityNotFound = errors.New("entity not found")

// ErrUnknownDerivation is returned when a model entry references a
// derivation source that is not present in the entity's generation log.
var ErrUnknownDerivation = errors.New("unknown derivation source")

// ErrGenerationInFlight is returned when a generation is requested on an
// entity that already has one in flight.
var ErrGenerationInFlight = errors.New("generation already in flight")

// ErrGenerationUnsupported is returned when generation is requested on an
// entity kind that carries no generation history.
var ErrGenerationUnsupported = errors.New("entity kind does not support generation")

// ErrBoneTargetNotCharacter is returned when a bone attachment names an
// entity that is not a character.
var ErrBoneTargetNotCharacter = errors.New("bone attachment target is not a character")

// ErrProjectNotFound is returned when a project name cannot be found in a
// store.
var ErrProjectNotFound = errors.New("project not found")
