// Package memory provides in-memory implementations of the editor's
// collaborator ports: a scene adapter, a project store and a scripted
// generation client. They back tests, examples and headless usage.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

type sceneEntity struct {
	kind      domain.EntityKind
	transform domain.Transform
	visible   bool
	parent    uuid.UUID
	bone      *domain.BoneAttachment
	shown     *domain.GenerationEntry
	rotations map[string]domain.Vec3
	disposed  bool
}

// Scene implements ports.SceneAdapter with plain bookkeeping instead of a
// rendering engine. Safe for concurrent use.
//
// Characters receive the bones listed in DefaultSkeleton when they are
// materialized; bone operations against names outside the skeleton fail,
// which is how restore tests exercise name matching.
type Scene struct {
	mu        sync.Mutex
	entities  map[uuid.UUID]*sceneEntity
	skeletons map[uuid.UUID]map[string]bool

	// DefaultSkeleton is granted to every character on materialize.
	DefaultSkeleton []string

	// FailMaterialize, when set, is consulted first by Materialize.
	// Returning an error simulates an asset fetch failure for that record.
	FailMaterialize func(record domain.EntityRecord) error

	// FailShowAsset, when set, is consulted first by ShowAsset.
	FailShowAsset func(id uuid.UUID, entry domain.GenerationEntry) error
}

var _ ports.SceneAdapter = (*Scene)(nil)

// NewScene creates an empty in-memory scene.
func NewScene() *Scene {
	return &Scene{
		entities:  make(map[uuid.UUID]*sceneEntity),
		skeletons: make(map[uuid.UUID]map[string]bool),
	}
}

// Materialize constructs the entity with its record transform, visible and
// unparented. Wiring happens through Attach calls afterwards.
func (s *Scene) Materialize(ctx context.Context, record domain.EntityRecord) error {
	if s.FailMaterialize != nil {
		if err := s.FailMaterialize(record); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entities[record.UUID]; ok && !ent.disposed {
		return fmt.Errorf("entity %s already materialized", record.UUID)
	}
	s.entities[record.UUID] = &sceneEntity{
		kind:      record.Kind,
		transform: record.Transform,
		visible:   true,
		rotations: make(map[string]domain.Vec3),
	}
	if record.Kind.HasSkeleton() {
		bones := make(map[string]bool, len(s.DefaultSkeleton))
		for _, b := range s.DefaultSkeleton {
			bones[b] = true
		}
		s.skeletons[record.UUID] = bones
	}
	return nil
}

// SetSkeleton replaces a character's bone set, overriding DefaultSkeleton.
func (s *Scene) SetSkeleton(id uuid.UUID, bones ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[string]bool, len(bones))
	for _, b := range bones {
		set[b] = true
	}
	s.skeletons[id] = set
}

func (s *Scene) Attach(child, parent uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.liveLocked(child)
	if err != nil {
		return err
	}
	if _, err := s.liveLocked(parent); err != nil {
		return err
	}
	c.parent = parent
	c.bone = nil
	return nil
}

func (s *Scene) AttachToBone(child, character uuid.UUID, bone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.liveLocked(child)
	if err != nil {
		return err
	}
	if _, err := s.liveLocked(character); err != nil {
		return err
	}
	if !s.skeletons[character][bone] {
		return fmt.Errorf("character %s has no bone %q", character, bone)
	}
	c.bone = &domain.BoneAttachment{CharacterID: character, Bone: bone}
	c.parent = uuid.Nil
	return nil
}

func (s *Scene) Detach(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, err := s.liveLocked(id)
	if err != nil {
		return err
	}
	ent.parent = uuid.Nil
	ent.bone = nil
	return nil
}

func (s *Scene) SetTransform(id uuid.UUID, t domain.Transform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, err := s.liveLocked(id)
	if err != nil {
		return err
	}
	ent.transform = t
	return nil
}

func (s *Scene) Transform(id uuid.UUID) (domain.Transform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, err := s.liveLocked(id)
	if err != nil {
		return domain.Transform{}, err
	}
	return ent.transform, nil
}

func (s *Scene) SetVisible(id uuid.UUID, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, err := s.liveLocked(id)
	if err != nil {
		return err
	}
	ent.visible = visible
	return nil
}

func (s *Scene) Visible(id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, err := s.liveLocked(id)
	if err != nil {
		return false, err
	}
	return ent.visible, nil
}

// ShowAsset records the entry as the entity's displayed asset. Hidden
// entities accept it too: a generation landing on a hidden entity is not
// an error.
func (s *Scene) ShowAsset(ctx context.Context, id uuid.UUID, entry domain.GenerationEntry) error {
	if s.FailShowAsset != nil {
		if err := s.FailShowAsset(id, entry); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, err := s.liveLocked(id)
	if err != nil {
		return err
	}
	cp := entry
	ent.shown = &cp
	return nil
}

func (s *Scene) ApplyBoneRotation(character uuid.UUID, bone string, rotation domain.Vec3) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, err := s.liveLocked(character)
	if err != nil {
		return err
	}
	if !s.skeletons[character][bone] {
		return fmt.Errorf("character %s has no bone %q", character, bone)
	}
	ent.rotations[bone] = rotation
	return nil
}

func (s *Scene) Dispose(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entities[id]
	if !ok {
		return fmt.Errorf("entity %s: %w", id, domain.ErrEntityNotFound)
	}
	ent.disposed = true
	delete(s.skeletons, id)
	return nil
}

func (s *Scene) liveLocked(id uuid.UUID) (*sceneEntity, error) {
	ent, ok := s.entities[id]
	if !ok || ent.disposed {
		return nil, fmt.Errorf("entity %s: %w", id, domain.ErrEntityNotFound)
	}
	return ent, nil
}

// Inspection helpers for tests and examples.

// Shown returns the entry currently displayed for the entity.
func (s *Scene) Shown(id uuid.UUID) (domain.GenerationEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entities[id]
	if !ok || ent.shown == nil {
		return domain.GenerationEntry{}, false
	}
	return *ent.shown, true
}

// ParentOf returns the entity's plain parent, or uuid.Nil.
func (s *Scene) ParentOf(id uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ent, ok := s.entities[id]; ok {
		return ent.parent
	}
	return uuid.Nil
}

// BoneOf returns the entity's bone attachment, or nil.
func (s *Scene) BoneOf(id uuid.UUID) *domain.BoneAttachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entities[id]
	if !ok || ent.bone == nil {
		return nil
	}
	cp := *ent.bone
	return &cp
}

// Rotation returns the posed rotation of one bone.
func (s *Scene) Rotation(id uuid.UUID, bone string) (domain.Vec3, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entities[id]
	if !ok {
		return domain.Vec3{}, false
	}
	rot, ok := ent.rotations[bone]
	return rot, ok
}

// Disposed reports whether the entity's resources were released.
func (s *Scene) Disposed(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entities[id]
	return ok && ent.disposed
}

// Live counts entities that are materialized and not disposed.
func (s *Scene) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ent := range s.entities {
		if !ent.disposed {
			n++
		}
	}
	return n
}
