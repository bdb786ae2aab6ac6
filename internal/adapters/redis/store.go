// Package redis implements the project store and the distributed locker
// on Redis, for deployments where several editor replicas share state.
//
// Projects are stored as JSON strings under a configurable key prefix. A
// ZSET index keyed by expiry deadline keeps List cheap and lets expired
// documents fall out of the index lazily instead of requiring a keyspace
// scan.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// Store implements ports.ProjectStore on a Redis backend.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL expires saved projects after the given duration. Zero keeps
// them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix overrides the key prefix shared by all documents and the
// index.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects to Redis at the given address and returns a Store.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient wraps an existing client, which the caller may share
// with the Locker.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "scenesmith:project:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save writes the document and registers it in the name index in one
// pipeline round trip.
func (s *Store) Save(ctx context.Context, project *domain.Project) error {
	if project == nil || project.Name == "" {
		return fmt.Errorf("redis store: project with a name required")
	}

	data, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("redis store: marshal project %q: %w", project.Name, err)
	}

	// Index score is the expiry deadline so List can prune lazily.
	// Non-expiring documents sort at +Inf and are never pruned.
	deadline := math.Inf(1)
	if s.ttl > 0 {
		deadline = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(project.Name), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: deadline, Member: project.Name})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: save project %q: %w", project.Name, err)
	}
	return nil
}

// Load retrieves and decodes a document. Expired documents report the
// same way as missing ones.
func (s *Store) Load(ctx context.Context, name string) (*domain.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("redis store: project name required")
	}

	val, err := s.client.Get(ctx, s.key(name)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, fmt.Errorf("project %q: %w", name, domain.ErrProjectNotFound)
		}
		return nil, fmt.Errorf("redis store: load project %q: %w", name, err)
	}

	var project domain.Project
	if err := json.Unmarshal([]byte(val), &project); err != nil {
		return nil, fmt.Errorf("redis store: decode project %q: %w", name, err)
	}
	return &project, nil
}

// Delete removes the document and its index entry. Missing projects are
// ignored.
func (s *Store) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("redis store: project name required")
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(name))
	pipe.ZRem(ctx, s.indexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store: delete project %q: %w", name, err)
	}
	return nil
}

// List returns the names of stored projects, pruning index entries whose
// documents have expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := fmt.Sprintf("%f", float64(time.Now().Unix()))
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("redis store: prune expired projects: %w", err)
	}

	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis store: list projects: %w", err)
	}
	return names, nil
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
