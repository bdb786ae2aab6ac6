package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/scenesmith/scenesmith/internal/logging"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

// ErrLeaseReleased is returned by lease operations after Release.
var ErrLeaseReleased = errors.New("lease already released")

// DefaultLockTTL bounds how long a crashed replica can keep a project
// locked when a distributed locker is configured.
const DefaultLockTTL = 30 * time.Second

// lockEntry pairs the per-project mutex with a reference count so idle
// entries can be garbage collected from the table.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes project access. Each project name maps to one
// in-process mutex, and optionally to one distributed lock, so only a
// single writer edits a project at a time even across replicas.
type Manager struct {
	store ports.ProjectStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables cross-replica exclusion through a distributed
// locker.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL for the distributed lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for deferred errors such as failed lock
// releases.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager wraps a project store with checkout semantics.
func NewManager(store ports.ProjectStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire fetches or creates the lock entry for a name and bumps its
// reference count. Callers lock entry.mu afterwards and must pair this
// with release(name).
func (m *Manager) acquire(name string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[name]
	if !ok {
		entry = &lockEntry{}
		m.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release drops one reference and removes entries nobody waits on.
func (m *Manager) release(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[name]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, name)
	}
}

// lock takes the per-project mutex and, when configured, the distributed
// lock. The returned func undoes both.
func (m *Manager) lock(ctx context.Context, name string) (func(context.Context), error) {
	entry := m.acquire(name)
	entry.mu.Lock()

	var unlock ports.UnlockFunc
	if m.locker != nil {
		var err error
		unlock, err = m.locker.Lock(ctx, name, m.lockTTL)
		if err != nil {
			entry.mu.Unlock()
			m.release(name)
			return nil, fmt.Errorf("lock project %q: %w", name, err)
		}
	}

	return func(ctx context.Context) {
		if unlock != nil {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("distributed lock release failed, holding until TTL",
					"project", name,
					"err", err,
				)
			}
		}
		entry.mu.Unlock()
		m.release(name)
	}, nil
}

// Checkout loads a project and holds its lock until the lease is
// released. Concurrent checkouts of the same name block each other.
func (m *Manager) Checkout(ctx context.Context, name string) (*Lease, error) {
	return m.checkout(ctx, name, false)
}

// CheckoutOrCreate behaves like Checkout but initializes and immediately
// persists an empty project when the name does not exist yet, so the
// name is reserved before the caller starts editing.
func (m *Manager) CheckoutOrCreate(ctx context.Context, name string) (*Lease, error) {
	return m.checkout(ctx, name, true)
}

func (m *Manager) checkout(ctx context.Context, name string, create bool) (*Lease, error) {
	if name == "" {
		return nil, fmt.Errorf("project name required")
	}

	unlock, err := m.lock(ctx, name)
	if err != nil {
		return nil, err
	}

	project, err := m.store.Load(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProjectNotFound) && create:
		project = domain.NewProject(name)
		if err := m.store.Save(ctx, project); err != nil {
			unlock(ctx)
			return nil, fmt.Errorf("initialize project %q: %w", name, err)
		}
	default:
		unlock(ctx)
		return nil, err
	}

	return &Lease{manager: m, name: name, unlock: unlock, project: project}, nil
}

// Save persists a document under a short-lived lock. Blocks while a
// lease for the same project is outstanding.
func (m *Manager) Save(ctx context.Context, project *domain.Project) error {
	if project == nil || project.Name == "" {
		return fmt.Errorf("project with a name required")
	}
	unlock, err := m.lock(ctx, project.Name)
	if err != nil {
		return err
	}
	defer unlock(ctx)
	return m.store.Save(ctx, project)
}

// Load retrieves a document under a short-lived lock.
func (m *Manager) Load(ctx context.Context, name string) (*domain.Project, error) {
	unlock, err := m.lock(ctx, name)
	if err != nil {
		return nil, err
	}
	defer unlock(ctx)
	return m.store.Load(ctx, name)
}

// Delete removes a document under a short-lived lock.
func (m *Manager) Delete(ctx context.Context, name string) error {
	unlock, err := m.lock(ctx, name)
	if err != nil {
		return err
	}
	defer unlock(ctx)
	return m.store.Delete(ctx, name)
}

// List delegates to the store without locking.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store exposes the wrapped project store.
func (m *Manager) Store() ports.ProjectStore {
	return m.store
}

// Lease is an exclusive checkout of one project. The holder edits the
// document (typically by restoring it into an editor), commits any
// number of times, and finally releases.
type Lease struct {
	manager  *Manager
	name     string
	unlock   func(context.Context)
	project  *domain.Project
	released bool
}

// Name returns the checked-out project name.
func (l *Lease) Name() string {
	return l.name
}

// Project returns the document as of checkout time. Commits do not
// update it.
func (l *Lease) Project() *domain.Project {
	return l.project
}

// Commit saves a new revision of the document while keeping the lease.
// The document must carry the lease's project name.
func (l *Lease) Commit(ctx context.Context, project *domain.Project) error {
	if l.released {
		return ErrLeaseReleased
	}
	if project == nil || project.Name != l.name {
		return fmt.Errorf("lease is for project %q", l.name)
	}
	return l.manager.store.Save(ctx, project)
}

// Release unlocks the project. Further lease operations fail with
// ErrLeaseReleased. Releasing twice is a no-op.
func (l *Lease) Release(ctx context.Context) error {
	if l.released {
		return nil
	}
	l.released = true
	l.unlock(ctx)
	return nil
}
