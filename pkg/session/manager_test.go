package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenesmith/scenesmith/pkg/adapters/memory"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
	"github.com/scenesmith/scenesmith/pkg/session"
)

// slowStore adds latency in front of a real store to widen race windows
// that missing locks would expose.
type slowStore struct {
	inner ports.ProjectStore
}

func (s *slowStore) Save(ctx context.Context, project *domain.Project) error {
	time.Sleep(5 * time.Millisecond)
	return s.inner.Save(ctx, project)
}

func (s *slowStore) Load(ctx context.Context, name string) (*domain.Project, error) {
	time.Sleep(5 * time.Millisecond)
	return s.inner.Load(ctx, name)
}

func (s *slowStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

func (s *slowStore) List(ctx context.Context) ([]string, error) {
	return s.inner.List(ctx)
}

// recordingLocker counts distributed lock traffic.
type recordingLocker struct {
	mu      sync.Mutex
	locks   int
	unlocks int
	ttl     time.Duration
}

func (r *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	r.mu.Lock()
	r.locks++
	r.ttl = ttl
	r.mu.Unlock()
	return func(ctx context.Context) error {
		r.mu.Lock()
		r.unlocks++
		r.mu.Unlock()
		return nil
	}, nil
}

func TestManager_SerializesConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(&slowStore{inner: memory.NewStore()})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := mgr.Save(ctx, domain.NewProject("race"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	names, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"race"}, names)
}

func TestManager_CheckoutExcludesSecondHolder(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(memory.NewStore())

	lease, err := mgr.CheckoutOrCreate(ctx, "fortress")
	require.NoError(t, err)

	acquired := make(chan *session.Lease)
	go func() {
		second, err := mgr.Checkout(ctx, "fortress")
		assert.NoError(t, err)
		acquired <- second
	}()

	select {
	case <-acquired:
		t.Fatal("second checkout proceeded while the lease was held")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, lease.Release(ctx))

	select {
	case second := <-acquired:
		require.NoError(t, second.Release(ctx))
	case <-time.After(2 * time.Second):
		t.Fatal("second checkout never proceeded after release")
	}
}

func TestManager_CheckoutOrCreate_ReservesName(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(&slowStore{inner: memory.NewStore()})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lease, err := mgr.CheckoutOrCreate(ctx, "atomic-init")
			assert.NoError(t, err)
			if lease != nil {
				assert.NoError(t, lease.Release(ctx))
			}
		}()
	}
	wg.Wait()

	project, err := mgr.Load(ctx, "atomic-init")
	require.NoError(t, err)
	assert.Equal(t, "atomic-init", project.Name)
	assert.Empty(t, project.Entities)
}

func TestManager_Checkout_MissingProject(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(memory.NewStore())

	_, err := mgr.Checkout(ctx, "never-saved")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestLease_CommitPersistsRevisions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mgr := session.NewManager(store)

	lease, err := mgr.CheckoutOrCreate(ctx, "harbor")
	require.NoError(t, err)
	assert.Equal(t, "harbor", lease.Name())
	assert.Empty(t, lease.Project().Entities)

	// 1. Commit a revision with one entity while holding the lease.
	revised := domain.NewProject("harbor")
	revised.Entities = []domain.EntityRecord{{
		UUID:      uuid.New(),
		Kind:      domain.KindShape,
		Name:      "pier",
		Transform: domain.IdentityTransform(),
	}}
	require.NoError(t, lease.Commit(ctx, revised))

	// 2. A document for another project is rejected.
	err = lease.Commit(ctx, domain.NewProject("elsewhere"))
	assert.Error(t, err)

	require.NoError(t, lease.Release(ctx))

	// 3. After release the revision is visible to everyone.
	loaded, err := mgr.Load(ctx, "harbor")
	require.NoError(t, err)
	require.Len(t, loaded.Entities, 1)
	assert.Equal(t, "pier", loaded.Entities[0].Name)

	// 4. The lease is dead after release.
	assert.ErrorIs(t, lease.Commit(ctx, revised), session.ErrLeaseReleased)
	assert.NoError(t, lease.Release(ctx))
}

func TestManager_DistributedLockerWrapsEveryOperation(t *testing.T) {
	ctx := context.Background()
	locker := &recordingLocker{}
	mgr := session.NewManager(memory.NewStore(),
		session.WithLocker(locker),
		session.WithLockTTL(5*time.Second),
	)

	require.NoError(t, mgr.Save(ctx, domain.NewProject("guarded")))

	lease, err := mgr.Checkout(ctx, "guarded")
	require.NoError(t, err)
	require.NoError(t, lease.Release(ctx))

	locker.mu.Lock()
	defer locker.mu.Unlock()
	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, 2, locker.unlocks)
	assert.Equal(t, 5*time.Second, locker.ttl)
}
