package status

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

func TestTracker_BeginProgressEnd(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()

	assert.Equal(t, domain.PhaseIdle, tr.State(id).Phase, "unknown entities read as idle")

	require.NoError(t, tr.Begin(id, domain.PhaseGeneratingImage, "queued"))
	s := tr.State(id)
	assert.Equal(t, domain.PhaseGeneratingImage, s.Phase)
	assert.Equal(t, "queued", s.Message)

	tr.Progress(id, "rendering 40%")
	s = tr.State(id)
	assert.Equal(t, domain.PhaseGeneratingImage, s.Phase, "progress never changes phase")
	assert.Equal(t, "rendering 40%", s.Message)

	tr.End(id)
	s = tr.State(id)
	assert.Equal(t, domain.PhaseIdle, s.Phase)
	assert.Empty(t, s.Message)
}

func TestTracker_BeginGuards(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()

	require.NoError(t, tr.Begin(id, domain.PhaseGeneratingImage, ""))

	// A second generation on the same entity is refused.
	err := tr.Begin(id, domain.PhaseGeneratingModel, "")
	assert.ErrorIs(t, err, domain.ErrGenerationInFlight)

	// Both phases always return through idle first.
	tr.End(id)
	assert.NoError(t, tr.Begin(id, domain.PhaseGeneratingModel, ""))

	// Other entities stay independently operable.
	other := uuid.New()
	assert.NoError(t, tr.Begin(other, domain.PhaseGeneratingImage, ""))

	// Idle is not a phase a generation can begin in.
	assert.Error(t, tr.Begin(uuid.New(), domain.PhaseIdle, ""))
}

func TestTracker_Fail(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()

	require.NoError(t, tr.Begin(id, domain.PhaseGeneratingModel, ""))
	tr.Fail(id, "provider timeout")

	s := tr.State(id)
	assert.Equal(t, domain.PhaseIdle, s.Phase, "failure still ends in idle")
	assert.Equal(t, "provider timeout", s.Message)
}

func TestTracker_StaleCallbacksAreDropped(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()

	var seen []domain.ProcessingState
	tr.Subscribe(id, func(s domain.ProcessingState) { seen = append(seen, s) })

	// Progress and End on an idle entity (a provider resolving after the
	// user moved on) must be silent.
	tr.Progress(id, "late")
	tr.End(id)
	assert.Empty(t, seen)
	assert.Equal(t, domain.PhaseIdle, tr.State(id).Phase)
}

func TestTracker_SubscriptionOrder(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()

	var order []string
	tr.Subscribe(id, func(domain.ProcessingState) { order = append(order, "first") })
	tr.Subscribe(id, func(domain.ProcessingState) { order = append(order, "second") })
	tr.Subscribe(id, func(domain.ProcessingState) { order = append(order, "third") })

	require.NoError(t, tr.Begin(id, domain.PhaseGeneratingImage, ""))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestTracker_ListenerAddedDuringNotification(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()

	var lateCalls int
	tr.Subscribe(id, func(domain.ProcessingState) {
		// Subscribing mid-emission must not join the in-flight emission.
		tr.Subscribe(id, func(domain.ProcessingState) { lateCalls++ })
	})

	require.NoError(t, tr.Begin(id, domain.PhaseGeneratingImage, ""))
	assert.Zero(t, lateCalls)

	// The next emission reaches the late listener.
	tr.End(id)
	assert.Equal(t, 1, lateCalls)
}

func TestTracker_Unsubscribe(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()

	var a, b int
	cancel := tr.Subscribe(id, func(domain.ProcessingState) { a++ })
	tr.Subscribe(id, func(domain.ProcessingState) { b++ })

	require.NoError(t, tr.Begin(id, domain.PhaseGeneratingImage, ""))
	cancel()
	tr.End(id)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)

	// Unsubscribing twice is harmless.
	cancel()
}

func TestTracker_PerEntityIsolation(t *testing.T) {
	tr := NewTracker()
	a, b := uuid.New(), uuid.New()

	var aCalls int
	tr.Subscribe(a, func(domain.ProcessingState) { aCalls++ })

	require.NoError(t, tr.Begin(b, domain.PhaseGeneratingImage, ""))
	tr.End(b)

	assert.Zero(t, aCalls, "observers see their own entity only")
	assert.Equal(t, domain.PhaseIdle, tr.State(a).Phase)
}

func TestTracker_Forget(t *testing.T) {
	tr := NewTracker()
	id := uuid.New()

	var calls int
	tr.Subscribe(id, func(domain.ProcessingState) { calls++ })
	require.NoError(t, tr.Begin(id, domain.PhaseGeneratingImage, ""))

	tr.Forget(id)
	assert.Equal(t, domain.PhaseIdle, tr.State(id).Phase)

	tr.End(id)
	assert.Equal(t, 1, calls, "forgotten listeners receive nothing further")
}
