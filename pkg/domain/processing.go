package domain

// Phase defines what an entity's generation pipeline is currently doing.
type Phase string

const (
	PhaseIdle            Phase = "idle"             // No generation in flight
	PhaseGeneratingImage Phase = "generating-image" // 2D image generation in flight
	PhaseGeneratingModel Phase = "generating-model" // 3D model generation in flight
)

// Busy reports whether the phase represents an in-flight generation.
func (p Phase) Busy() bool {
	return p == PhaseGeneratingImage || p == PhaseGeneratingModel
}

// ProcessingState is the ephemeral per-entity generation status. It exists
// for the lifetime of the entity, is mutated only by that entity's own
// generation calls and is never part of a persisted document. A failed
// generation returns to PhaseIdle with Message describing the failure.
type ProcessingState struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message,omitempty"`
}

// IdleState returns the resting state a fresh entity starts in.
func IdleState() ProcessingState {
	return ProcessingState{Phase: PhaseIdle}
}
