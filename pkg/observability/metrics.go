package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// Metrics bundles the prometheus collectors fed by editor lifecycle
// events. Create one per registry, then install Hooks() on the editor.
type Metrics struct {
	entities    prometheus.Gauge
	generations *prometheus.CounterVec
	genDuration *prometheus.HistogramVec
	inflight    prometheus.Gauge
	commands    *prometheus.CounterVec
	undoDepth   prometheus.Gauge
	redoDepth   prometheus.Gauge
	steps       prometheus.Counter
}

// NewMetrics registers the editor collectors on reg. A nil reg uses the
// default global registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		entities: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scenesmith_scene_entities",
			Help: "Live entities in the scene.",
		}),
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scenesmith_generations_total",
			Help: "Finished generation calls by asset kind and outcome.",
		}, []string{"kind", "status"}),
		genDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scenesmith_generation_duration_seconds",
			Help:    "Wall time of generation calls by asset kind.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}, []string{"kind"}),
		inflight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scenesmith_generations_inflight",
			Help: "Generation calls currently running.",
		}),
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scenesmith_commands_total",
			Help: "Command stack activity by command name and operation.",
		}, []string{"command", "op"}),
		undoDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scenesmith_undo_depth",
			Help: "Commands currently available to undo.",
		}),
		redoDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scenesmith_redo_depth",
			Help: "Commands currently available to redo.",
		}),
		steps: factory.NewCounter(prometheus.CounterOpts{
			Name: "scenesmith_history_steps_total",
			Help: "Generation history cursor movements.",
		}),
	}
}

// Hooks returns lifecycle hooks that feed the collectors. Combine with
// other hooks via Join.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEntityCreated: func(ctx context.Context, e *domain.EntityEvent) {
			m.entities.Inc()
		},
		OnEntityDeleted: func(ctx context.Context, e *domain.EntityEvent) {
			m.entities.Dec()
		},
		OnGenerationStarted: func(ctx context.Context, e *domain.GenerationEvent) {
			m.inflight.Inc()
		},
		OnGenerationFinished: func(ctx context.Context, e *domain.GenerationEvent) {
			m.inflight.Dec()
			status := "ok"
			if e.Failed() {
				status = "error"
			}
			m.generations.WithLabelValues(string(e.Asset), status).Inc()
			m.genDuration.WithLabelValues(string(e.Asset)).Observe(e.Duration.Seconds())
		},
		OnCommand: func(ctx context.Context, e *domain.CommandEvent) {
			m.commands.WithLabelValues(e.Command, commandOp(e.Type)).Inc()
			m.undoDepth.Set(float64(e.UndoDepth))
			m.redoDepth.Set(float64(e.RedoDepth))
		},
		OnHistoryStep: func(ctx context.Context, e *domain.HistoryEvent) {
			m.steps.Inc()
		},
	}
}

func commandOp(t domain.EventType) string {
	switch t {
	case domain.EventCommandUndone:
		return "undo"
	case domain.EventCommandRedone:
		return "redo"
	default:
		return "execute"
	}
}
