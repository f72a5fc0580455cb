package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CrewRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_crew_runs_total",
			Help: "Total number of crew runs by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	CrewTaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agents_crew_task_duration_seconds",
			Help:    "Duration of a single agent task in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"task"},
	)

	CrewTaskFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_crew_task_failures_total",
			Help: "Total number of failed agent tasks",
		},
		[]string{"task"},
	)

	LLMRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agents_llm_retries_total",
			Help: "Total number of retried chat completion attempts",
		},
	)

	IdeasExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agents_ideas_extracted",
			Help:    "Number of idea records extracted per generation run",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 8},
		},
	)

	SectionPlaceholders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_section_placeholders_total",
			Help: "Validation sections answered with a placeholder",
		},
		[]string{"section"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agents_cache_lookups_total",
			Help: "Cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)

	RunsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agents_runs_in_flight",
			Help: "Number of crew runs currently executing",
		},
		[]string{"kind"},
	)
)

// ObserveTask records one agent task attempt.
func ObserveTask(task string, elapsed time.Duration, err error) {
	CrewTaskDuration.WithLabelValues(task).Observe(elapsed.Seconds())
	if err != nil {
		CrewTaskFailures.WithLabelValues(task).Inc()
	}
}

// ObserveRun records the outcome of a crew run.
func ObserveRun(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	CrewRunsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveCache records a cache hit or miss.
func ObserveCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(kind, result).Inc()
}

// TrackRun marks a run as in flight and returns the func that ends it.
func TrackRun(kind string) func() {
	g := RunsInFlight.WithLabelValues(kind)
	g.Inc()
	return g.Dec
}
