// Package metrics exports Prometheus counters for processed answers.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abhisek/bloomclimb/internal/engine"
)

// Recorder implements session.Observer and counts answers, level changes
// and fired rules.
type Recorder struct {
	answers      *prometheus.CounterVec
	levelChanges *prometheus.CounterVec
	rules        *prometheus.CounterVec
	elapsed      prometheus.Histogram
}

// New creates a Recorder and registers its collectors with reg. A nil reg
// leaves the collectors unregistered.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bloomclimb_answers_total",
				Help: "Total number of processed answers",
			},
			[]string{"correct", "speed"},
		),
		levelChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bloomclimb_level_changes_total",
				Help: "Total number of level changes",
			},
			[]string{"direction"},
		),
		rules: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bloomclimb_rule_fired_total",
				Help: "Total number of times each decision rule fired",
			},
			[]string{"rule"},
		),
		elapsed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bloomclimb_elapsed_seconds",
				Help:    "Time taken to answer a question",
				Buckets: []float64{1, 2, 5, 10, 15, 20, 30, 45, 60, 90, 120, 300},
			},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{r.answers, r.levelChanges, r.rules, r.elapsed} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// ObserveAnswer records one processed answer.
func (r *Recorder) ObserveAnswer(_ string, e engine.HistoryEntry, out engine.Outcome) {
	r.answers.WithLabelValues(strconv.FormatBool(e.Correct), string(out.Speed)).Inc()
	r.rules.WithLabelValues(string(out.Rule)).Inc()
	r.elapsed.Observe(e.Elapsed)

	switch {
	case out.NextLevel > out.PreviousLevel:
		r.levelChanges.WithLabelValues("up").Inc()
	case out.NextLevel < out.PreviousLevel:
		r.levelChanges.WithLabelValues("down").Inc()
	}
}
