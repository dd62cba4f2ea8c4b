package catalog

import (
	"github.com/HerbHall/spacematch/internal/match"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ranking requests by outcome.
type Metrics struct {
	rankings *prometheus.CounterVec
	results  prometheus.Histogram
}

// NewMetrics creates the ranking metrics and registers them on reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rankings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "spacematch",
			Name:      "rankings_total",
			Help:      "Ranking requests by result mode (exact, near, none).",
		}, []string{"mode"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "spacematch",
			Name:      "ranking_results",
			Help:      "Number of spaces returned per ranking request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.rankings, m.results)
	}
	return m
}

func (m *Metrics) observe(res match.Result) {
	if m == nil {
		return
	}
	m.rankings.WithLabelValues(string(res.Mode())).Inc()
	m.results.Observe(float64(len(res.Spaces())))
}
