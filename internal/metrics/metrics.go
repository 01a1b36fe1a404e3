// Package metrics exports game activity as prometheus series.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ceoabdo/Wheel-Of-Fortune/internal/game"
)

const (
	labelOutcome  = "outcome"
	labelCategory = "category"
	namespace     = "wheel"
)

// Metric names: wheel_<name>. Spins are labelled by outcome and zone category.

type Metrics struct {
	spins          *prometheus.CounterVec
	revives        prometheus.Counter
	reviveSpend    prometheus.Counter
	giveUps        prometheus.Counter
	leaves         prometheus.Counter
	resets         prometheus.Counter
	bustZone       prometheus.Histogram
	banked         prometheus.Counter
	activeSessions prometheus.Gauge
}

// New registers the game series on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		spins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "spins_total", Help: "Completed spins by outcome and zone category.",
		}, []string{labelOutcome, labelCategory}),
		revives: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "revives_total", Help: "Bombs bought back.",
		}),
		reviveSpend: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "revive_spend_total", Help: "Pending reward spent on revives.",
		}),
		giveUps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "give_ups_total", Help: "Runs abandoned after a bomb.",
		}),
		leaves: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "leaves_total", Help: "Runs banked by leaving.",
		}),
		resets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "resets_total", Help: "Sessions reset to the initial state.",
		}),
		bustZone: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "bomb_zone", Help: "Zone at which a bomb was hit.",
			Buckets: []float64{1, 2, 3, 5, 10, 15, 20, 30, 45, 60, 90},
		}),
		banked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "banked_reward_total", Help: "Pending reward banked by leaving.",
		}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_sessions", Help: "Sessions currently held in memory.",
		}),
	}
}

// Record implements game.Recorder.
func (m *Metrics) Record(ev game.Event) {
	switch ev.Kind {
	case game.EventReward, game.EventBomb:
		m.spins.WithLabelValues(string(ev.Kind), ev.Category.String()).Inc()
		if ev.Kind == game.EventBomb {
			m.bustZone.Observe(float64(ev.Zone))
		}
	case game.EventRevive:
		m.revives.Inc()
		m.reviveSpend.Add(float64(ev.Cost))
	case game.EventGiveUp:
		m.giveUps.Inc()
	case game.EventLeave:
		m.leaves.Inc()
		m.banked.Add(float64(ev.Pending))
	case game.EventReset:
		m.resets.Inc()
	}
}

// SetActiveSessions reports the session registry size.
func (m *Metrics) SetActiveSessions(n int) { m.activeSessions.Set(float64(n)) }
