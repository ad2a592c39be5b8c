package session

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK    = "ok"
	resultError = "error"
	resultStale = "stale"
)

// Metrics counts protocol events of parties and roles. A nil *Metrics
// counts nothing.
type Metrics struct {
	// Contributions counts contributions computed by either half
	Contributions prometheus.Counter
	// SharedKeys counts shared key computations by result
	SharedKeys *prometheus.CounterVec
	// Ratchets counts ratchet steps taken by parties and clients
	Ratchets prometheus.Counter
	// Updates counts ratchet updates received by servers, by result
	Updates *prometheus.CounterVec
}

// NewMetrics creates the session counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Contributions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitdh",
			Subsystem: "session",
			Name:      "contributions_total",
			Help:      "Number of half contributions computed",
		}),
		SharedKeys: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitdh",
			Subsystem: "session",
			Name:      "shared_keys_total",
			Help:      "Number of shared key computations",
		}, []string{"result"}),
		Ratchets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitdh",
			Subsystem: "session",
			Name:      "ratchets_total",
			Help:      "Number of ratchet steps taken",
		}),
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitdh",
			Subsystem: "session",
			Name:      "updates_total",
			Help:      "Number of ratchet updates received by servers",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.Contributions, m.SharedKeys, m.Ratchets, m.Updates} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) contributed(n int) {
	if m == nil {
		return
	}
	m.Contributions.Add(float64(n))
}

func (m *Metrics) shared(err error) {
	if m == nil {
		return
	}
	m.SharedKeys.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ratcheted() {
	if m == nil {
		return
	}
	m.Ratchets.Inc()
}

func (m *Metrics) updated(err error) {
	if m == nil {
		return
	}
	m.Updates.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrStaleUpdate):
		return resultStale
	default:
		return resultError
	}
}
