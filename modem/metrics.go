package modem

import (
	"github.com/puzpuzpuz/xsync/v3"

	"i4.energy/across/nbiot/at"
)

// Metrics counts engine activity.
type Metrics struct {
	// Transactions counts every Exec call.
	Transactions *xsync.Counter
	// Retransmissions counts commands re-sent after a timeout.
	Retransmissions *xsync.Counter
	// Timeouts counts transactions abandoned at the retry ceiling.
	Timeouts *xsync.Counter

	// byVerb counts retransmissions per command verb (e.g. "AT+CGATT").
	byVerb *xsync.MapOf[string, *xsync.Counter]
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Transactions    int64            `json:"transactions"`
	Retransmissions int64            `json:"retransmissions"`
	Timeouts        int64            `json:"timeouts"`
	ByCommand       map[string]int64 `json:"retransmissions_by_command"`
}

func newMetrics() *Metrics {
	return &Metrics{
		Transactions:    xsync.NewCounter(),
		Retransmissions: xsync.NewCounter(),
		Timeouts:        xsync.NewCounter(),
		byVerb:          xsync.NewMapOf[string, *xsync.Counter](),
	}
}

func (m *Metrics) retransmitted(cmd string) {
	m.Retransmissions.Inc()
	c, _ := m.byVerb.LoadOrCompute(at.Verb(cmd), xsync.NewCounter)
	c.Inc()
}

func (m *Metrics) snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Transactions:    m.Transactions.Value(),
		Retransmissions: m.Retransmissions.Value(),
		Timeouts:        m.Timeouts.Value(),
		ByCommand:       make(map[string]int64),
	}
	m.byVerb.Range(func(verb string, c *xsync.Counter) bool {
		s.ByCommand[verb] = c.Value()
		return true
	})
	return s
}
