package access

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "recruitdesk",
	Subsystem: "access",
	Name:      "decisions_total",
	Help:      "Authorization decisions broken down by kind (permission, route) and result.",
}, []string{"kind", "result"})

func recordDecision(kind string, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	decisions.With(prometheus.Labels{"kind": kind, "result": result}).Inc()
}
