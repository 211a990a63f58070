package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIErrors counts classified Lightspeed API failures by bare tag.
	APIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "suitsync_lightspeed_errors_total",
		Help: "Classified Lightspeed API failures by error code.",
	}, []string{"code"})

	// BridgeProbes counts connectivity probes against the primary server.
	BridgeProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "suitsync_bridge_probes_total",
		Help: "Connectivity probes to the primary server by outcome.",
	}, []string{"outcome"})

	// ActiveSessions tracks the number of unexpired user sessions last observed.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "suitsync_active_sessions",
		Help: "Unexpired user sessions at last listing.",
	})
)
