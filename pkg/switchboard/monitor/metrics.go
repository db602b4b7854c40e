package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clientLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "switchboard_client_latency_ms",
		Help:    "Latency of RPC calls made by the switchboard client",
		Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"request", "url"})

	balance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "switchboard_balance_sol",
		Help: "Account balance in SOL",
	}, []string{"account", "url"})
)

// SetClientLatency records the duration of a single RPC request.
func SetClientLatency(d time.Duration, request, url string) {
	clientLatency.WithLabelValues(request, url).Observe(float64(d.Milliseconds()))
}

// SetBalance records the SOL balance of a monitored account.
func SetBalance(sol float64, account, url string) {
	balance.WithLabelValues(account, url).Set(sol)
}
