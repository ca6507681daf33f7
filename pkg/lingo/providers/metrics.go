package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var endpointFailoversTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "condition_lingo_endpoint_failovers_total",
	Help: "Count of RPC endpoint attempts that failed and fell through to the next configured endpoint, by chain ID.",
}, []string{"chain_id"})
