package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry every ledger metric is registered on, exposed by Handler.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		BlocksMined, MiningDuration, MiningInterrupted,
		PendingTransactions, ChainLength,
		ResolveTotal, PeerFetchFailures, ChainReplaced,
		collectors.NewGoCollector(),
	)
}

// Blocks sealed by this node.
var BlocksMined = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "ledger_blocks_mined_total",
	Help: "Blocks sealed by this node.",
})

// Time spent searching a proof, in seconds.
var MiningDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "ledger_mining_duration_seconds",
	Help:    "Time spent searching a proof.",
	Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
})

// Searches abandoned, by reason: command | stale_tail.
var MiningInterrupted = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "ledger_mining_interrupted_total",
	Help: "Proof searches abandoned before sealing.",
}, []string{"reason"})

var PendingTransactions = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ledger_pending_transactions",
	Help: "Transactions waiting for the next block.",
})

var ChainLength = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ledger_chain_length",
	Help: "Blocks in the local chain.",
})

// Resolve rounds, by outcome: replaced | kept.
var ResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "ledger_resolve_total",
	Help: "Consensus rounds by outcome.",
}, []string{"outcome"})

// Peer queries skipped, by reason: unreachable | malformed | invalid.
var PeerFetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "ledger_peer_fetch_failures_total",
	Help: "Peer chains skipped during consensus.",
}, []string{"reason"})

var ChainReplaced = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "ledger_chain_replaced_total",
	Help: "Times the local chain was replaced by a longer valid one.",
})

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
