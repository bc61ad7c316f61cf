// Package metrics records counters, latencies and gauges for verifield
// operations.
package metrics

import "time"

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
	SetGauge(name string, value float64, labels map[string]string)
}

// Metric names.
const (
	StateTransitions = "state_transitions"
	ConnectionState  = "connection_state"
	WalletConnect    = "wallet_connect"
	ChainSwitch      = "chain_switch"
	Mint             = "mint"
	DraftRejected    = "draft_rejected"
	Notifications    = "notifications"
)
