package verifield

import (
	"github.com/verifield/verifield/clients"
	"github.com/verifield/verifield/events"
	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/metrics"
	"github.com/verifield/verifield/mint"
	"github.com/verifield/verifield/notify"
)

type Option func(*App)

func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(a *App) {
		a.metrics = r
	}
}

// WithNotifier adds a notification sink next to the in-memory feed and the
// log.
func WithNotifier(n notify.Notifier) Option {
	return func(a *App) {
		a.notifier = n
	}
}

func WithMinter(m mint.Minter) Option {
	return func(a *App) {
		a.minter = m
	}
}

// WithConnector replaces the JSON-RPC wallet connector. A connector that
// publishes its changes must publish on the bus given to WithBus.
func WithConnector(w clients.Wallet) Option {
	return func(a *App) {
		a.wallet = w
	}
}

func WithProbe(p clients.NetworkProbe) Option {
	return func(a *App) {
		a.probe = p
	}
}

// WithBus makes the App listen on bus instead of a private one.
func WithBus(bus *events.Bus) Option {
	return func(a *App) {
		a.bus = bus
	}
}
