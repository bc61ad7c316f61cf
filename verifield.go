// Package verifield is the client core of a dataset-NFT marketplace: it keeps
// track of the wallet connection state, offers the recovery actions for it and
// runs the quick-mint workflow.
package verifield

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/verifield/verifield/clients"
	"github.com/verifield/verifield/events"
	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/metrics"
	"github.com/verifield/verifield/mint"
	"github.com/verifield/verifield/notify"
	"github.com/verifield/verifield/status"
	"github.com/verifield/verifield/types"
	"github.com/verifield/verifield/utils"
	"github.com/verifield/verifield/wallet"
)

// App wires the connection status machinery, the mint workflow and the
// wallet overview around a single wallet session.
type App struct {
	config *types.Config

	logger   logger.Logger
	metrics  metrics.Recorder
	notifier notify.Notifier
	minter   mint.Minter
	wallet   clients.Wallet
	probe    clients.NetworkProbe

	bus     *events.Bus
	feed    *notify.Feed
	oracle  *status.Oracle
	monitor *status.Monitor
	actions *status.Actions
	mint    *mint.Service
	account *wallet.Service

	mu      sync.Mutex
	cancel  context.CancelFunc
	watches sync.WaitGroup
}

// New creates an App from a copy of config; the caller's value is not
// modified. A nil config uses types.DefaultConfig. config.Chains are added to
// the chain registry, which is process-wide and shared by every App.
// Unless WithConnector is given, the wallet provider at config.ProviderURL is
// dialed; HTTP endpoints are not contacted until the first request.
func New(cfg *types.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}
	config := cfg.Clone()
	config.ApplyDefaults()
	if fieldErrs, err := utils.ValidateStruct(config); err != nil || len(fieldErrs) > 0 {
		return nil, &types.VerifieldError{
			Code:    types.ErrConfigError,
			Message: "invalid configuration",
			Data:    fieldErrs,
			Err:     err,
		}
	}
	for _, c := range config.Chains {
		types.RegisterChain(c)
	}

	a := &App{
		config: config,
		feed:   notify.NewFeed(config.NotificationBacklog),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.bus == nil {
		a.bus = events.New()
	}
	if a.logger == nil {
		a.logger = logger.NoopLogger{}
	}
	if a.metrics == nil {
		if config.EnableMetrics {
			a.metrics = metrics.NewPrometheusRecorder()
		} else {
			a.metrics = metrics.NoopRecorder{}
		}
	}

	sinks := notify.Multi{a.feed, notify.LogNotifier{Log: a.logger}}
	if a.notifier != nil {
		sinks = append(sinks, a.notifier)
	}
	notifier := notify.Counted(sinks, a.metrics)

	if a.wallet == nil {
		conn, err := clients.DialEVMConnector(context.Background(), config.ProviderURL, a.bus,
			logger.With(a.logger, map[string]any{"component": "connector"}))
		if err != nil {
			return nil, &types.VerifieldError{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("failed to create wallet connector for %s", config.ProviderURL),
				Err:     err,
			}
		}
		a.wallet = conn
	}
	if a.probe == nil {
		a.probe = clients.NewInterfaceProbe(a.bus, logger.With(a.logger, map[string]any{"component": "probe"}))
	}
	if a.minter == nil {
		a.minter = mint.NewSimulatedMinter(config.MintDelay)
	}

	a.oracle = status.NewOracle(a.probe, a.wallet, config.TargetChainID)
	a.monitor = status.NewMonitor(a.oracle, a.bus, logger.With(a.logger, map[string]any{"component": "monitor"}), a.metrics)
	a.actions = status.NewActions(a.wallet, notifier, a.logger, a.metrics, config.ActionTimeout)
	a.mint = mint.NewService(a.minter, a.wallet, notifier, logger.With(a.logger, map[string]any{"component": "mint"}), a.metrics)
	a.account = wallet.NewService(a.wallet, notifier, a.logger)

	return a, nil
}

// NewWithDefaults creates an App for the local Hardhat node.
func NewWithDefaults(opts ...Option) (*App, error) {
	return New(types.DefaultConfig(), opts...)
}

// Start resolves the initial state and starts the network probe and, when
// configured, the wallet poller. They stop on Close or when ctx is done.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return nil
	}

	if err := a.monitor.Start(); err != nil {
		return fmt.Errorf("failed to start status monitor: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.watch(ctx, a.probe, a.config.ProbeInterval)
	a.watch(ctx, a.wallet, a.config.ChainPollInterval)

	a.logger.Info("verifield started", map[string]any{
		"targetChainId": uint64(a.config.TargetChainID),
		"provider":      a.config.ProviderURL,
	})
	return nil
}

func (a *App) watch(ctx context.Context, v any, interval time.Duration) {
	w, ok := v.(clients.Watcher)
	if !ok || interval <= 0 {
		return
	}
	a.watches.Add(1)
	go func() {
		defer a.watches.Done()
		w.Watch(ctx, interval)
	}()
}

// Close stops the watchers, waits for pending wallet requests and releases
// the provider connection.
func (a *App) Close() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.watches.Wait()
	a.actions.Wait()
	a.monitor.Stop()

	if c, ok := a.wallet.(interface{ Close() }); ok {
		c.Close()
	}
	if z, ok := a.logger.(*logger.ZapLogger); ok {
		_ = z.Sync()
	}
}

// Status returns the current connection state and its view.
func (a *App) Status() types.StatusView {
	return types.ViewOf(a.monitor.State())
}

// State returns the current connection state.
func (a *App) State() types.ConnectionState {
	return a.monitor.State()
}

// Snapshot samples the connectivity signals right now.
func (a *App) Snapshot() types.ConnectivitySnapshot {
	return a.oracle.Sample()
}

// Subscribe calls fn on every connection state change until cancel is called.
func (a *App) Subscribe(fn func(types.ConnectionState)) (cancel func()) {
	return a.monitor.Subscribe(fn)
}

// ConnectWallet starts a wallet connection request and returns immediately.
func (a *App) ConnectWallet(ctx context.Context) {
	a.actions.RequestWalletConnection(ctx)
}

// SwitchChain asks the wallet to move to chainID, or to the target chain
// when chainID is zero. It returns immediately.
func (a *App) SwitchChain(ctx context.Context, chainID types.ChainID) {
	if chainID == 0 {
		chainID = a.config.TargetChainID
	}
	a.actions.RequestChainSwitch(ctx, chainID)
}

// Recover runs the recovery action the current state offers, if any.
func (a *App) Recover(ctx context.Context) types.RecoveryAction {
	state := a.monitor.State()
	switch state.Recovery() {
	case types.RecoveryConnect:
		a.actions.RequestWalletConnection(ctx)
	case types.RecoverySwitch:
		a.actions.RequestChainSwitch(ctx, a.config.TargetChainID)
	}
	return state.Recovery()
}

// DisconnectWallet ends the wallet session.
func (a *App) DisconnectWallet(ctx context.Context) error {
	return a.actions.Disconnect(ctx)
}

// WaitPending blocks until pending wallet requests have finished.
func (a *App) WaitPending() {
	a.actions.Wait()
	a.bus.WaitAsync()
}

// Mint validates draft and mints it.
func (a *App) Mint(ctx context.Context, draft *types.MintFormDraft) (*types.MintResult, error) {
	return a.mint.QuickMint(ctx, draft)
}

// Wallet returns the wallet page model.
func (a *App) Wallet(ctx context.Context) (*types.WalletOverview, error) {
	return a.account.Overview(ctx)
}

// RefreshWallet re-reads the wallet page model and notifies the user.
func (a *App) RefreshWallet(ctx context.Context) (*types.WalletOverview, error) {
	return a.account.Refresh(ctx)
}

// Logger returns the App's logger.
func (a *App) Logger() logger.Logger {
	return a.logger
}

// Bus returns the event bus the App listens on.
func (a *App) Bus() *events.Bus {
	return a.bus
}

// Notifications returns delivered notifications with an id above since.
func (a *App) Notifications(since uint64) []notify.Notification {
	return a.feed.Since(since)
}

// Chains lists the known chains.
func (a *App) Chains() []types.Chain {
	return types.Chains()
}

// Config returns the effective configuration.
func (a *App) Config() types.Config {
	return *a.config
}

// MetricsHandler serves Prometheus metrics, or nil when metrics are not
// exported through Prometheus.
func (a *App) MetricsHandler() http.Handler {
	if p, ok := a.metrics.(*metrics.PrometheusRecorder); ok {
		return p.Handler()
	}
	return nil
}

// Version information
const Version = "0.3.0"

// GetVersion returns version information
func GetVersion() map[string]interface{} {
	return map[string]interface{}{
		"version":          Version,
		"default_chain":    types.ChainHardhat.Name,
		"supported_chains": chainNames(),
	}
}

func chainNames() []string {
	chains := types.Chains()
	names := make([]string, 0, len(chains))
	for _, c := range chains {
		names = append(names, c.Name)
	}
	return names
}
