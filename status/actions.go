package status

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/verifield/verifield/clients"
	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/metrics"
	"github.com/verifield/verifield/notify"
	"github.com/verifield/verifield/types"
	"github.com/verifield/verifield/utils"
)

// Actions are the user-triggered recovery operations. Request methods return
// immediately; the outcome is reported through the notifier and becomes
// visible in the next oracle sample. Failures never propagate to the caller.
type Actions struct {
	connector clients.WalletConnector
	notifier  notify.Notifier
	log       logger.Logger
	rec       metrics.Recorder
	timeout   time.Duration

	wg         sync.WaitGroup
	connecting atomic.Bool
	switching  atomic.Bool
}

// NewActions builds the recovery actions. timeout bounds each wallet request;
// zero waits for the user indefinitely.
func NewActions(
	connector clients.WalletConnector,
	notifier notify.Notifier,
	log logger.Logger,
	rec metrics.Recorder,
	timeout time.Duration,
) *Actions {
	if notifier == nil {
		notifier = notify.Discard
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Actions{
		connector: connector,
		notifier:  notifier,
		log:       log,
		rec:       rec,
		timeout:   timeout,
	}
}

// RequestWalletConnection starts a connection handshake unless a session
// already exists or a handshake is already pending.
func (a *Actions) RequestWalletConnection(ctx context.Context) {
	if a.connector.IsConnected() {
		a.log.Debug("wallet already connected, ignoring connect request", nil)
		return
	}
	if !a.connecting.CompareAndSwap(false, true) {
		a.log.Debug("wallet connection already pending", nil)
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.connecting.Store(false)
		_ = a.connectWallet(ctx)
	}()
}

// RequestChainSwitch asks the wallet to move to target unless it is already
// there or a switch is already pending.
func (a *Actions) RequestChainSwitch(ctx context.Context, target types.ChainID) {
	if a.connector.IsConnected() && a.connector.ChainID() == target {
		a.log.Debug("wallet already on target chain", map[string]any{"chainId": uint64(target)})
		return
	}
	if !a.switching.CompareAndSwap(false, true) {
		a.log.Debug("chain switch already pending", nil)
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.switching.Store(false)
		_ = a.switchChain(ctx, target)
	}()
}

// Disconnect ends the wallet session.
func (a *Actions) Disconnect(ctx context.Context) error {
	if !a.connector.IsConnected() {
		return nil
	}
	if err := a.connector.Disconnect(ctx); err != nil {
		a.log.Warn("wallet disconnect failed", map[string]any{"err": err})
		return err
	}
	a.notifier.Notify("Wallet Disconnected", "Your wallet session has ended", notify.SeverityInfo)
	return nil
}

// Wait blocks until every pending request has finished.
func (a *Actions) Wait() {
	a.wg.Wait()
}

// requestContext detaches ctx from its caller's cancellation: the caller has
// already moved on by the time the wallet answers.
func (a *Actions) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if a.timeout > 0 {
		return context.WithTimeout(ctx, a.timeout)
	}
	return context.WithCancel(ctx)
}

func (a *Actions) connectWallet(ctx context.Context) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	a.notifier.Notify("Connecting Wallet", "Please approve the connection in your wallet", notify.SeverityInfo)

	start := time.Now()
	err := a.connector.Connect(ctx)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	a.rec.IncCounter(metrics.WalletConnect, map[string]string{"outcome": outcome})
	a.rec.ObserveLatency(metrics.WalletConnect, time.Since(start), map[string]string{"outcome": outcome})

	if err != nil {
		a.log.Warn("wallet connection failed", map[string]any{
			"err":    err,
			"reason": clients.Reason(err),
		})
		a.notifier.Notify("Connection Failed", connectFailureText(clients.Reason(err)), notify.SeverityDestructive)
		return err
	}

	a.notifier.Notify("Wallet Connected",
		"Connected as "+utils.ShortAddress(a.connector.Address()), notify.SeveritySuccess)
	return nil
}

func (a *Actions) switchChain(ctx context.Context, target types.ChainID) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	start := time.Now()
	err := a.connector.SwitchChain(ctx, target)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	a.rec.IncCounter(metrics.ChainSwitch, map[string]string{"outcome": outcome})
	a.rec.ObserveLatency(metrics.ChainSwitch, time.Since(start), map[string]string{"outcome": outcome})

	if err != nil {
		a.log.Warn("chain switch failed", map[string]any{
			"err":     err,
			"reason":  clients.Reason(err),
			"chainId": uint64(target),
		})
		a.notifier.Notify("Network Switch Failed",
			"Please switch network manually in your wallet", notify.SeverityDestructive)
		return err
	}

	a.notifier.Notify("Network Switched",
		"Successfully switched to "+types.ChainName(target), notify.SeveritySuccess)
	return nil
}

func connectFailureText(reason string) string {
	switch reason {
	case clients.ReasonUserRejected:
		return "The connection request was rejected in your wallet"
	case clients.ReasonNoAccounts:
		return "Your wallet did not share any account"
	default:
		return "Please make sure a wallet is installed and unlocked"
	}
}
