package clients

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/verifield/verifield/events"
	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/types"
)

var (
	_ Wallet  = (*EVMConnector)(nil)
	_ Watcher = (*EVMConnector)(nil)
)

// EVMConnector talks to an EIP-1193 wallet provider over JSON-RPC. The
// session (account + chain) lives in memory; every change is published on the
// event bus.
type EVMConnector struct {
	rpc *rpc.Client
	eth *ethclient.Client
	bus events.Publisher
	log logger.Logger

	mu        sync.RWMutex
	connected bool
	address   common.Address
	chainID   types.ChainID
}

// DialEVMConnector connects to the provider at url. Dialing HTTP endpoints
// does not contact the provider; failures surface on Connect.
func DialEVMConnector(ctx context.Context, url string, bus events.Publisher, log logger.Logger) (*EVMConnector, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial wallet provider: %w", err)
	}
	return NewEVMConnector(client, bus, log), nil
}

// NewEVMConnector wraps an existing RPC client.
func NewEVMConnector(client *rpc.Client, bus events.Publisher, log logger.Logger) *EVMConnector {
	if bus == nil {
		bus = events.NoopPublisher{}
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &EVMConnector{
		rpc: client,
		eth: ethclient.NewClient(client),
		bus: bus,
		log: log,
	}
}

// Connect asks the provider for accounts. The provider may prompt the user.
func (e *EVMConnector) Connect(ctx context.Context) error {
	var accounts []common.Address
	err := e.rpc.CallContext(ctx, &accounts, "eth_requestAccounts")
	if err != nil && isMethodNotFound(err) {
		// plain nodes (hardhat, anvil) only expose the unlocked accounts
		err = e.rpc.CallContext(ctx, &accounts, "eth_accounts")
	}
	if err != nil {
		return connectionFailed(reasonFor(err), err)
	}
	if len(accounts) == 0 {
		return connectionFailed(ReasonNoAccounts, errors.New("provider returned no accounts"))
	}

	chainID, err := e.readChainID(ctx)
	if err != nil {
		return connectionFailed(reasonFor(err), err)
	}

	e.apply(true, accounts[0], chainID)
	e.log.Info("wallet connected", map[string]any{
		"address": accounts[0].Hex(),
		"chainId": uint64(chainID),
	})
	return nil
}

// Disconnect drops the session. Revoking permissions is best effort; the
// local session is cleared either way.
func (e *EVMConnector) Disconnect(ctx context.Context) error {
	if !e.IsConnected() {
		return nil
	}
	revoke := map[string]struct{}{"eth_accounts": {}}
	if err := e.rpc.CallContext(ctx, nil, "wallet_revokePermissions", revoke); err != nil {
		e.log.Debug("wallet_revokePermissions failed", map[string]any{"err": err})
	}
	e.apply(false, common.Address{}, 0)
	e.log.Info("wallet disconnected", nil)
	return nil
}

// SwitchChain asks the wallet to change its active chain and confirms the
// result with eth_chainId.
func (e *EVMConnector) SwitchChain(ctx context.Context, chainID types.ChainID) error {
	if !e.IsConnected() {
		return chainSwitchFailed(ReasonNotConnected, errors.New("no wallet session"))
	}

	params := types.SwitchChainParams{ChainID: hexutil.Uint64(chainID)}
	if err := e.rpc.CallContext(ctx, nil, "wallet_switchEthereumChain", params); err != nil {
		return chainSwitchFailed(reasonFor(err), err)
	}

	active, err := e.readChainID(ctx)
	if err != nil {
		return chainSwitchFailed(reasonFor(err), err)
	}

	e.mu.RLock()
	addr := e.address
	e.mu.RUnlock()
	e.apply(true, addr, active)

	if active != chainID {
		return chainSwitchFailed(ReasonChainMismatch,
			fmt.Errorf("wallet reports chain %d after switching to %d", active, chainID))
	}
	e.log.Info("wallet switched chain", map[string]any{"chainId": uint64(chainID)})
	return nil
}

func (e *EVMConnector) Address() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.connected {
		return ""
	}
	return e.address.Hex()
}

func (e *EVMConnector) IsConnected() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.connected
}

func (e *EVMConnector) ChainID() types.ChainID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.chainID
}

// Balance returns the native balance of the attached account in wei.
func (e *EVMConnector) Balance(ctx context.Context) (*big.Int, error) {
	e.mu.RLock()
	connected, addr := e.connected, e.address
	e.mu.RUnlock()

	if !connected {
		return nil, types.NewError(types.ErrNetworkError, "no wallet session", nil)
	}
	bal, err := e.eth.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, types.NewError(types.ErrNetworkError, "failed to read balance", err)
	}
	return bal, nil
}

// Watch polls the provider for account and chain changes made in the wallet
// itself. HTTP providers cannot push accountsChanged/chainChanged, so this is
// the only way to observe them. Watch returns when ctx is done.
func (e *EVMConnector) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.poll(ctx)
		}
	}
}

func (e *EVMConnector) poll(ctx context.Context) {
	if !e.IsConnected() {
		return
	}

	var accounts []common.Address
	if err := e.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		e.log.Debug("eth_accounts poll failed", map[string]any{"err": err})
		return
	}
	if len(accounts) == 0 {
		e.apply(false, common.Address{}, 0)
		e.log.Info("wallet session revoked by provider", nil)
		return
	}

	chainID, err := e.readChainID(ctx)
	if err != nil {
		e.log.Debug("eth_chainId poll failed", map[string]any{"err": err})
		return
	}
	e.apply(true, accounts[0], chainID)
}

func (e *EVMConnector) readChainID(ctx context.Context) (types.ChainID, error) {
	id, err := e.eth.ChainID(ctx)
	if err != nil {
		return 0, err
	}
	if !id.IsUint64() {
		return 0, fmt.Errorf("chain id %s out of range", id)
	}
	return types.ChainID(id.Uint64()), nil
}

// apply stores the session and publishes whatever changed.
func (e *EVMConnector) apply(connected bool, addr common.Address, chainID types.ChainID) {
	e.mu.Lock()
	accountsChanged := e.connected != connected || e.address != addr
	chainChanged := e.chainID != chainID
	e.connected = connected
	e.address = addr
	e.chainID = chainID
	e.mu.Unlock()

	if accountsChanged {
		published := ""
		if connected {
			published = addr.Hex()
		}
		e.bus.Publish(events.TopicAccounts, published)
	}
	if chainChanged {
		e.bus.Publish(events.TopicChain, uint64(chainID))
	}
}

// Close releases the RPC connection.
func (e *EVMConnector) Close() {
	e.rpc.Close()
}
