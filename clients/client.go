package clients

import (
	"context"
	"math/big"
	"time"

	"github.com/verifield/verifield/types"
)

// WalletConnector is the wallet session collaborator. Getters never block and
// never fail; an absent session reports IsConnected() == false.
type WalletConnector interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SwitchChain(ctx context.Context, chainID types.ChainID) error
	Address() string
	IsConnected() bool
	ChainID() types.ChainID
}

// BalanceReader reads the native balance of the attached account, in wei.
type BalanceReader interface {
	Balance(ctx context.Context) (*big.Int, error)
}

// NetworkProbe reports whether the host currently has network connectivity.
type NetworkProbe interface {
	Online() bool
}

// Wallet is a connector that can also read balances.
type Wallet interface {
	WalletConnector
	BalanceReader
}

// Watcher is implemented by collaborators that poll for changes and publish
// them on the event bus until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, interval time.Duration)
}
