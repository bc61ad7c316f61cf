package types

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"
)

// ChainID identifies an EVM chain. Zero means no chain is known.
type ChainID uint64

// Hex returns the 0x-prefixed quantity used by wallet RPC methods.
func (id ChainID) Hex() string {
	return hexutil.EncodeUint64(uint64(id))
}

func (id ChainID) String() string {
	return fmt.Sprintf("%d", uint64(id))
}

// Chain describes a network the wallet can be switched to.
type Chain struct {
	ID       ChainID `json:"id" yaml:"id" validate:"required"`
	Name     string  `json:"name" yaml:"name" validate:"required"`
	Symbol   string  `json:"symbol" yaml:"symbol" validate:"required"`
	Decimals int32   `json:"decimals" yaml:"decimals" validate:"gte=0,lte=36"`
	RPCURL   string  `json:"rpcUrl,omitempty" yaml:"rpcUrl,omitempty" validate:"omitempty,url"`
	Testnet  bool    `json:"testnet,omitempty" yaml:"testnet,omitempty"`
}

var (
	ChainHardhat = Chain{
		ID:       31337,
		Name:     "Hardhat Local",
		Symbol:   "ETH",
		Decimals: 18,
		RPCURL:   "http://127.0.0.1:8545",
		Testnet:  true,
	}
	ChainSepolia = Chain{
		ID:       ChainID(params.SepoliaChainConfig.ChainID.Uint64()),
		Name:     "Sepolia",
		Symbol:   "ETH",
		Decimals: 18,
		Testnet:  true,
	}
	ChainMainnet = Chain{
		ID:       ChainID(params.MainnetChainConfig.ChainID.Uint64()),
		Name:     "Ethereum Mainnet",
		Symbol:   "ETH",
		Decimals: 18,
	}
)

var (
	registryMu sync.RWMutex
	registry   = map[ChainID]Chain{
		ChainHardhat.ID: ChainHardhat,
		ChainSepolia.ID: ChainSepolia,
		ChainMainnet.ID: ChainMainnet,
	}
)

// RegisterChain adds or replaces a chain in the registry.
func RegisterChain(c Chain) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.ID] = c
}

// LookupChain returns the registered chain for id.
func LookupChain(id ChainID) (Chain, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[id]
	return c, ok
}

// Chains returns every registered chain, ordered by id.
func Chains() []Chain {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Chain, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ChainName returns a display name, falling back to "Chain <id>".
func ChainName(id ChainID) string {
	if c, ok := LookupChain(id); ok {
		return c.Name
	}
	return fmt.Sprintf("Chain %d", uint64(id))
}

// NativeSymbol returns the native currency symbol of a chain, "ETH" when unknown.
func NativeSymbol(id ChainID) string {
	if c, ok := LookupChain(id); ok && c.Symbol != "" {
		return c.Symbol
	}
	return "ETH"
}
