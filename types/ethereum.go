package types

import "github.com/ethereum/go-ethereum/common/hexutil"

// SwitchChainParams is the single parameter of wallet_switchEthereumChain.
type SwitchChainParams struct {
	ChainID hexutil.Uint64 `json:"chainId"`
}

// EIP-1193 provider error codes.
const (
	ProviderUserRejected      = 4001
	ProviderUnauthorized      = 4100
	ProviderUnsupportedMethod = 4200
	ProviderDisconnected      = 4900
	ProviderChainDisconnected = 4901
	ProviderUnrecognizedChain = 4902
	RPCMethodNotFound         = -32601
)
