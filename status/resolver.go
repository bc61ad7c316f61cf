package status

import "github.com/verifield/verifield/types"

// Resolve maps a snapshot to exactly one state. Checks run in order and the
// first match wins: no network hides the wallet, no wallet hides the chain.
func Resolve(s types.ConnectivitySnapshot) types.ConnectionState {
	switch {
	case !s.NetworkOnline:
		return types.Offline{}
	case !s.WalletConnected:
		return types.WalletDisconnected{}
	case s.CurrentChainID != s.TargetChainID:
		return types.WrongChain{Current: s.CurrentChainID, Target: s.TargetChainID}
	default:
		return types.Ready{ChainID: s.CurrentChainID}
	}
}
