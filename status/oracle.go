// Package status derives the wallet connection status from host, wallet and
// chain signals, and offers the recovery actions for each status.
package status

import (
	"time"

	"github.com/verifield/verifield/clients"
	"github.com/verifield/verifield/types"
)

// Oracle samples the three connectivity signals. Sampling has no side effects
// and cannot fail.
type Oracle struct {
	probe     clients.NetworkProbe
	connector clients.WalletConnector
	target    types.ChainID
	now       func() time.Time
}

func NewOracle(probe clients.NetworkProbe, connector clients.WalletConnector, target types.ChainID) *Oracle {
	return &Oracle{
		probe:     probe,
		connector: connector,
		target:    target,
		now:       time.Now,
	}
}

// Sample reads a fresh snapshot. Without a wallet session the address and
// chain are reported absent.
func (o *Oracle) Sample() types.ConnectivitySnapshot {
	snap := types.ConnectivitySnapshot{
		NetworkOnline: o.probe.Online(),
		TargetChainID: o.target,
		ObservedAt:    o.now(),
	}
	if o.connector.IsConnected() {
		snap.WalletConnected = true
		snap.Address = o.connector.Address()
		snap.CurrentChainID = o.connector.ChainID()
	}
	return snap
}

// Target is the chain the dApp expects.
func (o *Oracle) Target() types.ChainID {
	return o.target
}
