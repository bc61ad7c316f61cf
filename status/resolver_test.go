package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/verifield/verifield/types"
)

func TestResolve(t *testing.T) {
	const hardhat = types.ChainID(31337)

	cases := []struct {
		name string
		snap types.ConnectivitySnapshot
		want types.ConnectionState
	}{
		{
			name: "offline dominates a ready wallet",
			snap: types.ConnectivitySnapshot{NetworkOnline: false, WalletConnected: true, CurrentChainID: hardhat, TargetChainID: hardhat},
			want: types.Offline{},
		},
		{
			name: "offline dominates a wrong chain",
			snap: types.ConnectivitySnapshot{NetworkOnline: false, WalletConnected: true, CurrentChainID: 1, TargetChainID: hardhat},
			want: types.Offline{},
		},
		{
			name: "no wallet",
			snap: types.ConnectivitySnapshot{NetworkOnline: true, WalletConnected: false, TargetChainID: hardhat},
			want: types.WalletDisconnected{},
		},
		{
			name: "no wallet hides a stale chain id",
			snap: types.ConnectivitySnapshot{NetworkOnline: true, WalletConnected: false, CurrentChainID: 1, TargetChainID: hardhat},
			want: types.WalletDisconnected{},
		},
		{
			name: "wrong chain",
			snap: types.ConnectivitySnapshot{NetworkOnline: true, WalletConnected: true, CurrentChainID: 1, TargetChainID: hardhat},
			want: types.WrongChain{Current: 1, Target: hardhat},
		},
		{
			name: "connected without a chain id",
			snap: types.ConnectivitySnapshot{NetworkOnline: true, WalletConnected: true, TargetChainID: hardhat},
			want: types.WrongChain{Current: 0, Target: hardhat},
		},
		{
			name: "ready",
			snap: types.ConnectivitySnapshot{NetworkOnline: true, WalletConnected: true, CurrentChainID: hardhat, TargetChainID: hardhat},
			want: types.Ready{ChainID: hardhat},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.snap))
		})
	}
}

func TestResolveIsExhaustive(t *testing.T) {
	chains := []types.ChainID{0, 1, 31337}
	for _, online := range []bool{false, true} {
		for _, wallet := range []bool{false, true} {
			for _, current := range chains {
				snap := types.ConnectivitySnapshot{
					NetworkOnline:   online,
					WalletConnected: wallet,
					CurrentChainID:  current,
					TargetChainID:   31337,
				}
				state := Resolve(snap)

				var want types.StateKind
				switch {
				case !online:
					want = types.KindOffline
				case !wallet:
					want = types.KindWalletDisconnected
				case current != 31337:
					want = types.KindWrongChain
				default:
					want = types.KindReady
				}
				assert.Equal(t, want, state.Kind(), "%+v", snap)
			}
		}
	}
}

func TestStateCopy(t *testing.T) {
	assert.Equal(t, "No Network Connection", types.Offline{}.Title())
	assert.Equal(t, types.RecoveryConnect, types.WalletDisconnected{}.Recovery())

	wrong := types.WrongChain{Current: 1, Target: 31337}
	assert.Equal(t, "Connected to Ethereum Mainnet, switch to Hardhat Local", wrong.Description())
	assert.Equal(t, types.RecoverySwitch, wrong.Recovery())
	assert.Equal(t, "Connected to an unknown network, switch to Hardhat Local",
		types.WrongChain{Target: 31337}.Description())

	ready := types.Ready{ChainID: 31337}
	assert.Equal(t, "Connected to Hardhat Local", ready.Title())

	view := types.ViewOf(wrong)
	assert.Equal(t, types.KindWrongChain, view.State)
	assert.Equal(t, types.ChainID(1), view.CurrentChainID)
	assert.Equal(t, types.ChainID(31337), view.TargetChainID)
	assert.Equal(t, "Chain 424242", types.ChainName(424242))
}
