package types

import "fmt"

// StateKind names a ConnectionState variant.
type StateKind string

const (
	KindOffline            StateKind = "offline"
	KindWalletDisconnected StateKind = "wallet_disconnected"
	KindWrongChain         StateKind = "wrong_chain"
	KindReady              StateKind = "ready"
)

// RecoveryAction is the user action offered for a state.
type RecoveryAction string

const (
	RecoveryNone    RecoveryAction = "none"
	RecoveryConnect RecoveryAction = "connect_wallet"
	RecoverySwitch  RecoveryAction = "switch_network"
)

// ConnectionState is one of Offline, WalletDisconnected, WrongChain or Ready.
// The interface is sealed; all variants are comparable values so two states
// can be compared with ==.
type ConnectionState interface {
	Kind() StateKind
	Title() string
	Description() string
	Recovery() RecoveryAction
	connectionState()
}

// Offline means the host has no network connection.
type Offline struct{}

// WalletDisconnected means no wallet session is attached.
type WalletDisconnected struct{}

// WrongChain means the wallet targets a chain other than the dApp's.
type WrongChain struct {
	Current ChainID
	Target  ChainID
}

// Ready means the wallet is attached and on the target chain.
type Ready struct {
	ChainID ChainID
}

func (Offline) connectionState()            {}
func (WalletDisconnected) connectionState() {}
func (WrongChain) connectionState()         {}
func (Ready) connectionState()              {}

func (Offline) Kind() StateKind            { return KindOffline }
func (WalletDisconnected) Kind() StateKind { return KindWalletDisconnected }
func (WrongChain) Kind() StateKind         { return KindWrongChain }
func (Ready) Kind() StateKind              { return KindReady }

func (Offline) Title() string            { return "No Network Connection" }
func (WalletDisconnected) Title() string { return "Wallet Not Connected" }
func (WrongChain) Title() string         { return "Wrong Network" }
func (s Ready) Title() string            { return "Connected to " + ChainName(s.ChainID) }

func (Offline) Description() string            { return "Unable to connect to blockchain" }
func (WalletDisconnected) Description() string { return "Connect wallet to use dApp features" }
func (s WrongChain) Description() string {
	current := "an unknown network"
	if s.Current != 0 {
		current = ChainName(s.Current)
	}
	return fmt.Sprintf("Connected to %s, switch to %s", current, ChainName(s.Target))
}
func (Ready) Description() string { return "Ready for blockchain interactions" }

func (Offline) Recovery() RecoveryAction            { return RecoveryNone }
func (WalletDisconnected) Recovery() RecoveryAction { return RecoveryConnect }
func (WrongChain) Recovery() RecoveryAction         { return RecoverySwitch }
func (Ready) Recovery() RecoveryAction              { return RecoveryNone }

func (Offline) String() string            { return string(KindOffline) }
func (WalletDisconnected) String() string { return string(KindWalletDisconnected) }
func (s WrongChain) String() string {
	return fmt.Sprintf("%s(%d, %d)", KindWrongChain, s.Current, s.Target)
}
func (s Ready) String() string { return fmt.Sprintf("%s(%d)", KindReady, s.ChainID) }

// StatusView is the serialisable form of a ConnectionState.
type StatusView struct {
	State          StateKind      `json:"state"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Recovery       RecoveryAction `json:"recovery"`
	CurrentChainID ChainID        `json:"currentChainId,omitempty"`
	TargetChainID  ChainID        `json:"targetChainId,omitempty"`
}

// ViewOf renders a state for transport.
func ViewOf(s ConnectionState) StatusView {
	v := StatusView{
		State:       s.Kind(),
		Title:       s.Title(),
		Description: s.Description(),
		Recovery:    s.Recovery(),
	}
	switch st := s.(type) {
	case WrongChain:
		v.CurrentChainID = st.Current
		v.TargetChainID = st.Target
	case Ready:
		v.CurrentChainID = st.ChainID
		v.TargetChainID = st.ChainID
	}
	return v
}
