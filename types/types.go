package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConnectivitySnapshot is a single observation of the three signals the
// connection status is derived from. It is produced fresh on every sample.
type ConnectivitySnapshot struct {
	NetworkOnline   bool      `json:"networkOnline"`
	WalletConnected bool      `json:"walletConnected"`
	Address         string    `json:"address,omitempty"`
	CurrentChainID  ChainID   `json:"currentChainId,omitempty"`
	TargetChainID   ChainID   `json:"targetChainId"`
	ObservedAt      time.Time `json:"observedAt"`
}

// MintFormDraft holds the quick-mint form fields exactly as the user typed them.
type MintFormDraft struct {
	// Title of the dataset (e.g., "Climate Data 2024").
	Title string `json:"title" validate:"nonblank"`

	// Description of the dataset.
	Description string `json:"description" validate:"nonblank"`

	// Content address of the dataset in content-addressed storage (IPFS CID).
	ContentAddress string `json:"contentAddress" validate:"nonblank"`

	// SHA-256 of the dataset as 64 hex characters.
	ContentHash string `json:"contentHash" validate:"nonblank,len=64"`

	// Optional license URL.
	LicenseURL string `json:"licenseUrl,omitempty"`

	// Comma separated tags, kept raw.
	Tags string `json:"tags,omitempty"`

	// Listing price in ETH. Empty means "0".
	PriceInEth string `json:"priceInEth,omitempty" validate:"omitempty,eth_amount"`
}

// FieldError describes one invalid draft field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DatasetMetadata is the NFT metadata document built from a valid draft.
type DatasetMetadata struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ContentURI  string          `json:"contentUri"`
	SHA256      string          `json:"sha256"`
	License     string          `json:"license,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Price       decimal.Decimal `json:"price"`
	PriceWei    string          `json:"priceWei"`
	Owner       string          `json:"owner,omitempty"`
	ChainID     ChainID         `json:"chainId,omitempty"`
}

// MintResult is returned after a (simulated) mint completes.
type MintResult struct {
	RequestID   string          `json:"requestId"`
	TokenID     uint64          `json:"tokenId"`
	DatasetPath string          `json:"datasetPath"`
	Metadata    DatasetMetadata `json:"metadata"`
	MintedAt    time.Time       `json:"mintedAt"`
}

// TransactionType classifies a wallet history entry.
type TransactionType string

const (
	TxReceived TransactionType = "received"
	TxSent     TransactionType = "sent"
	TxMint     TransactionType = "mint"
)

// Transaction is one wallet history entry.
type Transaction struct {
	ID          int             `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      string          `json:"amount"`
	From        string          `json:"from,omitempty"`
	To          string          `json:"to,omitempty"`
	Description string          `json:"description,omitempty"`
	Time        string          `json:"time"`
	Status      string          `json:"status"`
}

// WalletOverview is the wallet page model.
type WalletOverview struct {
	Connected     bool          `json:"connected"`
	Address       string        `json:"address,omitempty"`
	ShortAddress  string        `json:"shortAddress,omitempty"`
	ChainID       ChainID       `json:"chainId,omitempty"`
	ChainName     string        `json:"chainName,omitempty"`
	Balance       string        `json:"balance,omitempty"`
	UsdBalance    string        `json:"usdBalance,omitempty"`
	Symbol        string        `json:"symbol,omitempty"`
	CreditBalance string        `json:"creditBalance,omitempty"`
	Transactions  []Transaction `json:"transactions,omitempty"`
}

// Config contains global configuration for the verifield client
type Config struct {
	// Chain the dApp expects the wallet to be on.
	TargetChainID ChainID `json:"targetChainId" yaml:"targetChainId" validate:"required"`

	// EIP-1193 JSON-RPC endpoint of the wallet provider.
	ProviderURL string `json:"providerUrl" yaml:"providerUrl" validate:"required,url"`

	// Extra chains merged into the built-in registry.
	Chains []Chain `json:"chains,omitempty" yaml:"chains,omitempty" validate:"dive"`

	ListenAddr string `json:"listenAddr,omitempty" yaml:"listenAddr,omitempty" validate:"omitempty,hostname_port"`
	LogLevel   string `json:"logLevel,omitempty" yaml:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`

	EnableMetrics bool `json:"enableMetrics,omitempty" yaml:"enableMetrics,omitempty"`

	MintDelay         time.Duration `json:"mintDelay,omitempty" yaml:"mintDelay,omitempty" validate:"gte=0"`
	ActionTimeout     time.Duration `json:"actionTimeout,omitempty" yaml:"actionTimeout,omitempty" validate:"gte=0"`
	ProbeInterval     time.Duration `json:"probeInterval,omitempty" yaml:"probeInterval,omitempty" validate:"gte=0"`
	ChainPollInterval time.Duration `json:"chainPollInterval,omitempty" yaml:"chainPollInterval,omitempty" validate:"gte=0"`

	NotificationBacklog int `json:"notificationBacklog,omitempty" yaml:"notificationBacklog,omitempty" validate:"gte=0"`
}

const (
	DefaultMintDelay           = 2500 * time.Millisecond
	DefaultProbeInterval       = 2 * time.Second
	DefaultNotificationBacklog = 50
	DefaultListenAddr          = "127.0.0.1:8080"
)

// DefaultConfig targets the local Hardhat node through a provider on the same
// host.
func DefaultConfig() *Config {
	return &Config{
		TargetChainID:       ChainHardhat.ID,
		ProviderURL:         ChainHardhat.RPCURL,
		ListenAddr:          DefaultListenAddr,
		LogLevel:            "info",
		MintDelay:           DefaultMintDelay,
		ProbeInterval:       DefaultProbeInterval,
		NotificationBacklog: DefaultNotificationBacklog,
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Chains = append([]Chain(nil), c.Chains...)
	return &out
}

// ApplyDefaults fills zero values that have a non-zero default. MintDelay is
// left alone so a zero delay can be configured explicitly.
func (c *Config) ApplyDefaults() {
	if c.TargetChainID == 0 {
		c.TargetChainID = ChainHardhat.ID
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ProbeInterval == 0 {
		c.ProbeInterval = DefaultProbeInterval
	}
	if c.NotificationBacklog == 0 {
		c.NotificationBacklog = DefaultNotificationBacklog
	}
}

// Error types
type VerifieldError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Err     error       `json:"-"`
}

func (e *VerifieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *VerifieldError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrConnectionRequestFailed = "CONNECTION_REQUEST_FAILED"
	ErrChainSwitchFailed       = "CHAIN_SWITCH_FAILED"
	ErrInvalidDraft            = "INVALID_DRAFT"
	ErrMintFailed              = "MINT_FAILED"
	ErrConfigError             = "CONFIG_ERROR"
	ErrNetworkError            = "NETWORK_ERROR"
)

// NewError builds a VerifieldError wrapping err.
func NewError(code, message string, err error) *VerifieldError {
	return &VerifieldError{Code: code, Message: message, Err: err}
}
