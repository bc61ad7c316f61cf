// Package wallet builds the wallet page model: balance, credits and recent
// transactions of the attached session.
package wallet

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/verifield/verifield/clients"
	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/notify"
	"github.com/verifield/verifield/types"
	"github.com/verifield/verifield/utils"
)

// Session is what the overview needs from the wallet connector.
type Session interface {
	clients.BalanceReader
	Address() string
	IsConnected() bool
	ChainID() types.ChainID
}

// CreditBalance is the platform credit balance shown until credits are
// backed by a contract.
const CreditBalance = "15,420"

// usdRate is the mock ETH/USD rate used for the fiat estimate.
var usdRate = decimal.NewFromInt(2000)

var mockTransactions = []types.Transaction{
	{ID: 1, Type: types.TxReceived, Amount: "+0.5 ETH", From: "0x123...abc", Time: "2 hours ago", Status: "confirmed"},
	{ID: 2, Type: types.TxSent, Amount: "-0.1 ETH", To: "0x456...def", Time: "1 day ago", Status: "confirmed"},
	{ID: 3, Type: types.TxMint, Amount: "-0.02 ETH", Description: "Dataset NFT Mint", Time: "2 days ago", Status: "confirmed"},
	{ID: 4, Type: types.TxReceived, Amount: "+1.2 ETH", From: "0x789...ghi", Time: "3 days ago", Status: "confirmed"},
}

type Service struct {
	session  Session
	notifier notify.Notifier
	log      logger.Logger
}

func NewService(session Session, notifier notify.Notifier, log logger.Logger) *Service {
	if notifier == nil {
		notifier = notify.Discard
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &Service{session: session, notifier: notifier, log: log}
}

// Overview reads the balance of the attached account. Without a session it
// returns an overview with Connected=false and no error.
func (s *Service) Overview(ctx context.Context) (*types.WalletOverview, error) {
	if !s.session.IsConnected() {
		return &types.WalletOverview{Connected: false}, nil
	}

	address := s.session.Address()
	chainID := s.session.ChainID()

	wei, err := s.session.Balance(ctx)
	if err != nil {
		s.log.Warn("failed to read wallet balance", map[string]any{"err": err, "address": address})
		return nil, err
	}

	return &types.WalletOverview{
		Connected:     true,
		Address:       address,
		ShortAddress:  utils.ShortAddress(address),
		ChainID:       chainID,
		ChainName:     types.ChainName(chainID),
		Balance:       utils.FormatEther(wei),
		UsdBalance:    usdEstimate(wei),
		Symbol:        types.NativeSymbol(chainID),
		CreditBalance: CreditBalance,
		Transactions:  Transactions(),
	}, nil
}

// Refresh announces the refresh and re-reads the overview.
func (s *Service) Refresh(ctx context.Context) (*types.WalletOverview, error) {
	s.notifier.Notify("Refreshing...", "Updating wallet balance and transactions", notify.SeverityInfo)
	return s.Overview(ctx)
}

// Transactions returns a copy of the recent transaction list.
func Transactions() []types.Transaction {
	return append([]types.Transaction(nil), mockTransactions...)
}

func usdEstimate(wei *big.Int) string {
	if wei == nil {
		return "0.00"
	}
	return decimal.NewFromBigInt(wei, -18).Mul(usdRate).StringFixed(2)
}
