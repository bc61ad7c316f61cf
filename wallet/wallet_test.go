package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifield/verifield/notify"
	"github.com/verifield/verifield/types"
)

type fakeSession struct {
	connected bool
	chainID   types.ChainID
	balance   *big.Int
	err       error
}

func (f *fakeSession) Balance(context.Context) (*big.Int, error) { return f.balance, f.err }
func (f *fakeSession) Address() string                           { return "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" }
func (f *fakeSession) IsConnected() bool                         { return f.connected }
func (f *fakeSession) ChainID() types.ChainID                    { return f.chainID }

func TestOverviewDisconnected(t *testing.T) {
	svc := NewService(&fakeSession{}, nil, nil)

	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &types.WalletOverview{Connected: false}, ov)
}

func TestOverview(t *testing.T) {
	balance, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	svc := NewService(&fakeSession{connected: true, chainID: 31337, balance: balance}, nil, nil)

	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.True(t, ov.Connected)
	assert.Equal(t, "0xf39F...2266", ov.ShortAddress)
	assert.Equal(t, "Hardhat Local", ov.ChainName)
	assert.Equal(t, "1.5", ov.Balance)
	assert.Equal(t, "3000.00", ov.UsdBalance)
	assert.Equal(t, "ETH", ov.Symbol)
	assert.Equal(t, "15,420", ov.CreditBalance)

	require.Len(t, ov.Transactions, 4)
	assert.Equal(t, types.TxMint, ov.Transactions[2].Type)
	assert.Equal(t, "-0.02 ETH", ov.Transactions[2].Amount)
	assert.Equal(t, "+1.2 ETH", ov.Transactions[3].Amount)
}

func TestOverviewBalanceError(t *testing.T) {
	svc := NewService(&fakeSession{connected: true, chainID: 1, err: assert.AnError}, nil, nil)

	_, err := svc.Overview(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRefreshNotifies(t *testing.T) {
	feed := notify.NewFeed(5)
	svc := NewService(&fakeSession{}, feed, nil)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	recent := feed.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "Refreshing...", recent[0].Title)
	assert.Equal(t, "Updating wallet balance and transactions", recent[0].Description)
}

func TestTransactionsIsACopy(t *testing.T) {
	txs := Transactions()
	txs[0].Amount = "changed"
	assert.Equal(t, "+0.5 ETH", Transactions()[0].Amount)
}
