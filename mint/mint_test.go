package mint

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifield/verifield/notify"
	"github.com/verifield/verifield/types"
)

const (
	cidV0 = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	cidV1 = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
)

var validHash = strings.Repeat("ab", 32)

func validDraft() *types.MintFormDraft {
	return &types.MintFormDraft{
		Title:          "Climate Data 2024",
		Description:    "Daily temperature readings",
		ContentAddress: cidV0,
		ContentHash:    validHash,
		LicenseURL:     "https://creativecommons.org/licenses/by/4.0/",
		Tags:           "climate, weather, ,Climate",
		PriceInEth:     "0.05",
	}
}

type staticOwner struct{}

func (staticOwner) Address() string        { return "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" }
func (staticOwner) ChainID() types.ChainID { return 31337 }

type failingMinter struct{}

func (failingMinter) Mint(context.Context, types.DatasetMetadata) (uint64, error) {
	return 0, errors.New("node unreachable")
}

func TestValidateDraft(t *testing.T) {
	require.NoError(t, ValidateDraft(validDraft()))

	cases := map[string]struct {
		mutate func(d *types.MintFormDraft)
		fields []string
	}{
		"blank title": {
			mutate: func(d *types.MintFormDraft) { d.Title = "   " },
			fields: []string{"title"},
		},
		"short hash": {
			mutate: func(d *types.MintFormDraft) { d.ContentHash = "abc123" },
			fields: []string{"contentHash"},
		},
		"long hash": {
			mutate: func(d *types.MintFormDraft) { d.ContentHash = validHash + "a" },
			fields: []string{"contentHash"},
		},
		"negative price": {
			mutate: func(d *types.MintFormDraft) { d.PriceInEth = "-1" },
			fields: []string{"priceInEth"},
		},
		"garbage price": {
			mutate: func(d *types.MintFormDraft) { d.PriceInEth = "lots" },
			fields: []string{"priceInEth"},
		},
		"everything missing": {
			mutate: func(d *types.MintFormDraft) { *d = types.MintFormDraft{} },
			fields: []string{"title", "description", "contentAddress", "contentHash"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(d)

			err := ValidateDraft(d)
			require.Error(t, err)

			var verr *types.VerifieldError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, types.ErrInvalidDraft, verr.Code)

			var fields []string
			for _, fe := range FieldErrors(err) {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tc.fields, fields)
		})
	}
}

func TestValidateDraftOptionalFields(t *testing.T) {
	d := validDraft()
	d.LicenseURL = ""
	d.Tags = ""
	d.PriceInEth = ""
	assert.NoError(t, ValidateDraft(d))

	assert.Error(t, ValidateDraft(nil))
	assert.Nil(t, FieldErrors(errors.New("other")))
}

func TestContentURI(t *testing.T) {
	assert.Equal(t, "ipfs://"+cidV0, ContentURI(cidV0))
	assert.Equal(t, "ipfs://"+cidV1, ContentURI(" ipfs://"+cidV1+" "))
	assert.Equal(t, "ar://some-arweave-tx", ContentURI("ar://some-arweave-tx"))
}

func TestBuildMetadata(t *testing.T) {
	d := validDraft()
	d.ContentHash = strings.ToUpper(validHash)

	md, err := BuildMetadata(d, "0xabc", 31337)
	require.NoError(t, err)
	assert.Equal(t, "Climate Data 2024", md.Name)
	assert.Equal(t, "ipfs://"+cidV0, md.ContentURI)
	assert.Equal(t, validHash, md.SHA256)
	assert.Equal(t, []string{"climate", "weather"}, md.Tags)
	assert.True(t, md.Price.Equal(decimal.RequireFromString("0.05")))
	assert.Equal(t, "50000000000000000", md.PriceWei)
	assert.Equal(t, "0xabc", md.Owner)
	assert.Equal(t, types.ChainID(31337), md.ChainID)

	d.PriceInEth = ""
	md, err = BuildMetadata(d, "", 0)
	require.NoError(t, err)
	assert.True(t, md.Price.IsZero())
	assert.Equal(t, "0", md.PriceWei)
}

func TestSimulatedMinter(t *testing.T) {
	m := NewSimulatedMinter(0)
	for i := 0; i < 100; i++ {
		id, err := m.Mint(context.Background(), types.DatasetMetadata{})
		require.NoError(t, err)
		assert.Less(t, id, uint64(MaxSimulatedTokenID))
	}

	slow := NewSimulatedMinter(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := slow.Mint(ctx, types.DatasetMetadata{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuickMint(t *testing.T) {
	feed := notify.NewFeed(10)
	minter := &SimulatedMinter{TokenID: func() uint64 { return 42 }}
	svc := NewService(minter, staticOwner{}, feed, nil, nil)

	res, err := svc.QuickMint(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.TokenID)
	assert.Equal(t, "/dataset/42", res.DatasetPath)
	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", res.Metadata.Owner)
	assert.False(t, res.MintedAt.IsZero())

	recent := feed.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "NFT Minted Successfully!", recent[0].Title)
	assert.Equal(t, `Your dataset "Climate Data 2024" has been minted as NFT #42`, recent[0].Description)
	assert.Equal(t, notify.SeveritySuccess, recent[0].Severity)
}

func TestQuickMintInvalidDraftDoesNotNotify(t *testing.T) {
	feed := notify.NewFeed(10)
	svc := NewService(NewSimulatedMinter(0), nil, feed, nil, nil)

	d := validDraft()
	d.ContentHash = "abc"
	res, err := svc.QuickMint(context.Background(), d)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, []types.FieldError{{Field: "contentHash", Message: "must be exactly 64 characters"}}, FieldErrors(err))
	assert.Empty(t, feed.Recent())
}

func TestQuickMintFailure(t *testing.T) {
	feed := notify.NewFeed(10)
	svc := NewService(failingMinter{}, nil, feed, nil, nil)

	_, err := svc.QuickMint(context.Background(), validDraft())
	var verr *types.VerifieldError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.ErrMintFailed, verr.Code)

	recent := feed.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "Minting Failed", recent[0].Title)
	assert.Equal(t, notify.SeverityDestructive, recent[0].Severity)
}

type strangeOwner struct{}

func (strangeOwner) Address() string        { return "not-an-address" }
func (strangeOwner) ChainID() types.ChainID { return 31337 }

func TestQuickMintRejectsInvalidOwner(t *testing.T) {
	feed := notify.NewFeed(10)
	minter := &SimulatedMinter{TokenID: func() uint64 {
		t.Fatal("minter must not be called")
		return 0
	}}
	svc := NewService(minter, strangeOwner{}, feed, nil, nil)

	res, err := svc.QuickMint(context.Background(), validDraft())
	assert.Nil(t, res)
	var verr *types.VerifieldError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.ErrMintFailed, verr.Code)
	assert.Empty(t, feed.Recent())
}
