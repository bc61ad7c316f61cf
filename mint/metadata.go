package mint

import (
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/shopspring/decimal"
	"github.com/verifield/verifield/types"
	"github.com/verifield/verifield/utils"
)

// ContentURI renders a content address as ipfs://<cid> when it parses as a
// CID. Anything else is kept as typed.
func ContentURI(address string) string {
	address = strings.TrimSpace(address)
	raw := strings.TrimPrefix(address, "ipfs://")
	c, err := cid.Decode(raw)
	if err != nil {
		return address
	}
	return "ipfs://" + c.String()
}

// BuildMetadata turns a validated draft into the NFT metadata document.
func BuildMetadata(draft *types.MintFormDraft, owner string, chainID types.ChainID) (types.DatasetMetadata, error) {
	wei, err := utils.ParseUnits(draft.PriceInEth, 18)
	if err != nil {
		return types.DatasetMetadata{}, &types.VerifieldError{
			Code:    types.ErrInvalidDraft,
			Message: "invalid price",
			Data:    []types.FieldError{{Field: "priceInEth", Message: "must be a non-negative decimal amount"}},
			Err:     err,
		}
	}

	return types.DatasetMetadata{
		Name:        strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		ContentURI:  ContentURI(draft.ContentAddress),
		SHA256:      strings.ToLower(strings.TrimSpace(draft.ContentHash)),
		License:     strings.TrimSpace(draft.LicenseURL),
		Tags:        utils.ParseTags(draft.Tags),
		Price:       decimal.NewFromBigInt(wei, -18),
		PriceWei:    wei.String(),
		Owner:       owner,
		ChainID:     chainID,
	}, nil
}
