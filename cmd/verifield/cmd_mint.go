package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/verifield/verifield"
	"github.com/verifield/verifield/mint"
	"github.com/verifield/verifield/types"
)

var (
	draft       types.MintFormDraft
	mintNoDelay bool
)

// mintCmd runs the quick-mint workflow
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a dataset as an NFT",
	Long: `Validate a quick-mint draft and mint it. Minting is simulated: nothing
is submitted to a chain and nothing is persisted.

Required: --title, --description, --content-address, --content-hash (64 hex
characters, the SHA-256 of the dataset).`,
	Example: `  verifield mint --title "Climate Data 2024" --description "Daily readings" \
    --content-address QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG \
    --content-hash e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855 \
    --tags climate,weather --price 0.05`,
	RunE: runMint,
}

func init() {
	f := mintCmd.Flags()
	f.StringVar(&draft.Title, "title", "", "Dataset title")
	f.StringVar(&draft.Description, "description", "", "Dataset description")
	f.StringVar(&draft.ContentAddress, "content-address", "", "Content address (IPFS CID)")
	f.StringVar(&draft.ContentHash, "content-hash", "", "SHA-256 of the dataset, 64 hex characters")
	f.StringVar(&draft.LicenseURL, "license", "", "License URL")
	f.StringVar(&draft.Tags, "tags", "", "Comma separated tags")
	f.StringVar(&draft.PriceInEth, "price", "0", "Listing price in ETH")
	f.BoolVar(&mintNoDelay, "no-delay", false, "Skip the simulated confirmation delay")
}

func runMint(cmd *cobra.Command, args []string) error {
	var opts []verifield.Option
	if mintNoDelay {
		opts = append(opts, verifield.WithMinter(mint.NewSimulatedMinter(0)))
	}

	app, _, err := newApp(cmd, opts...)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.Mint(cmd.Context(), &draft)
	if err != nil {
		var verr *types.VerifieldError
		if errors.As(err, &verr) && verr.Code == types.ErrInvalidDraft {
			for _, fe := range mint.FieldErrors(err) {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return err
	}
	return printJSON(cmd, result)
}
