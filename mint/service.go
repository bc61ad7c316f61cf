// Package mint validates mint form drafts and turns them into (simulated)
// dataset NFTs.
package mint

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/metrics"
	"github.com/verifield/verifield/notify"
	"github.com/verifield/verifield/types"
	"github.com/verifield/verifield/utils"
)

// Owner reports the wallet session the minted token is attributed to.
type Owner interface {
	Address() string
	ChainID() types.ChainID
}

// Service runs the quick-mint workflow.
type Service struct {
	minter   Minter
	owner    Owner
	notifier notify.Notifier
	log      logger.Logger
	rec      metrics.Recorder
	now      func() time.Time
}

// NewService creates a mint service. owner may be nil, in which case tokens
// carry no owner.
func NewService(
	minter Minter,
	owner Owner,
	notifier notify.Notifier,
	log logger.Logger,
	rec metrics.Recorder,
) *Service {
	if minter == nil {
		minter = NewSimulatedMinter(types.DefaultMintDelay)
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Service{
		minter:   minter,
		owner:    owner,
		notifier: notifier,
		log:      log,
		rec:      rec,
		now:      time.Now,
	}
}

// QuickMint validates the draft and mints it. Invalid drafts are returned as
// INVALID_DRAFT without notifying; mint failures notify and return
// MINT_FAILED.
func (s *Service) QuickMint(ctx context.Context, draft *types.MintFormDraft) (*types.MintResult, error) {
	if err := ValidateDraft(draft); err != nil {
		s.rec.IncCounter(metrics.DraftRejected, map[string]string{"outcome": "invalid"})
		s.log.Debug("mint draft rejected", map[string]any{"err": err})
		return nil, err
	}

	var owner string
	var chainID types.ChainID
	if s.owner != nil {
		owner, chainID = s.owner.Address(), s.owner.ChainID()
	}
	if owner != "" {
		if err := utils.ValidateAddress(owner); err != nil {
			s.log.Warn("wallet reported an unusable account", map[string]any{"owner": owner, "err": err})
			return nil, &types.VerifieldError{
				Code:    types.ErrMintFailed,
				Message: "invalid owner address",
				Err:     err,
			}
		}
	}

	metadata, err := BuildMetadata(draft, owner, chainID)
	if err != nil {
		s.rec.IncCounter(metrics.DraftRejected, map[string]string{"outcome": "invalid"})
		return nil, err
	}

	requestID := uuid.NewString()
	log := logger.With(s.log, map[string]any{"requestId": requestID})
	log.Info("minting dataset", map[string]any{
		"name":       metadata.Name,
		"contentUri": metadata.ContentURI,
	})

	start := time.Now()
	tokenID, err := s.minter.Mint(ctx, metadata)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	s.rec.IncCounter(metrics.Mint, map[string]string{"outcome": outcome})
	s.rec.ObserveLatency(metrics.Mint, time.Since(start), map[string]string{"outcome": outcome})

	if err != nil {
		log.Error("mint failed", map[string]any{"err": err})
		s.notifier.Notify("Minting Failed", "There was an error minting your NFT", notify.SeverityDestructive)
		return nil, &types.VerifieldError{
			Code:    types.ErrMintFailed,
			Message: "failed to mint dataset",
			Data:    requestID,
			Err:     err,
		}
	}

	s.notifier.Notify("NFT Minted Successfully!",
		fmt.Sprintf("Your dataset %q has been minted as NFT #%d", metadata.Name, tokenID),
		notify.SeveritySuccess)
	log.Info("dataset minted", map[string]any{"tokenId": tokenID})

	return &types.MintResult{
		RequestID:   requestID,
		TokenID:     tokenID,
		DatasetPath: DatasetPath(tokenID),
		Metadata:    metadata,
		MintedAt:    s.now(),
	}, nil
}

// DatasetPath is where a minted dataset is shown.
func DatasetPath(tokenID uint64) string {
	return fmt.Sprintf("/dataset/%d", tokenID)
}
