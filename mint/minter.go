package mint

import (
	"context"
	"math/rand"
	"time"

	"github.com/verifield/verifield/types"
)

// Minter turns dataset metadata into a token.
type Minter interface {
	Mint(ctx context.Context, metadata types.DatasetMetadata) (uint64, error)
}

// MaxSimulatedTokenID bounds the ids handed out by SimulatedMinter.
const MaxSimulatedTokenID = 10000

// SimulatedMinter pretends to submit a mint: it waits Delay and returns a
// random token id in [0, MaxSimulatedTokenID). Nothing is persisted.
type SimulatedMinter struct {
	Delay time.Duration

	// TokenID overrides the random id when set.
	TokenID func() uint64
}

// NewSimulatedMinter returns a minter with the given delay.
func NewSimulatedMinter(delay time.Duration) *SimulatedMinter {
	return &SimulatedMinter{Delay: delay}
}

func (m *SimulatedMinter) Mint(ctx context.Context, metadata types.DatasetMetadata) (uint64, error) {
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return 0, err
	}

	if m.TokenID != nil {
		return m.TokenID(), nil
	}
	return uint64(rand.Int63n(MaxSimulatedTokenID)), nil
}
