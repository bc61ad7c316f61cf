package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/verifield/verifield/types"
)

const (
	recoverInitialDelay = time.Second
	recoverMaxDelay     = 10 * time.Second
)

var (
	statusRecover bool
	statusWait    time.Duration
)

// statusCmd prints the resolved connection state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the wallet connection state",
	Long: `Sample the network, the wallet session and the active chain and print
the resolved connection state.

With --recover the state's recovery action (connect or switch) is run first
and the state is printed once the wallet has answered. With --wait failed
attempts are retried, backing off from 1s up to 10s between them.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusRecover, "recover", false, "Run the recovery action of the current state")
	statusCmd.Flags().DurationVar(&statusWait, "wait", 0, "Keep running the recovery until ready or this long has passed")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	app, _, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Start(ctx); err != nil {
		return err
	}

	if statusRecover {
		if err := recoverUntilReady(ctx, app, statusWait, recoverInitialDelay); err != nil {
			return err
		}
	}

	return printJSON(cmd, map[string]any{
		"status":   app.Status(),
		"snapshot": app.Snapshot(),
	})
}

type recoverer interface {
	Recover(ctx context.Context) types.RecoveryAction
	WaitPending()
}

// recoverUntilReady runs the recovery action until the state offers none or
// wait has passed. Attempts are spaced by delay, doubling up to
// recoverMaxDelay.
func recoverUntilReady(ctx context.Context, r recoverer, wait, delay time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		action := r.Recover(ctx)
		r.WaitPending()
		if action == types.RecoveryNone {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		if delay > remaining {
			delay = remaining
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > recoverMaxDelay {
			delay = recoverMaxDelay
		}
	}
}
