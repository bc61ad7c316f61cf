package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifield/verifield/types"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, "Hardhat Local")
}

func TestMintCommand(t *testing.T) {
	out, _, err := execute(t, "mint", "--no-delay", "--log-level", "error",
		"--title", "Climate Data 2024",
		"--description", "Daily readings",
		"--content-address", "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
		"--content-hash", strings.Repeat("a", 64),
		"--tags", "climate,weather",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"datasetPath": "/dataset/`)
	assert.Contains(t, out, `"contentUri": "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"`)
}

func TestMintCommandRejectsDraft(t *testing.T) {
	_, stderr, err := execute(t, "mint", "--no-delay", "--log-level", "error", "--title", "only a title")
	require.Error(t, err)
	assert.Contains(t, stderr, "contentHash: is required")
	assert.Contains(t, stderr, "description: is required")
}

func TestStatusCommandUsesConfigAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verifield.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
targetChainId: 11155111
providerUrl: http://127.0.0.1:1
logLevel: error
`), 0o600))

	out, _, err := execute(t, "status", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"targetChainId": 11155111`)

	out, _, err = execute(t, "status", "--config", path, "--target-chain", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"targetChainId": 1,`)
}

func TestStatusCommandBadConfig(t *testing.T) {
	_, _, err := execute(t, "status", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type stuckRecoverer struct {
	action   types.RecoveryAction
	attempts []time.Time
}

func (s *stuckRecoverer) Recover(context.Context) types.RecoveryAction {
	s.attempts = append(s.attempts, time.Now())
	return s.action
}

func (s *stuckRecoverer) WaitPending() {}

func TestRecoverUntilReadyBacksOff(t *testing.T) {
	r := &stuckRecoverer{action: types.RecoveryConnect}

	require.NoError(t, recoverUntilReady(context.Background(), r, 150*time.Millisecond, 20*time.Millisecond))

	// 0, 20, 60, 140 and the final attempt at the deadline
	assert.LessOrEqual(t, len(r.attempts), 6)
	require.GreaterOrEqual(t, len(r.attempts), 2)
	assert.GreaterOrEqual(t, r.attempts[1].Sub(r.attempts[0]), 20*time.Millisecond)
}

func TestRecoverUntilReadyStopsWhenReady(t *testing.T) {
	r := &stuckRecoverer{action: types.RecoveryNone}
	require.NoError(t, recoverUntilReady(context.Background(), r, time.Minute, time.Second))
	assert.Len(t, r.attempts, 1)
}

func TestRecoverUntilReadyHonoursContext(t *testing.T) {
	r := &stuckRecoverer{action: types.RecoverySwitch}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := recoverUntilReady(ctx, r, time.Minute, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, r.attempts, 1)
}
