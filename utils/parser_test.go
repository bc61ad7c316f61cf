package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verifield/verifield/types"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`providerUrl: http://127.0.0.1:1248`))
	require.NoError(t, err)

	assert.Equal(t, types.ChainHardhat.ID, cfg.TargetChainID)
	assert.Equal(t, "http://127.0.0.1:1248", cfg.ProviderURL)
	assert.Equal(t, types.DefaultMintDelay, cfg.MintDelay)
	assert.Equal(t, types.DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseConfigFull(t *testing.T) {
	data := []byte(`
targetChainId: 11155111
providerUrl: ws://127.0.0.1:1248
listenAddr: 0.0.0.0:9090
logLevel: debug
enableMetrics: true
mintDelay: 0s
actionTimeout: 2m
probeInterval: 5s
chainPollInterval: 3s
chains:
  - id: 8453
    name: Base
    symbol: ETH
    decimals: 18
    rpcUrl: https://mainnet.base.org
`)
	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, types.ChainID(11155111), cfg.TargetChainID)
	assert.Equal(t, time.Duration(0), cfg.MintDelay)
	assert.Equal(t, 2*time.Minute, cfg.ActionTimeout)
	assert.Equal(t, 3*time.Second, cfg.ChainPollInterval)
	assert.True(t, cfg.EnableMetrics)
	require.Len(t, cfg.Chains, 1)
	assert.Equal(t, "Base", cfg.Chains[0].Name)
}

func TestParseConfigErrors(t *testing.T) {
	cases := map[string]string{
		"bad yaml":    "providerUrl: [",
		"bad url":     "providerUrl: not a url",
		"bad level":   "providerUrl: http://localhost:8545\nlogLevel: loud",
		"bad chain":   "providerUrl: http://localhost:8545\nchains:\n  - id: 5\n",
		"bad listen":  "providerUrl: http://localhost:8545\nlistenAddr: nope",
		"missing url": "providerUrl: ''",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			require.Error(t, err)

			var verr *types.VerifieldError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, types.ErrConfigError, verr.Code)
		})
	}
}

func TestValidateStructReportsJSONNames(t *testing.T) {
	draft := types.MintFormDraft{ContentHash: "abc", PriceInEth: "-2"}
	fieldErrs, err := ValidateStruct(&draft)
	require.NoError(t, err)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"title", "description", "contentAddress", "contentHash", "priceInEth"}, fields)
	assert.Equal(t, "must be exactly 64 characters", fieldErrs[3].Message)
}
