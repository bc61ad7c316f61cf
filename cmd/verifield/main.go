// Command verifield hosts the dataset-NFT marketplace client: connection
// status, wallet recovery actions and quick mint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/verifield/verifield"
	"github.com/verifield/verifield/logger"
	"github.com/verifield/verifield/types"
	"github.com/verifield/verifield/utils"
)

var (
	configPath  string
	logLevel    string
	providerURL string
	targetChain uint64
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "verifield",
	Short: "Dataset NFT marketplace client",
	Long: `verifield tracks the wallet connection state of a dataset NFT
marketplace session, offers the matching recovery action and mints datasets.

States:
  offline              - the host has no network
  wallet_disconnected  - no wallet session, recovery: connect
  wrong_chain          - wallet on another chain, recovery: switch
  ready                - connected to the target chain`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&providerURL, "provider", "", "Wallet provider JSON-RPC endpoint")
	rootCmd.PersistentFlags().Uint64Var(&targetChain, "target-chain", 0, "Chain id the wallet must be on")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config when given and applies the flag overrides.
func loadConfig(cmd *cobra.Command) (*types.Config, error) {
	config := types.DefaultConfig()
	if configPath != "" {
		loaded, err := utils.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		config.LogLevel = logLevel
	}
	if flags.Changed("provider") {
		config.ProviderURL = providerURL
	}
	if flags.Changed("target-chain") {
		config.TargetChainID = types.ChainID(targetChain)
	}
	return config, nil
}

// newApp builds the App and its zap logger from the command's config.
func newApp(cmd *cobra.Command, opts ...verifield.Option) (*verifield.App, *types.Config, error) {
	config, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.NewZapLogger(config.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app, err := verifield.New(config, append([]verifield.Option{verifield.WithLogger(log)}, opts...)...)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return app, config, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := utils.NormalizeJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
