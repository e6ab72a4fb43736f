package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "poolscope",
		Short:        "Uniswap-style pool address derivation and discovery",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	deriveCmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a pool address offline",
		RunE:  runDerive,
	}

	deriveCmd.Flags().String("factory", "", "factory address")
	deriveCmd.Flags().String("token-a", "", "first token address")
	deriveCmd.Flags().String("token-b", "", "second token address")
	deriveCmd.Flags().String("init-code-hash", "", "pool init code hash (32 bytes hex)")
	deriveCmd.Flags().Uint64("fee", 0, "univ3 fee tier, 0 derives a univ2 pair")
	deriveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(deriveCmd)

	discoverCmd := &cobra.Command{
		Use:   "discover",
		Short: "Derive candidate pools and verify them on chain",
		RunE:  runDiscover,
	}

	discoverCmd.Flags().String("rpc", "", "RPC URL")
	discoverCmd.Flags().Uint64("chain-id", 0, "chain id, 0 means ask the RPC")
	discoverCmd.Flags().StringSlice("tokens", nil, "token addresses (comma-separated)")
	discoverCmd.Flags().Int("batch-size", 50, "candidates verified per batch")
	discoverCmd.Flags().Int("concurrency", 8, "concurrent verifications per batch")
	discoverCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	discoverCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	discoverCmd.Flags().String("out", "./data/pools.jsonl", "output JSONL path")
	discoverCmd.Flags().String("pg-dsn", "", "optional Postgres DSN")
	discoverCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(discoverCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
