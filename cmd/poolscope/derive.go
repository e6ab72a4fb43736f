package main

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolScope/internal/config"
	"poolScope/internal/pool"
)

func runDerive(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadDerive(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	address, err := deriveAddress(cfg)
	if err != nil {
		return err
	}

	logger.Debug("derived pool address",
		zap.String("factory", cfg.Factory),
		zap.Uint64("fee", cfg.Fee),
		zap.String("pool", address.Hex()),
	)

	fmt.Fprintln(cmd.OutOrStdout(), address.Hex())
	return nil
}

func deriveAddress(cfg config.DeriveConfig) (common.Address, error) {
	factory, err := parseAddress("factory", cfg.Factory)
	if err != nil {
		return common.Address{}, err
	}
	tokenA, err := parseAddress("token-a", cfg.TokenA)
	if err != nil {
		return common.Address{}, err
	}
	tokenB, err := parseAddress("token-b", cfg.TokenB)
	if err != nil {
		return common.Address{}, err
	}
	hash, err := pool.ParseHash(cfg.InitCodeHash)
	if err != nil {
		return common.Address{}, err
	}

	if cfg.Fee == 0 {
		return pool.DeriveV2(factory, tokenA, tokenB, hash), nil
	}
	fee, err := pool.ParseFeeTier(cfg.Fee)
	if err != nil {
		return common.Address{}, err
	}
	return pool.DeriveV3(factory, tokenA, tokenB, hash, fee), nil
}

func parseAddress(name, input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Address{}, fmt.Errorf("%s is required", name)
	}
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid %s address: %s", name, input)
	}
	return common.HexToAddress(input), nil
}
