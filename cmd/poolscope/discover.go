package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poolScope/internal/chain"
	"poolScope/internal/config"
	"poolScope/internal/dex"
	"poolScope/internal/discovery"
	"poolScope/internal/model"
	"poolScope/internal/registry"
	"poolScope/internal/storage"
	"poolScope/internal/storage/postgres"
)

func runDiscover(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	tokens, err := discovery.ParseAddresses(cfg.Tokens)
	if err != nil {
		return err
	}
	factories, err := buildFactories(cfg.Factories)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	chainID := cfg.ChainID
	if chainID == 0 {
		id, err := chainClient.GetChainID(ctx)
		if err != nil {
			return fmt.Errorf("get chain id: %w", err)
		}
		if !id.IsUint64() {
			return fmt.Errorf("chain id out of range: %s", id)
		}
		chainID = id.Uint64()
	}

	reg := registry.New()
	if err := seedRegistry(reg, registry.Blacklist, chainID, cfg.Blacklist); err != nil {
		return err
	}
	if err := seedRegistry(reg, registry.Whitelist, chainID, cfg.Whitelist); err != nil {
		return err
	}

	verifier, err := dex.NewPoolVerifier(chainClient, logger)
	if err != nil {
		return err
	}

	sinks := storage.Multi{storage.NewJsonlStorage(cfg.Out)}
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, store)
	}

	runner := discovery.NewRunner(discovery.RunConfig{
		ChainID:      chainID,
		Factories:    factories,
		Tokens:       tokens,
		BatchSize:    cfg.BatchSize,
		Concurrency:  cfg.Concurrency,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, reg, verifier, sinks, logger)

	logger.Info("discovery start",
		zap.String("rpc", cfg.RPCURL),
		zap.Uint64("chain_id", chainID),
		zap.Int("tokens", len(tokens)),
		zap.Int("factories", len(factories)),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Int("concurrency", cfg.Concurrency),
		zap.String("out", cfg.Out),
		zap.Bool("postgres", cfg.PGDSN != ""),
	)

	if _, err := runner.Run(ctx); err != nil {
		return err
	}

	return logRegistry(logger, reg)
}

func buildFactories(configs []config.FactoryConfig) ([]discovery.Factory, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("at least one factory is required")
	}
	factories := make([]discovery.Factory, 0, len(configs))
	for i, fc := range configs {
		name := fc.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		f, err := discovery.ParseFactory(name, fc.Address, fc.InitCodeHash, fc.Type, fc.Fees)
		if err != nil {
			return nil, err
		}
		factories = append(factories, f)
	}
	return factories, nil
}

func seedRegistry(reg *registry.Registry, list registry.List, chainID uint64, seeds map[string][]string) error {
	// Sorted so a bad entry is reported deterministically.
	keys := make([]string, 0, len(seeds))
	for key := range seeds {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		poolType, err := model.ParsePoolType(key)
		if err != nil {
			return fmt.Errorf("%s seed: %w", list, err)
		}
		addresses, err := discovery.ParseAddresses(seeds[key])
		if err != nil {
			return fmt.Errorf("%s seed %s: %w", list, key, err)
		}
		switch list {
		case registry.Blacklist:
			err = reg.AddToBlacklist(addresses, chainID, poolType)
		default:
			err = reg.AddToWhitelist(addresses, chainID, poolType)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func logRegistry(logger *zap.Logger, reg *registry.Registry) error {
	for _, list := range []registry.List{registry.Blacklist, registry.Whitelist} {
		entries, err := reg.Snapshot(list)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			logger.Info("registry",
				zap.Stringer("list", list),
				zap.Uint64("chain_id", entry.ChainID),
				zap.Stringer("pool_type", entry.Type),
				zap.Int("pools", len(entry.Addresses)),
			)
		}
	}
	return nil
}
