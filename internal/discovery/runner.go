package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"poolScope/internal/dex"
	"poolScope/internal/model"
	"poolScope/internal/registry"
	"poolScope/internal/storage"
)

// RunConfig holds runtime settings for a discovery run.
type RunConfig struct {
	ChainID      uint64
	Factories    []Factory
	Tokens       []common.Address
	BatchSize    int
	Concurrency  int
	MaxRetries   int
	RetryBackoff time.Duration
}

// Summary counts candidates by outcome.
type Summary struct {
	Candidates  int
	Blacklisted int
	Known       int
	Verified    int
	Rejected    int
}

// Runner derives candidate pools, filters them through the registry, verifies
// unknown ones on chain and feeds the verdicts back into the registry.
type Runner struct {
	cfg      RunConfig
	registry *registry.Registry
	verifier dex.Verifier
	storage  storage.Storage
	logger   *zap.Logger
}

// NewRunner builds a Runner with its dependencies. storageSink may be nil.
func NewRunner(cfg RunConfig, reg *registry.Registry, verifier dex.Verifier, storageSink storage.Storage, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Runner{
		cfg:      cfg,
		registry: reg,
		verifier: verifier,
		storage:  storageSink,
		logger:   logger,
	}
}

// Run executes one discovery pass.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	if r.registry == nil {
		return summary, fmt.Errorf("registry is nil")
	}
	if r.verifier == nil {
		return summary, fmt.Errorf("verifier is nil")
	}
	if r.cfg.BatchSize <= 0 {
		return summary, fmt.Errorf("batch size must be greater than zero")
	}
	if len(r.cfg.Factories) == 0 {
		return summary, fmt.Errorf("at least one factory is required")
	}
	if len(r.cfg.Tokens) < 2 {
		return summary, fmt.Errorf("at least two tokens are required")
	}

	candidates := BuildCandidates(r.cfg.ChainID, r.cfg.Factories, r.cfg.Tokens)
	summary.Candidates = len(candidates)

	byType := make(map[model.PoolType][]model.Candidate)
	for _, c := range candidates {
		byType[c.Type] = append(byType[c.Type], c)
	}

	for _, poolType := range model.PoolTypes() {
		group := byType[poolType]
		if len(group) == 0 {
			continue
		}
		if err := r.runType(ctx, poolType, group, &summary); err != nil {
			return summary, err
		}
	}

	r.logger.Info("discovery complete",
		zap.Uint64("chain_id", r.cfg.ChainID),
		zap.Int("candidates", summary.Candidates),
		zap.Int("blacklisted", summary.Blacklisted),
		zap.Int("known", summary.Known),
		zap.Int("verified", summary.Verified),
		zap.Int("rejected", summary.Rejected),
	)

	return summary, nil
}

func (r *Runner) runType(ctx context.Context, poolType model.PoolType, group []model.Candidate, summary *Summary) error {
	byAddress := make(map[common.Address]model.Candidate, len(group))
	addresses := make([]common.Address, 0, len(group))
	for _, c := range group {
		byAddress[c.Address] = c
		addresses = append(addresses, c.Address)
	}

	unknown, known, err := r.registry.FilterAll(addresses, r.cfg.ChainID, poolType)
	if err != nil {
		return fmt.Errorf("filter %s candidates: %w", poolType, err)
	}
	summary.Blacklisted += len(addresses) - len(unknown) - len(known)
	summary.Known += len(known)

	r.logger.Info("filtered candidates",
		zap.Stringer("pool_type", poolType),
		zap.Int("candidates", len(addresses)),
		zap.Int("unknown", len(unknown)),
		zap.Int("known", len(known)),
	)

	if len(known) > 0 {
		records := make([]model.Pool, 0, len(known))
		for _, address := range known {
			records = append(records, byAddress[address].Pool(true))
		}
		if err := r.store(ctx, records); err != nil {
			return err
		}
	}

	batches, err := SplitBatches(len(unknown), r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, batch := range batches {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pending := make([]model.Candidate, 0, batch.End-batch.Start)
		for _, address := range unknown[batch.Start:batch.End] {
			pending = append(pending, byAddress[address])
		}

		verdicts, err := r.verifyBatch(ctx, pending)
		if err != nil {
			return err
		}

		pools := make([]common.Address, 0, len(pending))
		rejected := make([]common.Address, 0, len(pending))
		records := make([]model.Pool, 0, len(pending))
		for i, c := range pending {
			if verdicts[i] {
				pools = append(pools, c.Address)
				records = append(records, c.Pool(false))
			} else {
				rejected = append(rejected, c.Address)
			}
		}

		if err := r.registry.AddToWhitelist(pools, r.cfg.ChainID, poolType); err != nil {
			return fmt.Errorf("whitelist pools: %w", err)
		}
		if err := r.registry.AddToBlacklist(rejected, r.cfg.ChainID, poolType); err != nil {
			return fmt.Errorf("blacklist non-pools: %w", err)
		}
		summary.Verified += len(pools)
		summary.Rejected += len(rejected)

		if err := r.store(ctx, records); err != nil {
			return err
		}

		r.logger.Info("batch verified",
			zap.Stringer("pool_type", poolType),
			zap.Int("pools", len(pools)),
			zap.Int("rejected", len(rejected)),
		)
	}

	return nil
}

func (r *Runner) verifyBatch(ctx context.Context, pending []model.Candidate) ([]bool, error) {
	verdicts := make([]bool, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, c := range pending {
		i, c := i, c
		g.Go(func() error {
			ok, err := r.verifyWithRetry(gctx, c)
			if err != nil {
				return fmt.Errorf("verify %s: %w", c.Address.Hex(), err)
			}
			verdicts[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

func (r *Runner) verifyWithRetry(ctx context.Context, c model.Candidate) (bool, error) {
	var ok bool
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		ok, err = r.verifier.Verify(ctx, c)
		if err != nil {
			r.logger.Warn("verify failed", zap.Error(err), zap.String("pool", c.Address.Hex()))
		}
		return err
	})
	return ok, err
}

func (r *Runner) store(ctx context.Context, records []model.Pool) error {
	if r.storage == nil || len(records) == 0 {
		return nil
	}
	if err := r.storage.PutPoolBatch(ctx, records); err != nil {
		return fmt.Errorf("store pools: %w", err)
	}
	return nil
}
