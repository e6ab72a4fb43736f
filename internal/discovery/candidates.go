package discovery

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"poolScope/internal/model"
	"poolScope/internal/pool"
)

// Factory describes a pool factory deployment on one chain.
type Factory struct {
	Name         string
	Address      common.Address
	InitCodeHash *uint256.Int
	Type         model.PoolType
	// Fees applies to UniV3 factories; empty means every documented tier.
	Fees []pool.FeeTier
}

// BuildCandidates derives a candidate for every unordered token pair under
// every factory, once per fee tier for UniV3 factories. Identical tokens are
// skipped and duplicate (type, address) results collapsed.
func BuildCandidates(chainID uint64, factories []Factory, tokens []common.Address) []model.Candidate {
	type key struct {
		poolType model.PoolType
		address  common.Address
	}
	seen := make(map[key]struct{})
	candidates := make([]model.Candidate, 0)

	add := func(c model.Candidate) {
		k := key{poolType: c.Type, address: c.Address}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		candidates = append(candidates, c)
	}

	for _, factory := range factories {
		for i := 0; i < len(tokens); i++ {
			for j := i + 1; j < len(tokens); j++ {
				if tokens[i] == tokens[j] {
					continue
				}
				token0, token1 := pool.SortTokens(tokens[i], tokens[j])
				base := model.Candidate{
					ChainID: chainID,
					Factory: factory.Address,
					Type:    factory.Type,
					Token0:  token0,
					Token1:  token1,
				}

				if factory.Type != model.UniV3 {
					base.Address = pool.DeriveV2(factory.Address, token0, token1, factory.InitCodeHash)
					add(base)
					continue
				}

				fees := factory.Fees
				if len(fees) == 0 {
					fees = pool.FeeTiers()
				}
				for _, fee := range fees {
					c := base
					c.Fee = uint32(fee)
					c.Address = pool.DeriveV3(factory.Address, token0, token1, factory.InitCodeHash, fee)
					add(c)
				}
			}
		}
	}

	return candidates
}
