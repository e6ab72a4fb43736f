package discovery

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"poolScope/internal/model"
	"poolScope/internal/pool"
)

// ParseFactory validates raw factory settings. Fee tiers only apply to UniV3
// factories and must be documented tiers.
func ParseFactory(name, address, initCodeHash, poolType string, fees []uint64) (Factory, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return Factory{}, fmt.Errorf("factory %s: invalid address: %s", name, address)
	}
	hash, err := pool.ParseHash(initCodeHash)
	if err != nil {
		return Factory{}, fmt.Errorf("factory %s: %w", name, err)
	}
	typ, err := model.ParsePoolType(poolType)
	if err != nil {
		return Factory{}, fmt.Errorf("factory %s: %w", name, err)
	}
	if typ == model.UniV2 && len(fees) > 0 {
		return Factory{}, fmt.Errorf("factory %s: fees are only valid for univ3 factories", name)
	}

	tiers := make([]pool.FeeTier, 0, len(fees))
	for _, fee := range fees {
		tier, err := pool.ParseFeeTier(fee)
		if err != nil {
			return Factory{}, fmt.Errorf("factory %s: %w", name, err)
		}
		tiers = append(tiers, tier)
	}

	return Factory{
		Name:         name,
		Address:      common.HexToAddress(address),
		InitCodeHash: hash,
		Type:         typ,
		Fees:         tiers,
	}, nil
}
