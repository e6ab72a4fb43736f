package model

import "github.com/ethereum/go-ethereum/common"

// Candidate is a derived pool address that has not been verified on chain yet.
// Token0 and Token1 are sorted ascending.
type Candidate struct {
	ChainID uint64
	Address common.Address
	Factory common.Address
	Type    PoolType
	Token0  common.Address
	Token1  common.Address
	Fee     uint32
}

// Pool converts the candidate into a storage record.
func (c Candidate) Pool(known bool) Pool {
	return Pool{
		ChainID: c.ChainID,
		Address: c.Address.Hex(),
		Factory: c.Factory.Hex(),
		Type:    c.Type,
		Token0:  c.Token0.Hex(),
		Token1:  c.Token1.Hex(),
		Fee:     c.Fee,
		Known:   known,
	}
}
