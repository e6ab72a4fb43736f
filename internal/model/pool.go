package model

// Pool represents a verified pool record for storage.
type Pool struct {
	ChainID uint64   `json:"chain_id"`
	Address string   `json:"address"`
	Factory string   `json:"factory"`
	Type    PoolType `json:"type"`
	Token0  string   `json:"token0"`
	Token1  string   `json:"token1"`
	Fee     uint32   `json:"fee,omitempty"`
	Known   bool     `json:"known"`
}
