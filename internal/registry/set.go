package registry

import (
	"bytes"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"

	"poolScope/internal/model"
)

// PoolSet holds unique pool addresses. The zero value is an empty set.
// PoolSet is not safe for concurrent use; the owning map's lock guards it.
type PoolSet struct {
	set mapset.Set[common.Address]
}

// NewPoolSet returns a set holding addresses.
func NewPoolSet(addresses ...common.Address) *PoolSet {
	s := &PoolSet{}
	s.Add(addresses...)
	return s
}

// Add inserts addresses; duplicates are ignored.
func (s *PoolSet) Add(addresses ...common.Address) {
	if len(addresses) == 0 {
		return
	}
	if s.set == nil {
		s.set = mapset.NewThreadUnsafeSet[common.Address]()
	}
	for _, address := range addresses {
		s.set.Add(address)
	}
}

// Contains reports whether address is in the set. A nil set is empty.
func (s *PoolSet) Contains(address common.Address) bool {
	if s == nil || s.set == nil {
		return false
	}
	return s.set.Contains(address)
}

// RemoveFunc removes every address for which remove returns true and
// reports how many were removed.
func (s *PoolSet) RemoveFunc(remove func(common.Address) bool) int {
	if s == nil || s.set == nil {
		return 0
	}
	var doomed []common.Address
	s.set.Each(func(address common.Address) bool {
		if remove(address) {
			doomed = append(doomed, address)
		}
		return false
	})
	for _, address := range doomed {
		s.set.Remove(address)
	}
	return len(doomed)
}

// Len returns the number of addresses in the set.
func (s *PoolSet) Len() int {
	if s == nil || s.set == nil {
		return 0
	}
	return s.set.Cardinality()
}

// Addresses returns the members sorted ascending by byte value.
func (s *PoolSet) Addresses() []common.Address {
	if s == nil || s.set == nil {
		return []common.Address{}
	}
	out := s.set.ToSlice()
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Bytes(), out[j].Bytes()) < 0
	})
	return out
}

// ChainPools holds one PoolSet per pool type for a single chain.
type ChainPools struct {
	sets [model.PoolTypeCount]PoolSet
}

// List returns the set for poolType. poolType must be valid.
func (c *ChainPools) List(poolType model.PoolType) *PoolSet {
	return &c.sets[poolType]
}

// Empty reports whether every per-type set is empty.
func (c *ChainPools) Empty() bool {
	for i := range c.sets {
		if c.sets[i].Len() > 0 {
			return false
		}
	}
	return true
}

// ClassificationMap maps a chain ID to its pool sets. A missing chain is
// equivalent to an empty ChainPools.
type ClassificationMap map[uint64]*ChainPools

// lookup returns the set for chainID/poolType, or nil when the chain is absent.
func (m ClassificationMap) lookup(chainID uint64, poolType model.PoolType) *PoolSet {
	chainPools, ok := m[chainID]
	if !ok {
		return nil
	}
	return chainPools.List(poolType)
}

func (m ClassificationMap) lookupOrCreate(chainID uint64, poolType model.PoolType) *PoolSet {
	chainPools, ok := m[chainID]
	if !ok {
		chainPools = &ChainPools{}
		m[chainID] = chainPools
	}
	return chainPools.List(poolType)
}
