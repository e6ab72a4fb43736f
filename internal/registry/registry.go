// Package registry classifies addresses per chain and pool type as known
// pools (whitelist) or known non-pools (blacklist).
//
// Each list is a separate map guarded by its own reader-writer lock: filters
// run concurrently, additions and removals are exclusive. Operations that
// need both lists lock the blacklist first.
package registry

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"

	"poolScope/internal/model"
)

// Registry owns a blacklist and a whitelist. Create one with New and share it.
type Registry struct {
	blacklist *guardedMap
	whitelist *guardedMap
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		blacklist: newGuardedMap(Blacklist),
		whitelist: newGuardedMap(Whitelist),
	}
}

// AddToBlacklist marks addresses as known non-pools on chainID for poolType.
func (r *Registry) AddToBlacklist(list []common.Address, chainID uint64, poolType model.PoolType) error {
	return r.add(r.blacklist, list, chainID, poolType)
}

// RemoveFromBlacklist drops addresses from the blacklist on chainID for poolType.
func (r *Registry) RemoveFromBlacklist(list []common.Address, chainID uint64, poolType model.PoolType) error {
	return r.remove(r.blacklist, list, chainID, poolType)
}

// AddToWhitelist marks addresses as known pools on chainID for poolType.
func (r *Registry) AddToWhitelist(list []common.Address, chainID uint64, poolType model.PoolType) error {
	return r.add(r.whitelist, list, chainID, poolType)
}

// RemoveFromWhitelist drops addresses from the whitelist on chainID for poolType.
func (r *Registry) RemoveFromWhitelist(list []common.Address, chainID uint64, poolType model.PoolType) error {
	return r.remove(r.whitelist, list, chainID, poolType)
}

// FilterByBlacklist returns the addresses of list that are not blacklisted,
// in input order.
func (r *Registry) FilterByBlacklist(list []common.Address, chainID uint64, poolType model.PoolType) ([]common.Address, error) {
	if !poolType.Valid() {
		return nil, ErrUnknownPoolType
	}

	filtered := make([]common.Address, 0, len(list))
	err := r.blacklist.read(func(m ClassificationMap) {
		blacklist := m.lookup(chainID, poolType)
		for _, address := range list {
			if !blacklist.Contains(address) {
				filtered = append(filtered, address)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return filtered, nil
}

// FilterByWhitelist partitions list into addresses that are not whitelisted
// and addresses that are, both in input order.
func (r *Registry) FilterByWhitelist(list []common.Address, chainID uint64, poolType model.PoolType) ([]common.Address, []common.Address, error) {
	if !poolType.Valid() {
		return nil, nil, ErrUnknownPoolType
	}

	filtered := make([]common.Address, 0, len(list))
	intersection := make([]common.Address, 0)
	err := r.whitelist.read(func(m ClassificationMap) {
		whitelist := m.lookup(chainID, poolType)
		for _, address := range list {
			if whitelist.Contains(address) {
				intersection = append(intersection, address)
			} else {
				filtered = append(filtered, address)
			}
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return filtered, intersection, nil
}

// FilterAll drops blacklisted addresses and partitions the rest into unknown
// addresses and whitelisted ones. The blacklist takes precedence.
func (r *Registry) FilterAll(list []common.Address, chainID uint64, poolType model.PoolType) ([]common.Address, []common.Address, error) {
	if !poolType.Valid() {
		return nil, nil, ErrUnknownPoolType
	}

	filtered := make([]common.Address, 0, len(list))
	intersection := make([]common.Address, 0)

	var whitelistErr error
	err := r.blacklist.read(func(blacklistMap ClassificationMap) {
		whitelistErr = r.whitelist.read(func(whitelistMap ClassificationMap) {
			blacklist := blacklistMap.lookup(chainID, poolType)
			whitelist := whitelistMap.lookup(chainID, poolType)
			for _, address := range list {
				switch {
				case blacklist.Contains(address):
				case whitelist.Contains(address):
					intersection = append(intersection, address)
				default:
					filtered = append(filtered, address)
				}
			}
		})
	})
	if err != nil {
		return nil, nil, err
	}
	if whitelistErr != nil {
		return nil, nil, whitelistErr
	}
	return filtered, intersection, nil
}

// Contains reports whether address is on list for chainID/poolType.
func (r *Registry) Contains(list List, address common.Address, chainID uint64, poolType model.PoolType) (bool, error) {
	if !poolType.Valid() {
		return false, ErrUnknownPoolType
	}
	var found bool
	err := r.guarded(list).read(func(m ClassificationMap) {
		found = m.lookup(chainID, poolType).Contains(address)
	})
	return found, err
}

// Len returns the number of addresses on list for chainID/poolType.
func (r *Registry) Len(list List, chainID uint64, poolType model.PoolType) (int, error) {
	if !poolType.Valid() {
		return 0, ErrUnknownPoolType
	}
	var n int
	err := r.guarded(list).read(func(m ClassificationMap) {
		n = m.lookup(chainID, poolType).Len()
	})
	return n, err
}

// Entry is a point-in-time view of one chain/pool type set.
type Entry struct {
	ChainID   uint64           `json:"chain_id"`
	Type      model.PoolType   `json:"type"`
	Addresses []common.Address `json:"addresses"`
}

// Snapshot copies the non-empty sets of list, ordered by chain ID then pool
// type, addresses ascending.
func (r *Registry) Snapshot(list List) ([]Entry, error) {
	entries := make([]Entry, 0)
	err := r.guarded(list).read(func(m ClassificationMap) {
		for chainID, chainPools := range m {
			for _, poolType := range model.PoolTypes() {
				set := chainPools.List(poolType)
				if set.Len() == 0 {
					continue
				}
				entries = append(entries, Entry{
					ChainID:   chainID,
					Type:      poolType,
					Addresses: set.Addresses(),
				})
			}
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ChainID != entries[j].ChainID {
			return entries[i].ChainID < entries[j].ChainID
		}
		return entries[i].Type < entries[j].Type
	})
	return entries, nil
}

// Reset empties list and clears a poisoned lock. Recovering from poisoning
// is left to the caller.
func (r *Registry) Reset(list List) {
	r.guarded(list).reset()
}

func (r *Registry) guarded(list List) *guardedMap {
	if list == Whitelist {
		return r.whitelist
	}
	return r.blacklist
}

func (r *Registry) add(g *guardedMap, list []common.Address, chainID uint64, poolType model.PoolType) error {
	if !poolType.Valid() {
		return ErrUnknownPoolType
	}
	// An empty list still takes the lock so poisoning surfaces, but never
	// creates a chain record.
	return g.write(func(m ClassificationMap) {
		if len(list) == 0 {
			return
		}
		m.lookupOrCreate(chainID, poolType).Add(list...)
	})
}

func (r *Registry) remove(g *guardedMap, list []common.Address, chainID uint64, poolType model.PoolType) error {
	if !poolType.Valid() {
		return ErrUnknownPoolType
	}
	// Every stored address is tested against the whole removal set.
	removal := mapset.NewThreadUnsafeSet[common.Address](list...)
	return g.write(func(m ClassificationMap) {
		chainPools, ok := m[chainID]
		if !ok {
			return
		}
		chainPools.List(poolType).RemoveFunc(func(address common.Address) bool {
			return removal.Contains(address)
		})
		if chainPools.Empty() {
			delete(m, chainID)
		}
	})
}
