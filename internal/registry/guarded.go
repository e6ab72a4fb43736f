package registry

import (
	"sync"
	"sync/atomic"
)

// List identifies one of the registry's classification maps.
type List uint8

const (
	Blacklist List = iota
	Whitelist
)

func (l List) String() string {
	switch l {
	case Blacklist:
		return "blacklist"
	case Whitelist:
		return "whitelist"
	default:
		return "unknown"
	}
}

// guardedMap is a ClassificationMap behind a single reader-writer lock.
// A panic inside a critical section poisons the map.
type guardedMap struct {
	list     List
	mu       sync.RWMutex
	poisoned atomic.Bool
	data     ClassificationMap
}

func newGuardedMap(list List) *guardedMap {
	return &guardedMap{list: list, data: make(ClassificationMap)}
}

func (g *guardedMap) read(fn func(ClassificationMap)) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.poisoned.Load() {
		return &PoisonError{List: g.list, Access: AccessRead}
	}
	defer g.poisonOnPanic()

	fn(g.data)
	return nil
}

func (g *guardedMap) write(fn func(ClassificationMap)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poisoned.Load() {
		return &PoisonError{List: g.list, Access: AccessWrite}
	}
	defer g.poisonOnPanic()

	fn(g.data)
	return nil
}

// poisonOnPanic must be deferred directly so recover sees the panic.
func (g *guardedMap) poisonOnPanic() {
	if r := recover(); r != nil {
		g.poisoned.Store(true)
		panic(r)
	}
}

func (g *guardedMap) reset() {
	g.mu.Lock()
	g.data = make(ClassificationMap)
	g.poisoned.Store(false)
	g.mu.Unlock()
}
