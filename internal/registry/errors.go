package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrReadPoisoned matches a PoisonError raised while acquiring a shared lock.
	ErrReadPoisoned = errors.New("registry read lock poisoned")
	// ErrWritePoisoned matches a PoisonError raised while acquiring an exclusive lock.
	ErrWritePoisoned = errors.New("registry write lock poisoned")
	// ErrUnknownPoolType is returned for a pool type outside the known set.
	ErrUnknownPoolType = errors.New("unknown pool type")
)

// Access is the lock mode an operation asked for.
type Access uint8

const (
	AccessRead Access = iota
	AccessWrite
)

func (a Access) String() string {
	if a == AccessWrite {
		return "write"
	}
	return "read"
}

// PoisonError reports that a list's lock was poisoned by a critical section
// that panicked. The list stays unusable until Registry.Reset is called.
type PoisonError struct {
	List   List
	Access Access
}

func (e *PoisonError) Error() string {
	return fmt.Sprintf("%s %s lock poisoned", e.List, e.Access)
}

// Is matches ErrReadPoisoned or ErrWritePoisoned according to the access mode.
func (e *PoisonError) Is(target error) bool {
	switch target {
	case ErrReadPoisoned:
		return e.Access == AccessRead
	case ErrWritePoisoned:
		return e.Access == AccessWrite
	default:
		return false
	}
}
