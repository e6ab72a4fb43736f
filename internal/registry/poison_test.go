package registry

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"poolScope/internal/model"
)

func panicInside(t *testing.T, fn func() error) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic to propagate")
		}
	}()
	_ = fn()
}

func TestWritePanicPoisonsOnlyThatList(t *testing.T) {
	r := New()
	if err := r.AddToWhitelist([]common.Address{address1}, 1, model.UniV2); err != nil {
		t.Fatalf("add: %v", err)
	}

	panicInside(t, func() error {
		return r.blacklist.write(func(ClassificationMap) { panic("boom") })
	})

	err := r.AddToBlacklist([]common.Address{address2}, 1, model.UniV2)
	if !errors.Is(err, ErrWritePoisoned) {
		t.Fatalf("expected write poison, got %v", err)
	}
	var poisonErr *PoisonError
	if !errors.As(err, &poisonErr) || poisonErr.List != Blacklist || poisonErr.Access != AccessWrite {
		t.Fatalf("unexpected poison error: %v", err)
	}

	if _, err := r.FilterByBlacklist([]common.Address{address2}, 1, model.UniV2); !errors.Is(err, ErrReadPoisoned) {
		t.Fatalf("expected read poison, got %v", err)
	}
	if _, _, err := r.FilterAll([]common.Address{address2}, 1, model.UniV2); !errors.Is(err, ErrReadPoisoned) {
		t.Fatalf("filter all should surface blacklist poison, got %v", err)
	}
	if err := r.RemoveFromBlacklist(nil, 1, model.UniV2); !errors.Is(err, ErrWritePoisoned) {
		t.Fatalf("remove should surface poison, got %v", err)
	}

	_, intersection, err := r.FilterByWhitelist([]common.Address{address1}, 1, model.UniV2)
	if err != nil {
		t.Fatalf("whitelist should stay usable: %v", err)
	}
	if len(intersection) != 1 {
		t.Fatalf("whitelist contents lost: %v", intersection)
	}
}

func TestReadPanicPoisons(t *testing.T) {
	r := New()

	panicInside(t, func() error {
		return r.whitelist.read(func(ClassificationMap) { panic("boom") })
	})

	_, _, err := r.FilterAll([]common.Address{address1}, 1, model.UniV2)
	var poisonErr *PoisonError
	if !errors.As(err, &poisonErr) || poisonErr.List != Whitelist || poisonErr.Access != AccessRead {
		t.Fatalf("expected whitelist read poison, got %v", err)
	}
	if errors.Is(err, ErrWritePoisoned) {
		t.Fatalf("read poison must not match write poison")
	}

	if err := r.AddToBlacklist([]common.Address{address1}, 1, model.UniV2); err != nil {
		t.Fatalf("blacklist should stay usable: %v", err)
	}
}

func TestResetClearsPoison(t *testing.T) {
	r := New()
	if err := r.AddToBlacklist([]common.Address{address1}, 1, model.UniV2); err != nil {
		t.Fatalf("add: %v", err)
	}

	panicInside(t, func() error {
		return r.blacklist.write(func(ClassificationMap) { panic("boom") })
	})

	r.Reset(Blacklist)

	if err := r.AddToBlacklist([]common.Address{address2}, 1, model.UniV2); err != nil {
		t.Fatalf("add after reset: %v", err)
	}
	entries, err := r.Snapshot(Blacklist)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(entries) != 1 || len(entries[0].Addresses) != 1 || entries[0].Addresses[0] != address2 {
		t.Fatalf("reset should drop prior contents: %+v", entries)
	}
}

func TestPoisonErrorMessage(t *testing.T) {
	err := &PoisonError{List: Whitelist, Access: AccessWrite}
	if err.Error() != "whitelist write lock poisoned" {
		t.Fatalf("message mismatch: %s", err.Error())
	}
}
