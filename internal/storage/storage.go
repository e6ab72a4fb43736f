package storage

import (
	"context"

	"poolScope/internal/model"
)

// Storage defines a sink for discovered pools.
type Storage interface {
	PutPoolBatch(ctx context.Context, pools []model.Pool) error
}

// Multi writes every batch to each sink in order and stops at the first error.
type Multi []Storage

func (m Multi) PutPoolBatch(ctx context.Context, pools []model.Pool) error {
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.PutPoolBatch(ctx, pools); err != nil {
			return err
		}
	}
	return nil
}
