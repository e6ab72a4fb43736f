package discovery

import "fmt"

// Batch is a half-open [Start, End) slice range of candidates.
type Batch struct {
	Start int
	End   int
}

// SplitBatches splits total items into batches of at most size.
func SplitBatches(total, size int) ([]Batch, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if total < 0 {
		return nil, fmt.Errorf("total must not be negative")
	}

	batches := make([]Batch, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		batches = append(batches, Batch{Start: start, End: end})
	}
	return batches, nil
}
