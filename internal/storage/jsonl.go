package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"poolScope/internal/model"
)

type poolKey struct {
	chainID uint64
	address string
}

func keyOf(pool model.Pool) poolKey {
	return poolKey{chainID: pool.ChainID, address: strings.ToLower(pool.Address)}
}

// JsonlStorage appends pool records to a JSONL file, one line per pool.
// A pool already present in the file, from this run or an earlier one, is
// not written again.
type JsonlStorage struct {
	path string

	mu      sync.Mutex
	written mapset.Set[poolKey]
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutPoolBatch appends the pools of the batch not yet in the file.
func (s *JsonlStorage) PutPoolBatch(_ context.Context, pools []model.Pool) error {
	if len(pools) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.written == nil {
		written, err := loadWritten(s.path)
		if err != nil {
			return err
		}
		s.written = written
	}

	fresh := make([]model.Pool, 0, len(pools))
	for _, pool := range pools {
		if s.written.Add(keyOf(pool)) {
			fresh = append(fresh, pool)
		}
	}
	if len(fresh) == 0 {
		return nil
	}

	if err := s.appendPools(fresh); err != nil {
		for _, pool := range fresh {
			s.written.Remove(keyOf(pool))
		}
		return err
	}
	return nil
}

func (s *JsonlStorage) appendPools(pools []model.Pool) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	for _, pool := range pools {
		if err := encoder.Encode(pool); err != nil {
			return fmt.Errorf("write pool %s: %w", pool.Address, err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// loadWritten collects the pools already recorded in path. A missing file
// is an empty record.
func loadWritten(path string) (mapset.Set[poolKey], error) {
	written := mapset.NewThreadUnsafeSet[poolKey]()

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return written, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		if len(strings.TrimSpace(scanner.Text())) == 0 {
			continue
		}
		var pool model.Pool
		if err := json.Unmarshal(scanner.Bytes(), &pool); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", path, line, err)
		}
		written.Add(keyOf(pool))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read output file: %w", err)
	}
	return written, nil
}
