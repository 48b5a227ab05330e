package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

type readFunc func(ctx context.Context, fullKey string) ([]byte, bool, error)

// stagedTx buffers writes for an Atomic call. Reads see the caller's own
// staged writes first. Only keys declared up front may be touched.
type stagedTx struct {
	prefix   string
	read     readFunc
	declared map[string]bool
	writes   map[string][]byte
	order    []string
}

func newStagedTx(prefix string, keys []string, read readFunc) *stagedTx {
	declared := make(map[string]bool, len(keys))
	for _, k := range keys {
		declared[k] = true
	}
	return &stagedTx{
		prefix:   prefix,
		read:     read,
		declared: declared,
		writes:   make(map[string][]byte),
	}
}

func (s *stagedTx) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !s.declared[key] {
		return false, fmt.Errorf("read of undeclared key %q", key)
	}

	data, ok := s.writes[key]
	if !ok {
		var err error
		data, ok, err = s.read(ctx, s.prefix+key)
		if err != nil {
			return false, fmt.Errorf("get %s: %w", key, err)
		}
		if !ok {
			return false, nil
		}
	}

	return true, decode(key, data, dst)
}

func (s *stagedTx) Put(ctx context.Context, key string, v any) error {
	if !s.declared[key] {
		return fmt.Errorf("write of undeclared key %q", key)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, seen := s.writes[key]; !seen {
		s.order = append(s.order, key)
	}
	s.writes[key] = data
	return nil
}

// each calls fn for every staged write in first-write order.
func (s *stagedTx) each(fn func(fullKey string, data []byte) error) error {
	for _, k := range s.order {
		if err := fn(s.prefix+k, s.writes[k]); err != nil {
			return err
		}
	}
	return nil
}

func decode(key string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
