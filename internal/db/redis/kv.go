package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/agentcommerce/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetAll writes every key inside one MULTI/EXEC transaction, so readers never
// see a corpus published without its menus.
func (s *Store) SetAll(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmds := make([]rueidis.Completed, 0, len(keys)+2)
	cmds = append(cmds, s.b().Multi().Build())
	for _, k := range keys {
		cmds = append(cmds, s.b().Set().Key(k).Value(rueidis.BinaryString(values[k])).Build())
	}
	cmds = append(cmds, s.b().Exec().Build())

	results := s.doMulti(ctx, cmds...)
	for _, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		}
	}

	// Commands that fail after queueing report inside the EXEC array.
	replies, err := results[len(results)-1].ToArray()
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	for i := range replies {
		if err := replies[i].Error(); err != nil && i < len(keys) {
			return &db.Error{Op: db.OpSet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		} else if err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		}
	}
	return nil
}
