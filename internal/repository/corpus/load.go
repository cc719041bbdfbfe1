package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/agentcommerce/internal/db"
	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
)

// StoreKey is the key holding the serialized corpus in the key-value store.
var StoreKey = domain.KeyPrefix + "{corpus}:restaurants"

// store is the consumer interface for loading and publishing the corpus (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Decode reads a JSON array of records and builds a Repository.
// Unknown fields are rejected so that shape drift fails fast.
func Decode(r io.Reader) (*Repository, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var dtos []restaurantDTO
	if err := dec.Decode(&dtos); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}

	entities := make([]entity.Entity, len(dtos))
	for i := range dtos {
		entities[i] = dtos[i].toDomain()
	}
	return New(entities)
}

// LoadFile reads the corpus from a JSON file.
func LoadFile(path string) (*Repository, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	repo, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	return repo, nil
}

// LoadFromStore reads the corpus from the key-value store.
func LoadFromStore(ctx context.Context, s store, key string) (*Repository, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, fmt.Errorf("corpus key %q is empty: %w", key, err)
		}
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	repo, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("corpus key %q: %w", key, err)
	}
	return repo, nil
}

// Encode serializes the corpus in its on-disk JSON shape.
func Encode(r *Repository) ([]byte, error) {
	dtos := make([]restaurantDTO, len(r.entities))
	for i := range r.entities {
		dtos[i] = fromDomain(&r.entities[i])
	}
	data, err := json.Marshal(dtos)
	if err != nil {
		return nil, fmt.Errorf("encode corpus: %w", err)
	}
	return data, nil
}

// Publish writes the corpus to the key-value store.
func Publish(ctx context.Context, s store, key string, r *Repository) error {
	data, err := Encode(r)
	if err != nil {
		return err
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("publish corpus: %w", err)
	}
	return nil
}
