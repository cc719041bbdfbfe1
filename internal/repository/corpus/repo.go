// Package corpus holds the read-only entity corpus shared by all requests.
//
// The corpus is loaded once at process start (from a JSON file or a key in
// the key-value store), validated, and never mutated afterwards, so it is safe
// for concurrent use without locking.
package corpus

import (
	"fmt"

	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
)

// Repository is an immutable, indexed entity corpus.
type Repository struct {
	entities []entity.Entity
	byID     map[string]int
}

// New validates entities and builds the repository.
// It fails on the first malformed record or duplicate identifier.
func New(entities []entity.Entity) (*Repository, error) {
	r := &Repository{
		entities: make([]entity.Entity, len(entities)),
		byID:     make(map[string]int, len(entities)),
	}
	for i := range entities {
		e := entities[i]
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("record %d: duplicate id %q", i, e.ID)
		}
		r.entities[i] = e
		r.byID[e.ID] = i
	}
	return r, nil
}

// All returns the corpus in load order. Callers must not modify the slice.
func (r *Repository) All() []entity.Entity { return r.entities }

// Get returns the entity with the given id. ok is false when absent.
func (r *Repository) Get(id string) (entity.Entity, bool) {
	i, ok := r.byID[id]
	if !ok {
		return entity.Entity{}, false
	}
	return r.entities[i], true
}

// Len returns the number of entities.
func (r *Repository) Len() int { return len(r.entities) }
