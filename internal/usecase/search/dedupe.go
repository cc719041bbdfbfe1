package search

import "github.com/kailas-cloud/agentcommerce/internal/domain/entity"

// Dedupe drops repeated ids, keeping the first occurrence.
func Dedupe(entities []entity.Entity) []entity.Entity {
	seen := make(map[string]struct{}, len(entities))
	out := make([]entity.Entity, 0, len(entities))
	for i := range entities {
		if _, ok := seen[entities[i].ID]; ok {
			continue
		}
		seen[entities[i].ID] = struct{}{}
		out = append(out, entities[i])
	}
	return out
}
