package search

import (
	"sort"

	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	"github.com/kailas-cloud/agentcommerce/internal/domain/geo"
)

// Nearby returns the located entities within radiusKm of origin, closest
// first. Ties keep corpus order. Unlocated entities are excluded.
// The input slice is not modified.
func Nearby(entities []entity.Entity, origin geo.Coordinate, radiusKm float64) []entity.Entity {
	type ranked struct {
		e    entity.Entity
		dist float64
	}

	kept := make([]ranked, 0, len(entities))
	for i := range entities {
		c := entities[i].Coordinate
		if c == nil {
			continue
		}
		if d := origin.DistanceKm(*c); d <= radiusKm {
			kept = append(kept, ranked{e: entities[i], dist: d})
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].dist < kept[j].dist })

	out := make([]entity.Entity, len(kept))
	for i := range kept {
		out[i] = kept[i].e
	}
	return out
}
