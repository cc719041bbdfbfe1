package search

import (
	"context"

	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	"github.com/kailas-cloud/agentcommerce/internal/domain/geo"
)

// Geocoder resolves a place name to a coordinate. Failures wrap domain.ErrGeocodeNotFound.
type Geocoder interface {
	Resolve(ctx context.Context, city, region string) (geo.Coordinate, error)
}

// Corpus provides the read-only entity corpus.
type Corpus interface {
	All() []entity.Entity
}
