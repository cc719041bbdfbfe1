package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/geo"
)

// Search parameter limits.
const (
	// MaxTermLength is the maximum allowed search term length.
	MaxTermLength = 256
	DefaultLimit  = 10
	MaxLimit      = 25
)

// Query is a validated search request.
type Query struct {
	term   string
	city   string
	state  string
	lat    *float64
	lon    *float64
	origin *geo.Coordinate
	limit  int
}

// New validates and normalizes search parameters.
// Explicit coordinates are used only when both are present, finite and in
// range; otherwise they are ignored and city/state decide the location.
// Limit <= 0 becomes DefaultLimit, limits above MaxLimit are clamped.
func New(term, city, state string, lat, lon *float64, limit int) (Query, error) {
	term = strings.TrimSpace(term)
	if len(term) > MaxTermLength {
		return Query{}, fmt.Errorf("%w: term too long (max %d chars)", domain.ErrInvalidQuery, MaxTermLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := Query{
		term:  term,
		city:  strings.TrimSpace(city),
		state: strings.TrimSpace(state),
		lat:   lat,
		lon:   lon,
		limit: limit,
	}
	if lat != nil && lon != nil {
		if c, err := geo.NewCoordinate(*lat, *lon); err == nil {
			q.origin = &c
		}
	}
	return q, nil
}

// Term returns the trimmed (not lowercased) search term.
func (q *Query) Term() string { return q.term }

// City returns the city, possibly empty.
func (q *Query) City() string { return q.city }

// State returns the state/region, possibly empty.
func (q *Query) State() string { return q.state }

// Origin returns the explicit coordinate, nil when none was usable.
func (q *Query) Origin() *geo.Coordinate { return q.origin }

// Limit returns the maximum number of results.
func (q *Query) Limit() int { return q.limit }

// HasPlace reports whether a city or state was supplied.
func (q *Query) HasPlace() bool { return q.city != "" || q.state != "" }

// Place joins city and state, e.g. "Austin, TX".
func (q *Query) Place() string { return domain.JoinPlace(q.city, q.state) }

// Input echoes the original inputs for error payloads.
func (q *Query) Input() domain.Input {
	return domain.Input{
		Query:     q.term,
		City:      q.city,
		State:     q.state,
		Latitude:  q.lat,
		Longitude: q.lon,
		Limit:     q.limit,
	}
}
