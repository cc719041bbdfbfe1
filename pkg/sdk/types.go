package agentcommerce

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	"github.com/kailas-cloud/agentcommerce/internal/domain/geo"
	"github.com/kailas-cloud/agentcommerce/internal/domain/synonym"
)

// DefaultCorpusKey is the Redis key corpusctl publishes the corpus under.
const DefaultCorpusKey = "agentcommerce:{corpus}:restaurants"

// SynonymClass maps a canonical alias to its synonyms.
type SynonymClass = synonym.Class

// Category is a category tag. The first tag of a restaurant is its primary category.
type Category struct {
	Alias string
	Title string
}

// Restaurant is a searchable place.
type Restaurant struct {
	ID          string
	Name        string
	Rating      *float64
	Price       string // "", "$", "$$" or "$$$"
	Categories  []Category
	Address     string
	City        string
	Website     string
	Phone       string
	ReviewCount int
	Hours       []string
	BrandColor  string
	// Latitude and Longitude are nil for restaurants excluded from proximity search.
	Latitude  *float64
	Longitude *float64
}

// Seller reports the commerce platform detected for a restaurant.
type Seller struct {
	UsesSquare    bool
	Reason        string
	MerchantToken string
	LocationID    string
}

// RestaurantDetails is a restaurant plus its seller platform.
type RestaurantDetails struct {
	Restaurant
	Seller Seller
}

// SearchParams describes one search. Latitude and Longitude take precedence
// over City and State when both are valid.
type SearchParams struct {
	Query     string
	City      string
	State     string
	Latitude  *float64
	Longitude *float64
	// Limit <= 0 means 10; values above 25 are clamped.
	Limit int
}

// SearchResult holds matches in corpus order.
type SearchResult struct {
	Restaurants []Restaurant
	Source      string
	// Category is set when the query named a canonical category.
	Category    string
	Suggestions []string
}

// Geocoder resolves a place name to a coordinate.
// Failures are reported to callers as GEOCODE_NOT_FOUND.
type Geocoder interface {
	Resolve(ctx context.Context, city, region string) (lat, lon float64, err error)
}

// geocoderAdapter wraps a public Geocoder to satisfy the search use case.
type geocoderAdapter struct {
	inner Geocoder
}

func (a *geocoderAdapter) Resolve(ctx context.Context, city, region string) (geo.Coordinate, error) {
	lat, lon, err := a.inner.Resolve(ctx, city, region)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("geocode: %w", err)
	}
	c, err := geo.NewCoordinate(lat, lon)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("geocode: %w", err)
	}
	return c, nil
}

func toEntity(r *Restaurant) entity.Entity {
	e := entity.Entity{
		ID:          r.ID,
		Name:        r.Name,
		Rating:      r.Rating,
		Price:       entity.PriceTier(r.Price),
		Location:    entity.Location{Address1: r.Address, City: r.City},
		Website:     r.Website,
		Phone:       r.Phone,
		ReviewCount: r.ReviewCount,
		Hours:       r.Hours,
		BrandColor:  r.BrandColor,
	}
	for _, c := range r.Categories {
		e.Categories = append(e.Categories, entity.Category{Alias: c.Alias, Title: c.Title})
	}
	if r.Latitude != nil && r.Longitude != nil {
		if c, err := geo.NewCoordinate(*r.Latitude, *r.Longitude); err == nil {
			e.Coordinate = &c
		}
	}
	return e
}

func fromEntity(e *entity.Entity) Restaurant {
	r := Restaurant{
		ID:          e.ID,
		Name:        e.Name,
		Rating:      e.Rating,
		Price:       string(e.Price),
		Address:     e.Location.Address1,
		City:        e.Location.City,
		Website:     e.Website,
		Phone:       e.Phone,
		ReviewCount: e.ReviewCount,
		Hours:       e.Hours,
		BrandColor:  e.BrandColor,
	}
	for _, c := range e.Categories {
		r.Categories = append(r.Categories, Category{Alias: c.Alias, Title: c.Title})
	}
	if e.Coordinate != nil {
		lat, lon := e.Coordinate.Lat, e.Coordinate.Lon
		r.Latitude, r.Longitude = &lat, &lon
	}
	return r
}
