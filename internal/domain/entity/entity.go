// Package entity defines the searchable place record loaded from the corpus.
package entity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/geo"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// PriceTier is one of three price levels.
type PriceTier string

const (
	PriceUnknown PriceTier = ""
	PriceLow     PriceTier = "$"
	PriceMedium  PriceTier = "$$"
	PriceHigh    PriceTier = "$$$"
)

// IsValid reports whether p is a known tier (unknown counts as valid).
func (p PriceTier) IsValid() bool {
	switch p {
	case PriceUnknown, PriceLow, PriceMedium, PriceHigh:
		return true
	}
	return false
}

// Category is a category tag; the first tag of an entity is its primary category.
type Category struct {
	Alias string
	Title string
}

// Location is the street address of an entity.
type Location struct {
	Address1 string
	City     string
}

// Entity is a searchable place. Values are treated as immutable once loaded.
type Entity struct {
	ID          string
	Name        string
	Rating      *float64
	Price       PriceTier
	Categories  []Category
	Location    Location
	Website     string
	Phone       string
	ReviewCount int
	Hours       []string
	// Coordinate is nil when the entity cannot take part in proximity filtering.
	Coordinate *geo.Coordinate
	BrandColor string
}

// Validate checks the record shape. Corpus loading fails fast on the first error.
func (e *Entity) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidEntity)
	}
	if len(e.ID) > 256 || !idRegex.MatchString(e.ID) {
		return fmt.Errorf("%w: id %q must be alphanumeric with underscores and hyphens", domain.ErrInvalidEntity, e.ID)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: %s: name is required", domain.ErrInvalidEntity, e.ID)
	}
	if e.Rating != nil && (*e.Rating < 0 || *e.Rating > 5 || !geo.IsFinite(*e.Rating)) {
		return fmt.Errorf("%w: %s: rating must be between 0 and 5", domain.ErrInvalidEntity, e.ID)
	}
	if !e.Price.IsValid() {
		return fmt.Errorf("%w: %s: unknown price tier %q", domain.ErrInvalidEntity, e.ID, e.Price)
	}
	for i, c := range e.Categories {
		if c.Alias == "" {
			return fmt.Errorf("%w: %s: category %d has no alias", domain.ErrInvalidEntity, e.ID, i)
		}
	}
	if e.Coordinate != nil && !e.Coordinate.Valid() {
		return fmt.Errorf("%w: %s: invalid coordinate %v", domain.ErrInvalidEntity, e.ID, *e.Coordinate)
	}
	return nil
}

// Primary returns the primary (first) category.
func (e *Entity) Primary() (Category, bool) {
	if len(e.Categories) == 0 {
		return Category{}, false
	}
	return e.Categories[0], true
}

// Located reports whether the entity has a coordinate.
func (e *Entity) Located() bool { return e.Coordinate != nil }

// CategoryTitles returns the display titles of all categories in order.
func (e *Entity) CategoryTitles() []string {
	titles := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		titles[i] = c.Title
	}
	return titles
}

// SearchText is the lowercased concatenation of name, category titles and city
// used for free-text matching.
func (e *Entity) SearchText() string {
	parts := make([]string, 0, len(e.Categories)+2)
	parts = append(parts, e.Name)
	parts = append(parts, e.CategoryTitles()...)
	parts = append(parts, e.Location.City)
	return strings.ToLower(strings.Join(parts, " "))
}

// Address formats "address1, city", skipping empty parts.
func (e *Entity) Address() string {
	return domain.JoinPlace(e.Location.Address1, e.Location.City)
}
