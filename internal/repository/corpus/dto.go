package corpus

import (
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	"github.com/kailas-cloud/agentcommerce/internal/domain/geo"
)

// restaurantDTO is the on-disk JSON shape of a corpus record.
type restaurantDTO struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Rating      *float64      `json:"rating,omitempty"`
	Price       string        `json:"price,omitempty"`
	Categories  []categoryDTO `json:"categories,omitempty"`
	Location    *locationDTO  `json:"location,omitempty"`
	Website     string        `json:"website,omitempty"`
	ReviewCount int           `json:"review_count,omitempty"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Hours       []string      `json:"hours,omitempty"`
	BrandColor  string        `json:"brandColor,omitempty"`
}

type categoryDTO struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

type locationDTO struct {
	Address1 string `json:"address1,omitempty"`
	City     string `json:"city,omitempty"`
}

// toDomain converts a record without validating it.
// A coordinate is set only when both latitude and longitude are present.
func (d *restaurantDTO) toDomain() entity.Entity {
	e := entity.Entity{
		ID:          d.ID,
		Name:        d.Name,
		Rating:      d.Rating,
		Price:       entity.PriceTier(d.Price),
		Website:     d.Website,
		ReviewCount: d.ReviewCount,
		Phone:       d.Phone,
		Hours:       d.Hours,
		BrandColor:  d.BrandColor,
	}
	if len(d.Categories) > 0 {
		e.Categories = make([]entity.Category, len(d.Categories))
		for i, c := range d.Categories {
			e.Categories[i] = entity.Category{Alias: c.Alias, Title: c.Title}
		}
	}
	if d.Location != nil {
		e.Location = entity.Location{Address1: d.Location.Address1, City: d.Location.City}
	}
	if d.Latitude != nil && d.Longitude != nil {
		e.Coordinate = &geo.Coordinate{Lat: *d.Latitude, Lon: *d.Longitude}
	}
	return e
}

func fromDomain(e *entity.Entity) restaurantDTO {
	d := restaurantDTO{
		ID:          e.ID,
		Name:        e.Name,
		Rating:      e.Rating,
		Price:       string(e.Price),
		Website:     e.Website,
		ReviewCount: e.ReviewCount,
		Phone:       e.Phone,
		Hours:       e.Hours,
		BrandColor:  e.BrandColor,
	}
	for _, c := range e.Categories {
		d.Categories = append(d.Categories, categoryDTO{Alias: c.Alias, Title: c.Title})
	}
	if e.Location != (entity.Location{}) {
		d.Location = &locationDTO{Address1: e.Location.Address1, City: e.Location.City}
	}
	if e.Coordinate != nil {
		lat, lon := e.Coordinate.Lat, e.Coordinate.Lon
		d.Latitude, d.Longitude = &lat, &lon
	}
	return d
}
