package restaurant

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	domcat "github.com/kailas-cloud/agentcommerce/internal/domain/catalog"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	"github.com/kailas-cloud/agentcommerce/internal/logger"
)

// DefaultSellerName labels menus of sellers missing from the corpus.
const DefaultSellerName = "Seller"

// Menu sources.
const (
	MenuSourceSeller  = "seller"
	MenuSourceGeneric = "generic"
)

// Details is an entity plus its detected commerce platform.
type Details struct {
	Entity entity.Entity
	Seller domcat.SellerPlatform
}

// Menu is the resolved menu for a business.
type Menu struct {
	BusinessID string
	SellerName string
	Source     string
	Items      []domcat.Item
}

// IsEmpty reports whether no menu applies to the business.
func (m *Menu) IsEmpty() bool { return len(m.Items) == 0 }

// Service implements entity lookup, seller detection and menu resolution.
type Service struct {
	corpus  Corpus
	catalog Catalog
}

// New creates a restaurant service.
func New(corpus Corpus, catalog Catalog) *Service {
	return &Service{corpus: corpus, catalog: catalog}
}

// Lookup returns the entity or false. It never fails.
func (s *Service) Lookup(id string) (entity.Entity, bool) {
	return s.corpus.Get(id)
}

// Get returns the entity or domain.ErrNotFound.
func (s *Service) Get(_ context.Context, id string) (entity.Entity, error) {
	e, ok := s.corpus.Get(id)
	if !ok {
		return entity.Entity{}, fmt.Errorf("restaurant %q: %w", id, domain.ErrNotFound)
	}
	return e, nil
}

// Details returns the entity with its seller platform.
func (s *Service) Details(ctx context.Context, id string) (Details, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return Details{}, err
	}
	return Details{Entity: e, Seller: s.catalog.DetectSeller(id, e.Website)}, nil
}

// DetectSeller runs seller detection. An empty website falls back to the
// entity's own website when the id is in the corpus.
func (s *Service) DetectSeller(_ context.Context, id, website string) domcat.SellerPlatform {
	if website == "" {
		if e, ok := s.corpus.Get(id); ok {
			website = e.Website
		}
	}
	return s.catalog.DetectSeller(id, website)
}

// Menu prefers the seller's own catalog when it runs on Square (by merchant
// token, else by business id), then the generic menu of the primary category.
// Unknown ids still resolve through the seller directory.
func (s *Service) Menu(ctx context.Context, id string) Menu {
	e, known := s.corpus.Get(id)
	m := Menu{BusinessID: id, SellerName: DefaultSellerName}
	if known {
		m.SellerName = e.Name
	}

	seller := s.catalog.DetectSeller(id, e.Website)
	if seller.UsesSquare {
		if seller.MerchantToken != "" {
			m.Items = s.catalog.CatalogByMerchantToken(seller.MerchantToken)
		} else {
			m.Items = s.catalog.CatalogForBusiness(id)
		}
		m.Source = MenuSourceSeller
	}

	if len(m.Items) == 0 {
		m.Source = ""
		if p, ok := e.Primary(); ok {
			m.Items = s.catalog.GenericMenu(p.Alias)
			if len(m.Items) > 0 {
				m.Source = MenuSourceGeneric
			}
		}
	}

	logger.FromContext(ctx).Debug("menu resolved",
		zap.String("business_id", id),
		zap.Bool("uses_square", seller.UsesSquare),
		zap.String("source", m.Source),
		zap.Int("items", len(m.Items)),
	)
	return m
}
