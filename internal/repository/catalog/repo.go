// Package catalog serves seller platform detection and menus.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	domcat "github.com/kailas-cloud/agentcommerce/internal/domain/catalog"
)

// MenusKey is the key holding the generic menus in the key-value store.
var MenusKey = domain.KeyPrefix + "{corpus}:menus"

// Menus maps a category alias to its generic menu.
type Menus map[string][]domcat.Item

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repository answers seller and menu lookups. It is read-only after New.
type Repository struct {
	sellers  map[string]domcat.SellerPlatform
	catalogs map[string][]domcat.Item
	byToken  map[string]string
	menus    Menus
}

// New creates a repository over the built-in seller directory.
// menus may be nil, in which case the built-in generic menus are used.
func New(menus Menus) *Repository {
	r := &Repository{
		sellers:  knownSellers,
		catalogs: sellerCatalogs,
		byToken:  make(map[string]string, len(knownSellers)),
		menus:    make(Menus, len(menus)),
	}
	for id, p := range knownSellers {
		if p.MerchantToken != "" {
			r.byToken[p.MerchantToken] = id
		}
	}
	for alias, items := range menus {
		r.menus[strings.ToLower(alias)] = items
	}
	return r
}

// DetectSeller reports whether a business runs on Square.
// The explicit mapping wins; otherwise the website is checked for a hosted
// Square storefront.
func (r *Repository) DetectSeller(businessID, website string) domcat.SellerPlatform {
	if p, ok := r.sellers[businessID]; ok {
		if p.Reason == "" {
			p.Reason = domcat.ReasonKnownMapping
		}
		return p
	}
	url := strings.ToLower(website)
	if strings.Contains(url, "square.site") || strings.Contains(url, "squareup.com") {
		return domcat.SellerPlatform{UsesSquare: true, Reason: domcat.ReasonHeuristicWebsite}
	}
	return domcat.SellerPlatform{Reason: domcat.ReasonUnknown}
}

// CatalogForBusiness returns the seller's own catalog, empty when unknown.
func (r *Repository) CatalogForBusiness(businessID string) []domcat.Item {
	return clone(r.catalogs[businessID])
}

// CatalogByMerchantToken returns the catalog of the seller owning token.
func (r *Repository) CatalogByMerchantToken(token string) []domcat.Item {
	id, ok := r.byToken[token]
	if !ok {
		return nil
	}
	return r.CatalogForBusiness(id)
}

// GenericMenu returns the shared menu for a category alias.
func (r *Repository) GenericMenu(alias string) []domcat.Item {
	key := strings.ToLower(strings.TrimSpace(alias))
	if items, ok := r.menus[key]; ok {
		return clone(items)
	}
	return clone(builtinMenus[key])
}

func clone(items []domcat.Item) []domcat.Item {
	if len(items) == 0 {
		return nil
	}
	return append([]domcat.Item(nil), items...)
}

// DecodeMenus reads a JSON object of alias to item list.
func DecodeMenus(rd io.Reader) (Menus, error) {
	var m Menus
	if err := json.NewDecoder(rd).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode menus: %w", err)
	}
	for alias, items := range m {
		for i, it := range items {
			if it.ID == "" || it.Name == "" {
				return nil, fmt.Errorf("menu %q item %d: id and name are required", alias, i)
			}
			if it.Price < 0 {
				return nil, fmt.Errorf("menu %q item %s: negative price", alias, it.ID)
			}
		}
	}
	return m, nil
}

// LoadMenusFile reads generic menus from a JSON file.
func LoadMenusFile(path string) (Menus, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read menus %s: %w", path, err)
	}
	return DecodeMenus(bytes.NewReader(data))
}

// LoadMenusFromStore reads generic menus from the key-value store.
func LoadMenusFromStore(ctx context.Context, s store, key string) (Menus, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load menus: %w", err)
	}
	return DecodeMenus(bytes.NewReader(data))
}

// EncodeMenus serializes menus in their on-disk JSON shape.
func EncodeMenus(m Menus) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode menus: %w", err)
	}
	return data, nil
}

// PublishMenus writes generic menus to the key-value store.
func PublishMenus(ctx context.Context, s store, key string, m Menus) error {
	data, err := EncodeMenus(m)
	if err != nil {
		return err
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("publish menus: %w", err)
	}
	return nil
}
