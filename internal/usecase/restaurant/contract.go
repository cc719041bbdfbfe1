package restaurant

import (
	domcat "github.com/kailas-cloud/agentcommerce/internal/domain/catalog"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
)

// Corpus looks entities up by id.
type Corpus interface {
	Get(id string) (entity.Entity, bool)
}

// Catalog answers seller platform and menu lookups.
type Catalog interface {
	DetectSeller(businessID, website string) domcat.SellerPlatform
	CatalogForBusiness(businessID string) []domcat.Item
	CatalogByMerchantToken(token string) []domcat.Item
	GenericMenu(alias string) []domcat.Item
}
