// Package catalog describes seller menus and the seller's commerce platform.
package catalog

// Seller platform detection reasons.
const (
	ReasonKnownMapping     = "known-mapping"
	ReasonHeuristicWebsite = "heuristic-website"
	ReasonUnknown          = "unknown"
)

// Item is a single menu entry. Prices are USD.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// SellerPlatform reports whether a seller runs on Square and how we know.
type SellerPlatform struct {
	UsesSquare    bool   `json:"usesSquare"`
	Reason        string `json:"reason"`
	MerchantToken string `json:"merchantToken,omitempty"`
	MerchantID    string `json:"merchantId,omitempty"`
	LocationID    string `json:"locationId,omitempty"`
}
