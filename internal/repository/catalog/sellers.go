package catalog

import domcat "github.com/kailas-cloud/agentcommerce/internal/domain/catalog"

const unsplash = "https://images.unsplash.com/photo-"

func photo(id string) string {
	return unsplash + id + "?w=800&q=80&auto=format&fit=crop"
}

// knownSellers maps business ids to their commerce platform.
// A real deployment would keep this in a merchant directory.
var knownSellers = map[string]domcat.SellerPlatform{
	"mock-1": {
		UsesSquare:    true,
		Reason:        domcat.ReasonKnownMapping,
		MerchantToken: "merchant_token_mock_1",
		LocationID:    "location_mock_1",
	},
	"mock-2": {Reason: domcat.ReasonKnownMapping},
	"mock-3": {
		UsesSquare:    true,
		Reason:        domcat.ReasonKnownMapping,
		MerchantToken: "merchant_token_mock_3",
		LocationID:    "location_mock_3",
	},
	"atx-franklin": {
		UsesSquare:    true,
		Reason:        domcat.ReasonKnownMapping,
		MerchantToken: "merchant_token_atx_franklin",
		LocationID:    "location_atx_franklin",
	},
	"bluebird-coffee-ATL-001": {
		UsesSquare:    true,
		Reason:        domcat.ReasonKnownMapping,
		MerchantToken: "merchant_token_bluebird_atl",
		LocationID:    "location_bluebird_atl",
	},
	"midtown-bean-ATL-102": {
		UsesSquare:    true,
		Reason:        domcat.ReasonKnownMapping,
		MerchantToken: "merchant_token_midtownbean_atl",
		LocationID:    "location_midtownbean_atl",
	},
	"gpg-ATL-877": {
		UsesSquare:    true,
		Reason:        domcat.ReasonKnownMapping,
		MerchantToken: "merchant_token_gpg_atl",
		LocationID:    "location_gpg_atl",
	},
	"peachtree-roasters-ATL-009": {Reason: domcat.ReasonKnownMapping},
	"nyc-katz":                   {Reason: domcat.ReasonKnownMapping},
}

// sellerCatalogs are the per-seller demo catalogs.
var sellerCatalogs = map[string][]domcat.Item{
	"mock-1": {
		{ID: "p1", Name: "Margherita Pizza", Description: "Fresh mozzarella, basil, San Marzano tomatoes", Price: 14.5, ImageURL: photo("1548365328-9f547fb0953c")},
		{ID: "p2", Name: "Pepperoni Pizza", Description: "Classic pepperoni with a crispy crust", Price: 16, ImageURL: photo("1593560708920-9ec9a9dfd0bc")},
	},
	"mock-3": {
		{ID: "t1", Name: "Carne Asada Taco", Description: "Grilled steak, onions, cilantro, lime", Price: 4.25, ImageURL: photo("1541753866388-0b3c701627d3")},
		{ID: "t2", Name: "Fish Taco", Description: "Battered cod, cabbage slaw, chipotle mayo", Price: 4.75, ImageURL: photo("1552332386-f8dd00dc2f85")},
	},
	"atx-franklin": {
		{ID: "bbq1", Name: "Brisket Plate", Description: "Smoked brisket with pickles and onions", Price: 19.5, ImageURL: photo("1544025162-d76694265947")},
		{ID: "bbq2", Name: "Pulled Pork Sandwich", Description: "House sauce, buttered bun", Price: 12, ImageURL: photo("1604908554226-0466b0f3f0f9")},
	},
	"bluebird-coffee-ATL-001": {
		{ID: "bb1", Name: "Latte", Description: "Silky espresso with steamed milk", Price: 4.25, ImageURL: photo("1504754524776-8f4f37790ca0")},
		{ID: "bb2", Name: "Cold Brew", Description: "18-hr steep, chocolatey notes", Price: 4.75, ImageURL: photo("1511920170033-f8396924c348")},
		{ID: "bb3", Name: "Blueberry Muffin", Description: "Baked daily", Price: 3.5, ImageURL: photo("1604908551470-6f9ab0d5f0d8")},
	},
	"midtown-bean-ATL-102": {
		{ID: "mb1", Name: "Flat White", Description: "Velvety microfoam", Price: 4.5, ImageURL: photo("1512568400610-62da28bc8a13")},
		{ID: "mb2", Name: "Nitro Cold Brew", Description: "Creamy, cascading", Price: 5.25, ImageURL: photo("1503481766315-7a586b20f66f")},
		{ID: "mb3", Name: "Almond Croissant", Description: "Buttery, toasted almonds", Price: 4.25, ImageURL: photo("1541167760496-1628856ab772")},
	},
	"gpg-ATL-877": {
		{ID: "gpg1", Name: "Drip Coffee", Description: "Freshly brewed", Price: 2.85, ImageURL: photo("1498804103079-a6351b050096")},
		{ID: "gpg2", Name: "Oat Milk Latte", Description: "Smooth and dairy-free", Price: 4.95, ImageURL: photo("1485808191679-5f86510681a2")},
		{ID: "gpg3", Name: "Seasonal Scone", Description: "House-made", Price: 3.75, ImageURL: photo("1490474418585-ba9bad8fd0ea")},
	},
}

// builtinMenus back GenericMenu when no menus file was loaded.
var builtinMenus = map[string][]domcat.Item{
	"coffee": {
		{ID: "c1", Name: "Espresso", Price: 3.0},
		{ID: "c2", Name: "Latte", Price: 4.25},
		{ID: "c3", Name: "Cold Brew", Price: 4.5},
		{ID: "c4", Name: "Blueberry Muffin", Price: 3.25},
	},
	"bbq": {
		{ID: "q1", Name: "Brisket Plate", Price: 18.5},
		{ID: "q2", Name: "Pulled Pork Sandwich", Price: 11.0},
		{ID: "q3", Name: "Mac and Cheese", Price: 4.5},
	},
	"pizza": {
		{ID: "pz1", Name: "Margherita", Price: 14.0},
		{ID: "pz2", Name: "Pepperoni", Price: 15.5},
		{ID: "pz3", Name: "Veggie", Price: 15.0},
	},
}
