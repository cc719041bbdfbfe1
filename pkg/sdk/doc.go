// Package agentcommerce embeds the restaurant search engine in a Go program
// without running the HTTP server.
//
// The engine answers "find X near Y": it resolves a location, keeps entities
// within the search radius, matches the term against an alias/synonym
// taxonomy and returns deduplicated results in corpus order.
//
//	client, err := agentcommerce.New(ctx,
//	    agentcommerce.WithCorpusFile("data/restaurants.json"),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	res, err := client.Search(ctx, agentcommerce.SearchParams{
//	    Query: "bbq", City: "Austin", State: "TX",
//	})
//	var se *agentcommerce.SearchError
//	if errors.As(err, &se) {
//	    fmt.Println(se.Code) // LOCATION_REQUIRED, GEOCODE_NOT_FOUND or UNKNOWN
//	}
//
// Without WithGeocoder, city/state lookups go to a Nominatim instance
// (WithGeocoderURL overrides the public endpoint).
package agentcommerce
