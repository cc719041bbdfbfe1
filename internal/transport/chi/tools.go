package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	domorder "github.com/kailas-cloud/agentcommerce/internal/domain/order"
	"github.com/kailas-cloud/agentcommerce/internal/domain/search/query"
	"github.com/kailas-cloud/agentcommerce/internal/version"
)

// DefaultCity is searched when find_restaurants gets no city.
const DefaultCity = "Austin"

const noMenuText = "No menu available for this seller."

type toolFunc func(ctx context.Context, args json.RawMessage) (toolResult, error)

// tool is a callable tool with its advertised input schema.
type tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`

	call toolFunc
}

func objectSchema(required []string, props map[string]any) map[string]any {
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var lineItemsSchema = map[string]any{
	"type": "array",
	"items": objectSchema([]string{"name"}, map[string]any{
		"name":  map[string]any{"type": "string"},
		"qty":   map[string]any{"type": "integer", "default": 1},
		"price": map[string]any{"type": "number", "default": 0},
	}),
}

var businessIDSchema = map[string]any{"type": "string"}

// buildTools registers the tool set in listing order.
func (s *Server) buildTools() []tool {
	return []tool{
		{
			Name:        "find_restaurants",
			Description: "Find nearby restaurants by city/state and optional query.",
			InputSchema: objectSchema(nil, map[string]any{
				"city":      map[string]any{"type": "string", "default": DefaultCity},
				"state":     map[string]any{"type": "string"},
				"query":     map[string]any{"type": "string"},
				"limit":     map[string]any{"type": "integer", "minimum": 1, "maximum": query.MaxLimit, "default": query.DefaultLimit},
				"latitude":  map[string]any{"type": "number"},
				"longitude": map[string]any{"type": "number"},
			}),
			call: s.findRestaurants,
		},
		{
			Name:        "detect_seller_square",
			Description: "Determine if a seller uses Square and return detection details.",
			InputSchema: objectSchema([]string{"business_id"}, map[string]any{
				"business_id": businessIDSchema,
				"website_url": map[string]any{"type": "string"},
			}),
			call: s.detectSeller,
		},
		{
			Name:        "view_restaurant",
			Description: "View restaurant details by id.",
			InputSchema: objectSchema([]string{"business_id"}, map[string]any{"business_id": businessIDSchema}),
			call:        s.viewRestaurant,
		},
		{
			Name:        "order_takeout",
			Description: "Simulate placing a takeout order for items.",
			InputSchema: objectSchema([]string{"business_id", "items"}, map[string]any{
				"business_id": businessIDSchema,
				"items":       lineItemsSchema,
			}),
			call: s.orderTakeout,
		},
		{
			Name:        "view_menu",
			Description: "Read a seller's menu (if Square) and display items with price and image.",
			InputSchema: objectSchema([]string{"business_id"}, map[string]any{"business_id": businessIDSchema}),
			call:        s.viewMenu,
		},
		{
			Name:        "view_receipt",
			Description: "Render a playful receipt for an order (demo only).",
			InputSchema: objectSchema([]string{"business_id", "items"}, map[string]any{
				"business_id": businessIDSchema,
				"items":       lineItemsSchema,
			}),
			call: s.viewReceipt,
		},
	}
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidParams, err)
	}
	return nil
}

func uiResource(uri, html string) content {
	return content{
		Type:        "resource",
		Resource:    &resource{URI: uri, MimeType: "text/html", Text: html},
		Annotations: audienceUser,
		Meta:        map[string]any{"server": version.ServerName},
	}
}

type findRestaurantsArgs struct {
	City      *string  `json:"city"`
	State     string   `json:"state"`
	Query     string   `json:"query"`
	Limit     *int     `json:"limit"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (s *Server) findRestaurants(ctx context.Context, raw json.RawMessage) (toolResult, error) {
	var args findRestaurantsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return toolResult{}, err
	}
	city := DefaultCity
	if args.City != nil {
		city = *args.City
	}
	limit := s.defaultLimit
	if args.Limit != nil {
		if *args.Limit < 1 || *args.Limit > query.MaxLimit {
			return toolResult{}, fmt.Errorf("%w: limit must be between 1 and %d", errInvalidParams, query.MaxLimit)
		}
		limit = *args.Limit
	}

	q, err := query.New(args.Query, city, args.State, args.Latitude, args.Longitude, limit)
	if err != nil {
		return toolResult{}, fmt.Errorf("%w: %w", errInvalidParams, err)
	}

	// Every failure past this point reaches the caller as a coded search error.
	res, err := s.search.Search(ctx, &q)
	if err != nil {
		return toolResult{}, domain.ClassifyError(err, q.Input())
	}

	place := q.Place()
	if res.IsEmpty() {
		return textResult(noResultsText(place, q.Term(), res.Suggestions())), nil
	}

	html, err := s.ui.SearchResults(resultsTitle(q.Term(), place, " — "), res.Entities())
	if err != nil {
		return toolResult{}, domain.ClassifyError(err, q.Input())
	}
	return toolResult{Content: []content{
		uiResource("ui://restaurants/list", html),
		textContent(resultsSummary(res.Total(), q.Term(), place, res.Entities()), audienceAssistant),
	}}, nil
}

// resultsTitle is `Results for "q"` or "Nearby Restaurants", followed by sep and place.
func resultsTitle(term, place, sep string) string {
	title := "Nearby Restaurants"
	if term != "" {
		title = fmt.Sprintf("Results for %q", term)
	}
	if place != "" {
		title += sep + place
	}
	return title
}

func noResultsText(place, term string, suggestions []string) string {
	if place == "" {
		place = "your area"
	}
	var b strings.Builder
	b.WriteString("No local results for " + place)
	if term != "" {
		fmt.Fprintf(&b, " (query=%q)", term)
	}
	b.WriteString(".")
	if len(suggestions) > 0 {
		b.WriteString("\nSuggestions: " + strings.Join(suggestions, "; "))
	}
	return b.String()
}

func resultsSummary(n int, term, place string, top []entity.Entity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d result", n)
	if n != 1 {
		b.WriteString("s")
	}
	if term != "" {
		fmt.Fprintf(&b, " for %q", term)
	}
	if place != "" {
		b.WriteString(" near " + place)
	}
	b.WriteString(".")

	names := make([]string, 0, 3)
	for i := 0; i < len(top) && len(names) < 3; i++ {
		if name := top[i].Name; name != "" {
			names = append(names, name)
		}
	}
	if len(names) > 0 {
		b.WriteString(" Top: " + strings.Join(names, ", ") + ".")
	}
	return b.String()
}

type businessArgs struct {
	BusinessID string `json:"business_id"`
	WebsiteURL string `json:"website_url"`
}

func decodeBusiness(raw json.RawMessage) (businessArgs, error) {
	var args businessArgs
	if err := decodeArgs(raw, &args); err != nil {
		return args, err
	}
	args.BusinessID = strings.TrimSpace(args.BusinessID)
	if args.BusinessID == "" {
		return args, fmt.Errorf("%w: business_id is required", errInvalidParams)
	}
	return args, nil
}

func (s *Server) detectSeller(ctx context.Context, raw json.RawMessage) (toolResult, error) {
	args, err := decodeBusiness(raw)
	if err != nil {
		return toolResult{}, err
	}
	info := s.restaurants.DetectSeller(ctx, args.BusinessID, args.WebsiteURL)
	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return toolResult{}, fmt.Errorf("marshal seller platform: %w", err)
	}
	return textResult(string(out)), nil
}

func (s *Server) viewRestaurant(ctx context.Context, raw json.RawMessage) (toolResult, error) {
	args, err := decodeBusiness(raw)
	if err != nil {
		return toolResult{}, err
	}
	d, err := s.restaurants.Details(ctx, args.BusinessID)
	if err != nil {
		return toolResult{}, err
	}
	html, err := s.ui.Details(&d.Entity, d.Seller)
	if err != nil {
		return toolResult{}, err
	}
	return toolResult{Content: []content{uiResource("ui://restaurant/"+args.BusinessID, html)}}, nil
}

func (s *Server) viewMenu(ctx context.Context, raw json.RawMessage) (toolResult, error) {
	args, err := decodeBusiness(raw)
	if err != nil {
		return toolResult{}, err
	}
	m := s.restaurants.Menu(ctx, args.BusinessID)
	if m.IsEmpty() {
		return textResult(noMenuText), nil
	}
	html, err := s.ui.Menu(m.BusinessID, m.SellerName, m.Items)
	if err != nil {
		return toolResult{}, err
	}
	return toolResult{Content: []content{uiResource("ui://menu/"+args.BusinessID, html)}}, nil
}

type lineArg struct {
	Name  string  `json:"name"`
	Qty   *int    `json:"qty"`
	Price float64 `json:"price"`
}

type orderArgs struct {
	BusinessID string    `json:"business_id"`
	Items      []lineArg `json:"items"`
}

func decodeOrder(raw json.RawMessage) (string, []domorder.Line, error) {
	var args orderArgs
	if err := decodeArgs(raw, &args); err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(args.BusinessID) == "" {
		return "", nil, fmt.Errorf("%w: business_id is required", errInvalidParams)
	}
	if args.Items == nil {
		return "", nil, fmt.Errorf("%w: items is required", errInvalidParams)
	}
	lines := make([]domorder.Line, len(args.Items))
	for i, it := range args.Items {
		qty := 1
		if it.Qty != nil {
			qty = *it.Qty
		}
		lines[i] = domorder.Line{Name: it.Name, Qty: qty, Price: it.Price}
	}
	return strings.TrimSpace(args.BusinessID), lines, nil
}

func (s *Server) orderTakeout(ctx context.Context, raw json.RawMessage) (toolResult, error) {
	id, lines, err := decodeOrder(raw)
	if err != nil {
		return toolResult{}, err
	}
	o, err := s.orders.Place(ctx, id, lines)
	if err != nil {
		return toolResult{}, err
	}
	html, err := s.ui.Order(&o)
	if err != nil {
		return toolResult{}, err
	}
	return toolResult{Content: []content{uiResource("ui://order/"+id, html)}}, nil
}

func (s *Server) viewReceipt(ctx context.Context, raw json.RawMessage) (toolResult, error) {
	id, lines, err := decodeOrder(raw)
	if err != nil {
		return toolResult{}, err
	}
	o, err := s.orders.Place(ctx, id, lines)
	if err != nil {
		return toolResult{}, err
	}
	html, err := s.ui.Receipt(&o)
	if err != nil {
		return toolResult{}, err
	}
	return toolResult{Content: []content{uiResource("ui://receipt/"+id, html)}}, nil
}

// searchErrorHandler turns a failed search into the boundary error payload.
func searchErrorHandler(err error) (toolResult, bool) {
	var se *domain.SearchError
	if !errors.As(err, &se) {
		return toolResult{}, false
	}
	out, mErr := json.MarshalIndent(se, "", "  ")
	if mErr != nil {
		return errorResult(se.Message), true
	}
	return errorResult(string(out)), true
}

// sentinelHandler answers a matching sentinel with a user-facing error result.
func sentinelHandler(sentinel error, message func(err error) string) errorHandler {
	return func(err error) (toolResult, bool) {
		if !errors.Is(err, sentinel) {
			return toolResult{}, false
		}
		return errorResult(message(err)), true
	}
}
