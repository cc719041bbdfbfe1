package chi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	domorder "github.com/kailas-cloud/agentcommerce/internal/domain/order"
	"github.com/kailas-cloud/agentcommerce/internal/domain/search/query"
	"github.com/kailas-cloud/agentcommerce/internal/logger"
	"github.com/kailas-cloud/agentcommerce/internal/ui"
)

// Sample lines for the order and receipt previews.
var (
	devOrderLines = []domorder.Line{
		{Name: "Sample Item A", Qty: 1, Price: 9.99},
		{Name: "Sample Item B", Qty: 2, Price: 4.25},
	}
	devReceiptLines = []domorder.Line{
		{Name: "Blueberry Muffin", Qty: 1, Price: 3.25},
		{Name: "Espresso", Qty: 5, Price: 3.0},
	}
)

var devLinks = []ui.Link{
	{Href: "/dev/restaurants", Label: "Search Results (default)"},
	{Href: "/dev/restaurants?city=Austin&state=TX&query=bbq", Label: "Search Results (Austin, TX; query=bbq)"},
	{Href: "/dev/restaurant/atx-franklin", Label: "Restaurant Details: Franklin Barbecue"},
	{Href: "/dev/menu/atx-franklin", Label: "Menu: Franklin"},
	{Href: "/dev/order/atx-franklin", Label: "Order: Franklin (sample items)"},
	{Href: "/dev/receipt/atx-franklin", Label: "Receipt: Franklin (sample items)"},
}

// DevIndex handles GET /dev.
func (s *Server) DevIndex(w http.ResponseWriter, r *http.Request) {
	html, err := s.ui.DevIndex(devLinks)
	s.writeHTML(w, r, http.StatusOK, html, err)
}

// DevRestaurants handles GET /dev/restaurants?city&state&query&limit.
func (s *Server) DevRestaurants(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	city := DefaultCity
	if params.Has("city") {
		city = params.Get("city")
	}
	limit, err := strconv.Atoi(params.Get("limit"))
	if err != nil || limit <= 0 {
		limit = s.defaultLimit
	}

	q, err := query.New(params.Get("query"), city, params.Get("state"), nil, nil, limit)
	if err != nil {
		s.devError(w, r, http.StatusBadRequest, err.Error(), string(domain.CodeUnknown))
		return
	}

	res, err := s.search.Search(r.Context(), &q)
	if err != nil {
		se := domain.ClassifyError(err, q.Input())
		s.devError(w, r, http.StatusBadRequest, se.Message, string(se.Code))
		return
	}
	if res.IsEmpty() {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(noResultsText(q.Place(), q.Term(), res.Suggestions())))
		return
	}

	place := q.Place()
	if place == "" {
		place = "your area"
	}
	html, err := s.ui.SearchResults(resultsTitle(q.Term(), place, " in "), res.Entities())
	s.writeHTML(w, r, http.StatusOK, html, err)
}

// DevRestaurant handles GET /dev/restaurant/{id}.
func (s *Server) DevRestaurant(w http.ResponseWriter, r *http.Request) {
	d, err := s.restaurants.Details(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.devLookupError(w, r, err)
		return
	}
	html, err := s.ui.Details(&d.Entity, d.Seller)
	s.writeHTML(w, r, http.StatusOK, html, err)
}

// DevMenu handles GET /dev/menu/{id}.
func (s *Server) DevMenu(w http.ResponseWriter, r *http.Request) {
	m := s.restaurants.Menu(r.Context(), chi.URLParam(r, "id"))
	html, err := s.ui.Menu(m.BusinessID, m.SellerName, m.Items)
	s.writeHTML(w, r, http.StatusOK, html, err)
}

// DevOrder handles GET /dev/order/{id}.
func (s *Server) DevOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Place(r.Context(), chi.URLParam(r, "id"), devOrderLines)
	if err != nil {
		s.devLookupError(w, r, err)
		return
	}
	html, err := s.ui.Order(&o)
	s.writeHTML(w, r, http.StatusOK, html, err)
}

// DevReceipt handles GET /dev/receipt/{id}.
func (s *Server) DevReceipt(w http.ResponseWriter, r *http.Request) {
	o, err := s.orders.Place(r.Context(), chi.URLParam(r, "id"), devReceiptLines)
	if err != nil {
		s.devLookupError(w, r, err)
		return
	}
	html, err := s.ui.Receipt(&o)
	s.writeHTML(w, r, http.StatusOK, html, err)
}

func (s *Server) devLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		s.devError(w, r, http.StatusNotFound, "Restaurant not found.", "NOT_FOUND")
		return
	}
	s.writeHTML(w, r, http.StatusOK, "", err)
}

func (s *Server) devError(w http.ResponseWriter, r *http.Request, status int, message, code string) {
	html, err := s.ui.Error(message, code)
	s.writeHTML(w, r, status, html, err)
}

func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, status int, html string, err error) {
	if err != nil {
		logger.FromContext(r.Context()).Error("render failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}
