package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	"github.com/kailas-cloud/agentcommerce/internal/domain/geo"
	"github.com/kailas-cloud/agentcommerce/internal/domain/search/query"
	"github.com/kailas-cloud/agentcommerce/internal/domain/synonym"
)

// --- Mocks ---

type mockCorpus struct {
	entities []entity.Entity
}

func (m *mockCorpus) All() []entity.Entity { return m.entities }

type mockGeocoder struct {
	coord  geo.Coordinate
	err    error
	called int
	city   string
	region string
}

func (m *mockGeocoder) Resolve(_ context.Context, city, region string) (geo.Coordinate, error) {
	m.called++
	m.city, m.region = city, region
	return m.coord, m.err
}

// --- Fixtures ---

var austin = geo.Coordinate{Lat: 30.2672, Lon: -97.7431}

func place(id, name string, lat, lon float64, cats ...entity.Category) entity.Entity {
	return entity.Entity{
		ID:         id,
		Name:       name,
		Categories: cats,
		Location:   entity.Location{City: "Austin"},
		Coordinate: &geo.Coordinate{Lat: lat, Lon: lon},
	}
}

func cat(alias, title string) entity.Category { return entity.Category{Alias: alias, Title: title} }

func fixtureCorpus() *mockCorpus {
	unlocated := entity.Entity{ID: "ghost-bbq", Name: "Ghost BBQ", Categories: []entity.Category{cat("bbq", "BBQ")}}
	dallas := place("dallas-bbq", "Granite Smokehouse", 32.7767, -96.797, cat("bbq", "BBQ"))
	dallas.Location.City = "Dallas"

	return &mockCorpus{entities: []entity.Entity{
		place("copper-smokehouse", "Copper Smokehouse", 30.2791, -97.7312, cat("bbq", "BBQ"), cat("tacos", "Tacos")),
		place("river-roast", "River Roast", 30.2689, -97.7395, cat("coffee", "Coffee"), cat("bbq", "BBQ")),
		place("atx-franklin", "Franklin Barbecue", 30.2672, -97.7431, cat("bbq", "BBQ")),
		place("oak-barrel", "Oak Barrel", 30.2500, -97.7600, cat("smokehouse", "Barbeque")),
		place("sample-mexican", "Sample Mexican Grill", 30.2711, -97.7502),
		place("asada-cantina", "Asada Cantina", 30.2604, -97.7228, cat("tacos", "Tacos"), cat("mexican", "Mexican")),
		place("juniper-omakase", "Juniper Omakase", 30.2853, -97.7419, cat("sushi", "Sushi")),
		place("maple-skillet", "Maple Skillet", 30.2921, -97.7555, cat("brunch", "Breakfast & Brunch")),
		unlocated,
		dallas,
	}}
}

func newTestService(corpus Corpus, g Geocoder) *Service {
	return New(corpus, g, synonym.Default(), domain.DefaultSearchConfig())
}

func mustQuery(t *testing.T, term, city, state string, lat, lon *float64, limit int) query.Query {
	t.Helper()
	q, err := query.New(term, city, state, lat, lon, limit)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func ptr(f float64) *float64 { return &f }

func ids(es []entity.Entity) []string {
	out := make([]string, len(es))
	for i := range es {
		out[i] = es[i].ID
	}
	return out
}

// --- Tests ---

func TestSearch_CategoryAtExplicitOrigin(t *testing.T) {
	g := &mockGeocoder{}
	svc := newTestService(fixtureCorpus(), g)

	q := mustQuery(t, "bbq", "", "", ptr(30.2672), ptr(-97.7431), 10)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.called != 0 {
		t.Error("explicit coordinates must not trigger geocoding")
	}

	got := ids(res.Entities())
	if len(got) == 0 || got[0] != "atx-franklin" {
		t.Fatalf("expected atx-franklin first, got %v", got)
	}
	if res.Category() != "bbq" {
		t.Errorf("expected category bbq, got %q", res.Category())
	}
	if res.Source() != "local-db" {
		t.Errorf("expected source local-db, got %q", res.Source())
	}
	for _, e := range res.Entities() {
		p, _ := e.Primary()
		if p.Alias != "bbq" {
			t.Errorf("entity %s has primary category %q", e.ID, p.Alias)
		}
	}
	for _, id := range got {
		switch id {
		case "river-roast":
			t.Error("secondary bbq category must not match")
		case "ghost-bbq":
			t.Error("unlocated entity must be excluded")
		case "dallas-bbq":
			t.Error("entity outside radius must be excluded")
		}
	}
}

func TestSearch_CategoryMatchesPrimaryTitle(t *testing.T) {
	svc := newTestService(fixtureCorpus(), &mockGeocoder{})

	q := mustQuery(t, "breakfast", "", "", ptr(austin.Lat), ptr(austin.Lon), 10)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	got := ids(res.Entities())
	if len(got) != 1 || got[0] != "maple-skillet" {
		t.Errorf("expected maple-skillet via title, got %v", got)
	}
}

func TestSearch_TacosResolvesToMexican(t *testing.T) {
	svc := newTestService(fixtureCorpus(), &mockGeocoder{})

	q := mustQuery(t, "tacos", "", "", ptr(austin.Lat), ptr(austin.Lon), 10)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	if res.Category() != "mexican" {
		t.Fatalf("expected mexican (first matching class), got %q", res.Category())
	}
	for _, e := range res.Entities() {
		if e.ID == "sample-mexican" {
			t.Error("entity without categories must not pass a category filter")
		}
	}
}

func TestSearch_ExpansionMatchesName(t *testing.T) {
	terms := synonym.Default().Expand("tacos")
	for _, want := range []string{"tacos", "taco", "mexican"} {
		if !terms.Contains(want) {
			t.Errorf("expand(tacos) missing %q: %v", want, terms)
		}
	}

	pool := Nearby(fixtureCorpus().All(), austin, 30)
	matched := filterByTerms(pool, terms)
	found := false
	for _, e := range matched {
		if e.ID == "sample-mexican" {
			found = true
		}
	}
	if !found {
		t.Errorf("Sample Mexican Grill must match via expansion, got %v", ids(matched))
	}
}

func TestSearch_FreeText(t *testing.T) {
	svc := newTestService(fixtureCorpus(), &mockGeocoder{})

	q := mustQuery(t, "Omakase", "", "", ptr(austin.Lat), ptr(austin.Lon), 10)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(res.Entities()); len(got) != 1 || got[0] != "juniper-omakase" {
		t.Errorf("expected juniper-omakase, got %v", got)
	}
	if res.Category() != "" {
		t.Errorf("free-text search must not report a category, got %q", res.Category())
	}
}

func TestSearch_EmptyTermMatchesWholePool(t *testing.T) {
	corpus := fixtureCorpus()
	svc := newTestService(corpus, &mockGeocoder{})

	q := mustQuery(t, "", "", "", ptr(austin.Lat), ptr(austin.Lon), 25)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	want := len(Nearby(corpus.All(), austin, 30))
	if res.Total() != want {
		t.Errorf("expected %d entities, got %d", want, res.Total())
	}
	if res.Entities()[0].ID != "atx-franklin" {
		t.Errorf("expected closest first, got %s", res.Entities()[0].ID)
	}
}

func TestSearch_NoMatchReturnsSuggestions(t *testing.T) {
	g := &mockGeocoder{coord: austin}
	svc := newTestService(fixtureCorpus(), g)

	q := mustQuery(t, "zzzznomatch", "Austin", "TX", nil, nil, 5)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEmpty() {
		t.Errorf("expected no entities, got %v", ids(res.Entities()))
	}
	if len(res.Suggestions()) == 0 {
		t.Error("expected suggestions")
	}
	if g.called != 1 || g.city != "Austin" || g.region != "TX" {
		t.Errorf("expected one geocode for Austin, TX, got %d (%q, %q)", g.called, g.city, g.region)
	}
}

func TestSearch_LocationRequired(t *testing.T) {
	g := &mockGeocoder{}
	svc := newTestService(fixtureCorpus(), g)

	q := mustQuery(t, "", "", "", nil, nil, 0)
	_, err := svc.Search(context.Background(), &q)
	if !errors.Is(err, domain.ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}
	var se *domain.SearchError
	if !errors.As(err, &se) || se.Code != domain.CodeLocationRequired {
		t.Errorf("expected LOCATION_REQUIRED payload, got %v", err)
	}
	if g.called != 0 {
		t.Error("geocoder must not be called without a place")
	}
}

func TestSearch_GeocodeFailure(t *testing.T) {
	g := &mockGeocoder{err: errors.New("provider down")}
	svc := newTestService(fixtureCorpus(), g)

	q := mustQuery(t, "bbq", "Nowhereville", "", nil, nil, 10)
	_, err := svc.Search(context.Background(), &q)
	if !errors.Is(err, domain.ErrGeocodeNotFound) {
		t.Fatalf("expected ErrGeocodeNotFound, got %v", err)
	}
	var se *domain.SearchError
	if !errors.As(err, &se) {
		t.Fatalf("expected *domain.SearchError, got %T", err)
	}
	if se.Code != domain.CodeGeocodeNotFound {
		t.Errorf("expected GEOCODE_NOT_FOUND, got %s", se.Code)
	}
	if se.Input.City != "Nowhereville" {
		t.Errorf("expected input city in payload, got %+v", se.Input)
	}
	if !strings.Contains(se.Message, "Nowhereville") {
		t.Errorf("expected message to mention Nowhereville, got %q", se.Message)
	}
}

func TestSearch_InvalidCoordinatesFallBackToPlace(t *testing.T) {
	g := &mockGeocoder{coord: austin}
	svc := newTestService(fixtureCorpus(), g)

	q := mustQuery(t, "bbq", "Austin", "TX", ptr(200), ptr(-97.7), 10)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	if g.called != 1 {
		t.Errorf("expected geocoding for out-of-range coordinates, got %d calls", g.called)
	}
	if res.IsEmpty() {
		t.Error("expected results around geocoded Austin")
	}
}

func TestSearch_EmptyPoolDoesNotFallBack(t *testing.T) {
	svc := newTestService(fixtureCorpus(), &mockGeocoder{})

	// Middle of the Atlantic.
	q := mustQuery(t, "", "", "", ptr(30), ptr(-40), 10)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsEmpty() {
		t.Errorf("expected empty result, got %v", ids(res.Entities()))
	}
}

func TestSearch_ResultBound(t *testing.T) {
	svc := newTestService(fixtureCorpus(), &mockGeocoder{})

	for _, limit := range []int{1, 2, 3, 50} {
		q := mustQuery(t, "", "", "", ptr(austin.Lat), ptr(austin.Lon), limit)
		res, err := svc.Search(context.Background(), &q)
		if err != nil {
			t.Fatal(err)
		}
		if res.Total() > q.Limit() {
			t.Errorf("limit %d: got %d entities", q.Limit(), res.Total())
		}
	}
}

func TestSearch_ConfigMaxLimitClamps(t *testing.T) {
	cfg := domain.DefaultSearchConfig()
	cfg.MaxLimit = 2
	svc := New(fixtureCorpus(), &mockGeocoder{}, nil, cfg)

	q := mustQuery(t, "", "", "", ptr(austin.Lat), ptr(austin.Lon), 10)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total() != 2 {
		t.Errorf("expected 2 entities, got %d", res.Total())
	}
}

func TestSearch_DedupesCorpus(t *testing.T) {
	c := fixtureCorpus()
	c.entities = append(c.entities, c.entities[2]) // duplicate atx-franklin
	svc := newTestService(c, &mockGeocoder{})

	q := mustQuery(t, "bbq", "", "", ptr(austin.Lat), ptr(austin.Lon), 25)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, id := range ids(res.Entities()) {
		if seen[id] {
			t.Errorf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestSearch_CustomSynonyms(t *testing.T) {
	table := synonym.MustTable([]synonym.Class{{Alias: "sushi", Synonyms: []string{"sushi", "omakase"}}})
	svc := New(fixtureCorpus(), &mockGeocoder{}, table, domain.SearchConfig{})

	q := mustQuery(t, "omakase", "", "", ptr(austin.Lat), ptr(austin.Lon), 10)
	res, err := svc.Search(context.Background(), &q)
	if err != nil {
		t.Fatal(err)
	}
	if res.Category() != "sushi" || res.Total() != 1 {
		t.Errorf("expected one sushi result, got %q %v", res.Category(), ids(res.Entities()))
	}
}
