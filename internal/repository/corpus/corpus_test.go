package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/agentcommerce/internal/db"
	"github.com/kailas-cloud/agentcommerce/internal/domain"
)

const sampleCorpus = `[
  {
    "id": "atx-franklin",
    "name": "Franklin Barbecue",
    "rating": 4.8,
    "price": "$$",
    "categories": [{"alias": "bbq", "title": "Barbeque"}],
    "location": {"address1": "900 E 11th St", "city": "Austin"},
    "website": "https://franklinbbq.com",
    "review_count": 5400,
    "latitude": 30.2672,
    "longitude": -97.7431,
    "phone": "+1 512-653-1187",
    "hours": ["Tue-Sun 11:00-15:00"],
    "brandColor": "#8B0000"
  },
  {
    "id": "no-coords",
    "name": "Ghost Kitchen",
    "categories": [{"alias": "pizza", "title": "Pizza"}]
  }
]`

type memStore struct {
	data map[string][]byte
	err  error
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
	return nil
}

func TestDecode(t *testing.T) {
	repo, err := Decode(strings.NewReader(sampleCorpus))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if repo.Len() != 2 {
		t.Fatalf("expected 2 entities, got %d", repo.Len())
	}

	e, ok := repo.Get("atx-franklin")
	if !ok {
		t.Fatal("atx-franklin not found")
	}
	if e.Coordinate == nil || e.Coordinate.Lat != 30.2672 || e.Coordinate.Lon != -97.7431 {
		t.Errorf("unexpected coordinate %v", e.Coordinate)
	}
	if e.Rating == nil || *e.Rating != 4.8 {
		t.Errorf("unexpected rating %v", e.Rating)
	}
	if e.Location.City != "Austin" || e.ReviewCount != 5400 || e.BrandColor != "#8B0000" {
		t.Errorf("unexpected fields %+v", e)
	}
	if p, _ := e.Primary(); p.Alias != "bbq" {
		t.Errorf("expected primary bbq, got %q", p.Alias)
	}

	ghost, _ := repo.Get("no-coords")
	if ghost.Located() {
		t.Error("entity without coordinates must not be located")
	}
}

func TestDecode_PreservesOrder(t *testing.T) {
	repo, err := Decode(strings.NewReader(sampleCorpus))
	if err != nil {
		t.Fatal(err)
	}
	all := repo.All()
	if all[0].ID != "atx-franklin" || all[1].ID != "no-coords" {
		t.Errorf("unexpected order: %s, %s", all[0].ID, all[1].ID)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"not json", `{`, nil},
		{"unknown field", `[{"id":"a","name":"A","stars":5}]`, nil},
		{"missing name", `[{"id":"a"}]`, domain.ErrInvalidEntity},
		{"bad id", `[{"id":"a b","name":"A"}]`, domain.ErrInvalidEntity},
		{"rating out of range", `[{"id":"a","name":"A","rating":7}]`, domain.ErrInvalidEntity},
		{"bad price", `[{"id":"a","name":"A","price":"$$$$"}]`, domain.ErrInvalidEntity},
		{"bad latitude", `[{"id":"a","name":"A","latitude":95,"longitude":0}]`, domain.ErrInvalidEntity},
		{"duplicate id", `[{"id":"a","name":"A"},{"id":"a","name":"B"}]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecode_HalfCoordinateIsUnlocated(t *testing.T) {
	repo, err := Decode(strings.NewReader(`[{"id":"a","name":"A","latitude":30}]`))
	if err != nil {
		t.Fatal(err)
	}
	e, _ := repo.Get("a")
	if e.Located() {
		t.Error("a record with only latitude must be unlocated")
	}
}

func TestGet_Missing(t *testing.T) {
	repo, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.Get("nope"); ok {
		t.Error("expected miss")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.json")
	if err := os.WriteFile(path, []byte(sampleCorpus), 0o600); err != nil {
		t.Fatal(err)
	}
	repo, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if repo.Len() != 2 {
		t.Errorf("expected 2, got %d", repo.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPublishAndLoadFromStore(t *testing.T) {
	src, err := Decode(strings.NewReader(sampleCorpus))
	if err != nil {
		t.Fatal(err)
	}
	s := &memStore{}
	ctx := context.Background()

	if err := Publish(ctx, s, StoreKey, src); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	got, err := LoadFromStore(ctx, s, StoreKey)
	if err != nil {
		t.Fatalf("LoadFromStore: %v", err)
	}
	if got.Len() != src.Len() {
		t.Fatalf("expected %d entities, got %d", src.Len(), got.Len())
	}
	e, _ := got.Get("atx-franklin")
	if e.Coordinate == nil || e.Coordinate.Lat != 30.2672 {
		t.Errorf("coordinate lost in round trip: %v", e.Coordinate)
	}
	if e.Location.Address1 != "900 E 11th St" || len(e.Hours) != 1 {
		t.Errorf("fields lost in round trip: %+v", e)
	}
}

func TestLoadFromStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadFromStore(ctx, &memStore{}, StoreKey)
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}

	boom := errors.New("connection refused")
	_, err = LoadFromStore(ctx, &memStore{err: boom}, StoreKey)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped store error, got %v", err)
	}

	s := &memStore{data: map[string][]byte{StoreKey: []byte("not json")}}
	if _, err := LoadFromStore(ctx, s, StoreKey); err == nil {
		t.Error("expected decode error")
	}
}
