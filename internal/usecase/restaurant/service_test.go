package restaurant

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	"github.com/kailas-cloud/agentcommerce/internal/repository/catalog"
	"github.com/kailas-cloud/agentcommerce/internal/repository/corpus"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := corpus.New([]entity.Entity{
		{ID: "atx-franklin", Name: "Franklin Barbecue", Categories: []entity.Category{{Alias: "bbq", Title: "BBQ"}}},
		{ID: "nyc-katz", Name: "Katz's Delicatessen", Categories: []entity.Category{{Alias: "delis", Title: "Delis"}}},
		{ID: "austin-pie", Name: "Urban Slice", Website: "https://urbanslice.square.site", Categories: []entity.Category{{Alias: "pizza", Title: "Pizza"}}},
		{ID: "austin-pit", Name: "Pit & Embers", Categories: []entity.Category{{Alias: "bbq", Title: "BBQ"}}},
		{ID: "no-cats", Name: "Mystery Spot"},
	})
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	return New(repo, catalog.New(nil))
}

func TestGet(t *testing.T) {
	svc := newTestService(t)

	e, err := svc.Get(context.Background(), "atx-franklin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Name != "Franklin Barbecue" {
		t.Errorf("unexpected name %q", e.Name)
	}

	_, err = svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, ok := svc.Lookup("missing"); ok {
		t.Error("Lookup must report absence")
	}
}

func TestDetails(t *testing.T) {
	svc := newTestService(t)

	d, err := svc.Details(context.Background(), "atx-franklin")
	if err != nil {
		t.Fatal(err)
	}
	if !d.Seller.UsesSquare || d.Seller.MerchantToken != "merchant_token_atx_franklin" {
		t.Errorf("unexpected seller %+v", d.Seller)
	}

	d, err = svc.Details(context.Background(), "austin-pie")
	if err != nil {
		t.Fatal(err)
	}
	if !d.Seller.UsesSquare || d.Seller.Reason != "heuristic-website" {
		t.Errorf("expected website heuristic, got %+v", d.Seller)
	}
}

func TestDetectSeller_FallsBackToEntityWebsite(t *testing.T) {
	svc := newTestService(t)

	if p := svc.DetectSeller(context.Background(), "austin-pie", ""); !p.UsesSquare {
		t.Errorf("expected square via entity website, got %+v", p)
	}
	if p := svc.DetectSeller(context.Background(), "elsewhere", "https://shop.squareup.com/x"); !p.UsesSquare {
		t.Errorf("expected square via explicit website, got %+v", p)
	}
	if p := svc.DetectSeller(context.Background(), "elsewhere", ""); p.UsesSquare || p.Reason != "unknown" {
		t.Errorf("expected unknown, got %+v", p)
	}
}

func TestMenu(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		wantSource string
		wantItems  int
		wantSeller string
	}{
		{"square seller catalog", "atx-franklin", MenuSourceSeller, 2, "Franklin Barbecue"},
		{"known non-square falls to generic", "austin-pit", MenuSourceGeneric, 3, "Pit & Embers"},
		{"heuristic square without catalog falls to generic", "austin-pie", MenuSourceGeneric, 3, "Urban Slice"},
		{"no generic menu for category", "nyc-katz", "", 0, "Katz's Delicatessen"},
		{"no categories", "no-cats", "", 0, "Mystery Spot"},
		{"seller outside corpus", "bluebird-coffee-ATL-001", MenuSourceSeller, 3, DefaultSellerName},
		{"unknown id", "missing", "", 0, DefaultSellerName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := svc.Menu(ctx, tt.id)
			if m.Source != tt.wantSource {
				t.Errorf("source: expected %q, got %q", tt.wantSource, m.Source)
			}
			if len(m.Items) != tt.wantItems {
				t.Errorf("items: expected %d, got %d", tt.wantItems, len(m.Items))
			}
			if m.SellerName != tt.wantSeller {
				t.Errorf("seller: expected %q, got %q", tt.wantSeller, m.SellerName)
			}
			if m.IsEmpty() != (tt.wantItems == 0) {
				t.Error("IsEmpty mismatch")
			}
		})
	}
}
