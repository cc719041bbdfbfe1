package agentcommerce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/agentcommerce/internal/db"
	dbRedis "github.com/kailas-cloud/agentcommerce/internal/db/redis"
	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	"github.com/kailas-cloud/agentcommerce/internal/domain/search/query"
	"github.com/kailas-cloud/agentcommerce/internal/domain/search/result"
	"github.com/kailas-cloud/agentcommerce/internal/domain/synonym"
	"github.com/kailas-cloud/agentcommerce/internal/repository/catalog"
	"github.com/kailas-cloud/agentcommerce/internal/repository/corpus"
	"github.com/kailas-cloud/agentcommerce/internal/transport/nominatim"
	healthuc "github.com/kailas-cloud/agentcommerce/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/agentcommerce/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/agentcommerce/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultGeocodeTimeout   = 5 * time.Second
)

// Внутренние интерфейсы для подмены в тестах.
type searchUseCase interface {
	Search(ctx context.Context, q *query.Query) (result.Result, error)
}

type restaurantUseCase interface {
	Details(ctx context.Context, id string) (restaurantuc.Details, error)
}

// Client is the agentcommerce SDK entry point.
type Client struct {
	store         db.Store
	searchSvc     searchUseCase
	restaurantSvc restaurantUseCase
	healthSvc     healthUseCase
	obs           *observer
}

// New loads the corpus and wires the search engine.
// The provided context bounds corpus loading and the Redis readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	sources := 0
	for _, set := range []bool{cfg.corpusPath != "", len(cfg.addrs) > 0, cfg.entities != nil} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return nil, errors.New("agentcommerce: corpus required (use WithCorpusFile, WithRedisCorpus or WithEntities)")
	case sources > 1:
		return nil, errors.New("agentcommerce: more than one corpus source configured")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if len(cfg.addrs) > 0 {
		store, err = connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	entities, err := loadCorpus(ctx, cfg, store)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	c, err := wireClient(entities, store, cfg, obs)
	if err != nil && store != nil {
		store.Close()
	}
	return c, err
}

func connect(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("agentcommerce: create redis store: %w", err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("agentcommerce: database not ready: %w", err)
	}
	return s, nil
}

func loadCorpus(ctx context.Context, cfg *clientConfig, store db.Store) (*corpus.Repository, error) {
	switch {
	case store != nil:
		key := cfg.corpusKey
		if key == "" {
			key = DefaultCorpusKey
		}
		r, err := corpus.LoadFromStore(ctx, store, key)
		if err != nil {
			return nil, fmt.Errorf("agentcommerce: load corpus from redis: %w", err)
		}
		return r, nil
	case cfg.corpusPath != "":
		r, err := corpus.LoadFile(cfg.corpusPath)
		if err != nil {
			return nil, fmt.Errorf("agentcommerce: load corpus file: %w", err)
		}
		return r, nil
	default:
		es := make([]entity.Entity, len(cfg.entities))
		for i := range cfg.entities {
			es[i] = toEntity(&cfg.entities[i])
		}
		r, err := corpus.New(es)
		if err != nil {
			return nil, fmt.Errorf("agentcommerce: build corpus: %w", err)
		}
		return r, nil
	}
}

func wireClient(entities *corpus.Repository, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	var table *synonym.Table
	if len(cfg.synonyms) > 0 {
		t, err := synonym.NewTable(cfg.synonyms)
		if err != nil {
			return nil, fmt.Errorf("agentcommerce: %w", err)
		}
		table = t
	}

	// Geocoder: built-in Nominatim unless the caller brings one
	var geocoder searchuc.Geocoder
	if cfg.geocoder != nil {
		geocoder = &geocoderAdapter{inner: cfg.geocoder}
	} else {
		geocoder = nominatim.NewGeocoder(&nominatim.Config{
			BaseURL: cfg.geocoderURL,
			Timeout: defaultGeocodeTimeout,
		})
	}

	searchCfg := domain.DefaultSearchConfig()
	if cfg.radiusKm > 0 {
		searchCfg.RadiusKm = cfg.radiusKm
	}

	// Pass nil interface (not typed nil pointer!) when no store is configured.
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:         store,
		searchSvc:     searchuc.New(entities, geocoder, table, searchCfg),
		restaurantSvc: restaurantuc.New(entities, catalog.New(nil)),
		healthSvc:     healthuc.New(entities, pinger),
		obs:           obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search finds restaurants near the requested location that match the query.
// Unusable parameters fail with ErrInvalidQuery; every other failure is a
// *SearchError. An empty result is not an error.
func (c *Client) Search(ctx context.Context, p SearchParams) (res SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "search", start, err) }()

	q, err := query.New(p.Query, p.City, p.State, p.Latitude, p.Longitude, p.Limit)
	if err != nil {
		// Caller input, not a search failure: surfaced as ErrInvalidQuery.
		return SearchResult{}, fmt.Errorf("agentcommerce: %w", err)
	}

	r, err := c.searchSvc.Search(ctx, &q)
	if err != nil {
		return SearchResult{}, domain.ClassifyError(err, q.Input())
	}

	out := SearchResult{
		Restaurants: make([]Restaurant, 0, r.Total()),
		Source:      r.Source(),
		Category:    r.Category(),
		Suggestions: r.Suggestions(),
	}
	for _, e := range r.Entities() {
		out.Restaurants = append(out.Restaurants, fromEntity(&e))
	}
	return out, nil
}

// Restaurant returns one restaurant with its seller platform, or ErrNotFound.
func (c *Client) Restaurant(ctx context.Context, id string) (_ RestaurantDetails, err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, "restaurant", start, err) }()

	d, err := c.restaurantSvc.Details(ctx, id)
	if err != nil {
		return RestaurantDetails{}, fmt.Errorf("restaurant: %w", err)
	}
	return RestaurantDetails{
		Restaurant: fromEntity(&d.Entity),
		Seller: Seller{
			UsesSquare:    d.Seller.UsesSquare,
			Reason:        d.Seller.Reason,
			MerchantToken: d.Seller.MerchantToken,
			LocationID:    d.Seller.LocationID,
		},
	}, nil
}
