package search

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	"github.com/kailas-cloud/agentcommerce/internal/domain/geo"
	"github.com/kailas-cloud/agentcommerce/internal/domain/search/query"
	"github.com/kailas-cloud/agentcommerce/internal/domain/search/result"
	"github.com/kailas-cloud/agentcommerce/internal/domain/synonym"
	"github.com/kailas-cloud/agentcommerce/internal/logger"
	"github.com/kailas-cloud/agentcommerce/internal/metrics"
)

const (
	modeCategory = "category"
	modeText     = "text"
)

// Service finds nearby entities matching a free-text term.
type Service struct {
	corpus   Corpus
	geocoder Geocoder
	synonyms *synonym.Table
	cfg      domain.SearchConfig
}

// New creates a search service. A nil synonym table falls back to the
// built-in taxonomy; zero config fields fall back to domain.DefaultSearchConfig.
func New(corpus Corpus, geocoder Geocoder, synonyms *synonym.Table, cfg domain.SearchConfig) *Service {
	def := domain.DefaultSearchConfig()
	if cfg.RadiusKm <= 0 {
		cfg.RadiusKm = def.RadiusKm
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.Source == "" {
		cfg.Source = def.Source
	}
	if synonyms == nil {
		synonyms = synonym.Default()
	}
	return &Service{corpus: corpus, geocoder: geocoder, synonyms: synonyms, cfg: cfg}
}

// Search resolves the origin, narrows the corpus to the nearby pool, filters
// it by canonical category or expanded terms, then dedupes and truncates.
// It fails with a *domain.SearchError wrapping ErrLocationRequired or
// ErrGeocodeNotFound. An empty result is not an error.
func (s *Service) Search(ctx context.Context, q *query.Query) (result.Result, error) {
	start := time.Now()
	log := logger.FromContext(ctx)

	category, isCategory := s.synonyms.CanonicalCategory(q.Term())
	mode := modeText
	if isCategory {
		mode = modeCategory
	}
	defer func() {
		metrics.SearchDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}()

	origin, err := s.origin(ctx, q)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(mode, statusOf(err)).Inc()
		return result.Result{}, err
	}

	pool := Nearby(s.corpus.All(), origin, s.cfg.RadiusKm)
	metrics.SearchPoolSize.Observe(float64(len(pool)))

	var matched []entity.Entity
	if isCategory {
		matched = filterByCategory(pool, category)
	} else {
		matched = filterByTerms(pool, s.synonyms.Expand(q.Term()))
	}

	matched = Dedupe(matched)
	if limit := min(q.Limit(), s.cfg.MaxLimit); len(matched) > limit {
		matched = matched[:limit]
	}

	res := result.New(matched, s.cfg.Source, nil)
	if isCategory {
		res = res.WithCategory(category)
	}

	status := "ok"
	if res.IsEmpty() {
		status = "empty"
	}
	metrics.SearchRequestsTotal.WithLabelValues(mode, status).Inc()

	log.Debug("search completed",
		zap.String("term", q.Term()),
		zap.String("origin", origin.String()),
		zap.Int("pool", len(pool)),
		zap.String("category", category),
		zap.Int("results", res.Total()),
	)
	return res, nil
}

// origin picks explicit coordinates first, then geocodes city/state.
func (s *Service) origin(ctx context.Context, q *query.Query) (geo.Coordinate, error) {
	if o := q.Origin(); o != nil {
		logger.FromContext(ctx).Debug("search origin", zap.String("source", "explicit"))
		return *o, nil
	}
	if !q.HasPlace() {
		return geo.Coordinate{}, domain.NewLocationRequired(q.Input())
	}
	c, err := s.geocoder.Resolve(ctx, q.City(), q.State())
	if err != nil {
		return geo.Coordinate{}, domain.NewGeocodeNotFound(q.Input(), err)
	}
	logger.FromContext(ctx).Debug("search origin",
		zap.String("source", "geocoded"), zap.String("place", q.Place()))
	return c, nil
}

// filterByCategory keeps entities whose primary category is alias, by exact
// alias or by a title containing it. Secondary categories never match.
func filterByCategory(pool []entity.Entity, alias string) []entity.Entity {
	out := make([]entity.Entity, 0, len(pool))
	for i := range pool {
		p, ok := pool[i].Primary()
		if !ok {
			continue
		}
		if strings.EqualFold(p.Alias, alias) || strings.Contains(strings.ToLower(p.Title), alias) {
			out = append(out, pool[i])
		}
	}
	return out
}

// filterByTerms keeps entities whose name, category titles or city contain
// any expanded term.
func filterByTerms(pool []entity.Entity, terms synonym.Terms) []entity.Entity {
	out := make([]entity.Entity, 0, len(pool))
	for i := range pool {
		if terms.MatchAny(pool[i].SearchText()) {
			out = append(out, pool[i])
		}
	}
	return out
}

func statusOf(err error) string {
	switch domain.ClassifyError(err, domain.Input{}).Code {
	case domain.CodeLocationRequired:
		return "location_required"
	case domain.CodeGeocodeNotFound:
		return "geocode_not_found"
	default:
		return "error"
	}
}
