// Package nominatim resolves place names to coordinates through the
// OpenStreetMap Nominatim search API.
package nominatim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/geo"
	"github.com/kailas-cloud/agentcommerce/internal/metrics"
)

const (
	provider = "nominatim"

	// DefaultBaseURL is the public Nominatim endpoint.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	// DefaultUserAgent identifies us to the provider, which rejects anonymous clients.
	DefaultUserAgent = "agentcommerce/1.0"

	maxBodyBytes = 1 << 20
)

// Geocoder is a GeocodeResolver backed by Nominatim. One HTTP call per
// Resolve, no caching, no retries.
type Geocoder struct {
	client       *http.Client
	baseURL      string
	userAgent    string
	countryCodes string
	logger       *zap.Logger
}

// Config holds the geocoder settings.
type Config struct {
	BaseURL   string
	UserAgent string
	// Timeout bounds a single provider call. Zero leaves the HTTP client default.
	Timeout time.Duration
	// CountryCodes restricts candidates, e.g. "us,ca". Empty means worldwide.
	CountryCodes []string
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// NewGeocoder creates a Nominatim geocoder.
func NewGeocoder(cfg *Config) *Geocoder {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Geocoder{
		client:       client,
		baseURL:      baseURL,
		userAgent:    ua,
		countryCodes: strings.ToLower(strings.Join(cfg.CountryCodes, ",")),
		logger:       logger,
	}
}

// Resolve joins the non-empty parts of city and region into one free-text
// query and returns the coordinate of the first candidate. Every failure wraps
// domain.ErrGeocodeNotFound.
func (g *Geocoder) Resolve(ctx context.Context, city, region string) (geo.Coordinate, error) {
	place := domain.JoinPlace(city, region)
	if place == "" {
		return geo.Coordinate{}, fmt.Errorf("empty place: %w", domain.ErrGeocodeNotFound)
	}

	start := time.Now()
	c, err := g.lookup(ctx, place)
	metrics.GeocodeRequestDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.GeocodeRequestsTotal.WithLabelValues(provider, "ok").Inc()
		return c, nil
	case errors.Is(err, errNoCandidates):
		metrics.GeocodeRequestsTotal.WithLabelValues(provider, "not_found").Inc()
	default:
		metrics.GeocodeRequestsTotal.WithLabelValues(provider, "error").Inc()
		g.logger.Warn("geocode request failed", zap.String("place", place), zap.Error(err))
	}
	return geo.Coordinate{}, fmt.Errorf("geocode %q: %w: %w", place, domain.ErrGeocodeNotFound, err)
}

var errNoCandidates = errors.New("no candidates")

func (g *Geocoder) lookup(ctx context.Context, place string) (geo.Coordinate, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")
	if g.countryCodes != "" {
		q.Set("countrycodes", g.countryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), http.NoBody)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return geo.Coordinate{}, fmt.Errorf("provider status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("read body: %w", err)
	}
	return parseFirst(body)
}

// parseFirst extracts lat/lon of the first candidate. Nominatim encodes both
// as strings; plain numbers are accepted too.
func parseFirst(body []byte) (geo.Coordinate, error) {
	if !gjson.ValidBytes(body) {
		return geo.Coordinate{}, errors.New("malformed response body")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return geo.Coordinate{}, errors.New("response is not a candidate list")
	}
	first := root.Get("0")
	if !first.Exists() {
		return geo.Coordinate{}, errNoCandidates
	}

	lat, err := parseNumber(first.Get("lat"))
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("lat: %w", err)
	}
	lon, err := parseNumber(first.Get("lon"))
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("lon: %w", err)
	}
	c, err := geo.NewCoordinate(lat, lon)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("candidate: %w", err)
	}
	return c, nil
}

func parseNumber(v gjson.Result) (float64, error) {
	switch v.Type {
	case gjson.Number:
		return v.Num, nil
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", v.Str, err)
		}
		return f, nil
	default:
		return 0, errors.New("missing")
	}
}
