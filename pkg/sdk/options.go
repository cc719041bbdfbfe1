package agentcommerce

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	corpusPath string
	entities   []Restaurant

	addrs     []string
	password  string
	corpusKey string

	geocoder    Geocoder
	geocoderURL string
	synonyms    []SynonymClass
	radiusKm    float64

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCorpusFile loads the corpus from a JSON file.
func WithCorpusFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusPath = path
	})
}

// WithRedisCorpus loads the corpus published under key in a Redis instance.
// An empty key means DefaultCorpusKey.
func WithRedisCorpus(addr, password, key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
		c.corpusKey = key
	})
}

// WithEntities uses an in-memory corpus. Order is preserved and drives result order.
func WithEntities(rs []Restaurant) Option {
	return optionFunc(func(c *clientConfig) {
		c.entities = rs
	})
}

// WithGeocoder sets the place-name resolver used when no coordinates are given.
func WithGeocoder(g Geocoder) Option {
	return optionFunc(func(c *clientConfig) {
		c.geocoder = g
	})
}

// WithGeocoderURL points the built-in Nominatim geocoder at another instance.
// Ignored when WithGeocoder is set.
func WithGeocoderURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.geocoderURL = url
	})
}

// WithSynonyms replaces the built-in taxonomy. Class order decides which
// alias wins when a term matches several classes.
func WithSynonyms(classes ...SynonymClass) Option {
	return optionFunc(func(c *clientConfig) {
		c.synonyms = classes
	})
}

// WithRadiusKm overrides the 30 km search radius.
func WithRadiusKm(km float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.radiusKm = km
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
