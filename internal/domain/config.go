package domain

// KeyPrefix namespaces all keys this service reads from the key-value store.
const KeyPrefix = "agentcommerce:"

// SearchConfig holds search policy settings, not exposed to clients.
type SearchConfig struct {
	RadiusKm     float64
	DefaultLimit int
	MaxLimit     int
	Source       string
}

// DefaultSearchConfig returns the policy used for city/state scoped search.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		RadiusKm:     30,
		DefaultLimit: 10,
		MaxLimit:     25,
		Source:       "local-db",
	}
}
