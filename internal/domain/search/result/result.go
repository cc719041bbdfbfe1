package result

import "github.com/kailas-cloud/agentcommerce/internal/domain/entity"

// DefaultSuggestions coach the user toward a better query when nothing matched.
var DefaultSuggestions = []string{
	"Try specifying a cuisine like 'bbq', 'tacos', 'sushi', or 'pizza'",
	"Include a neighborhood or district (e.g., 'downtown', 'city center', or a postal code)",
	"Add a price hint like '$$' or a rating target like '4.5+' in the query",
}

// Result is the outcome of a search. Entities are deduplicated and ordered.
type Result struct {
	entities    []entity.Entity
	source      string
	suggestions []string
	category    string
}

// New creates a search result. Suggestions default to DefaultSuggestions.
func New(entities []entity.Entity, source string, suggestions []string) Result {
	if suggestions == nil {
		suggestions = DefaultSuggestions
	}
	return Result{
		entities:    entities,
		source:      source,
		suggestions: append([]string(nil), suggestions...),
	}
}

// WithCategory records the canonical category that drove filtering.
func (r Result) WithCategory(alias string) Result {
	r.category = alias
	return r
}

// Entities returns the matched entities in ranked order.
func (r *Result) Entities() []entity.Entity { return r.entities }

// Source returns the data provenance tag, e.g. "local-db".
func (r *Result) Source() string { return r.source }

// Suggestions returns hints for callers to show when the result is empty.
func (r *Result) Suggestions() []string { return r.suggestions }

// Category returns the canonical category alias, empty for free-text searches.
func (r *Result) Category() string { return r.category }

// Total returns the number of entities.
func (r *Result) Total() int { return len(r.entities) }

// IsEmpty reports whether nothing matched.
func (r *Result) IsEmpty() bool { return len(r.entities) == 0 }
