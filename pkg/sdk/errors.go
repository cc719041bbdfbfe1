package agentcommerce

import "github.com/kailas-cloud/agentcommerce/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrLocationRequired = domain.ErrLocationRequired
	ErrGeocodeNotFound  = domain.ErrGeocodeNotFound
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidEntity    = domain.ErrInvalidEntity
	ErrInvalidQuery     = domain.ErrInvalidQuery
)

// SearchError is returned by Search. It carries the boundary code and echoes the inputs.
type SearchError = domain.SearchError

// Error codes carried by SearchError.
const (
	CodeLocationRequired = domain.CodeLocationRequired
	CodeGeocodeNotFound  = domain.CodeGeocodeNotFound
	CodeUnknown          = domain.CodeUnknown
)
