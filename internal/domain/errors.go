package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLocationRequired signals a search with no usable location signal.
	ErrLocationRequired = errors.New("location required")
	// ErrGeocodeNotFound signals a place name that could not be resolved to coordinates.
	ErrGeocodeNotFound = errors.New("geocode not found")
	// ErrNotFound signals a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidEntity signals a malformed corpus record.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrInvalidQuery signals search parameters that cannot be used.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidOrder signals unusable order lines.
	ErrInvalidOrder = errors.New("invalid order")
)

// Code is the machine-readable error code exposed at the boundary.
type Code string

const (
	CodeLocationRequired Code = "LOCATION_REQUIRED"
	CodeGeocodeNotFound  Code = "GEOCODE_NOT_FOUND"
	CodeUnknown          Code = "UNKNOWN"
)

// Input echoes the caller's original search inputs in error payloads.
type Input struct {
	Query     string   `json:"query,omitempty"`
	City      string   `json:"city,omitempty"`
	State     string   `json:"state,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

// Place joins the non-empty city and state, e.g. "Austin, TX".
func (in Input) Place() string {
	return JoinPlace(in.City, in.State)
}

// JoinPlace joins the non-empty parts with ", ".
func JoinPlace(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// SearchError is the boundary error payload for a failed search.
// It wraps one of the sentinel errors so errors.Is keeps working.
type SearchError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Input   Input  `json:"input"`
	// Detail holds the raw error string for UNKNOWN failures.
	Detail string `json:"error,omitempty"`

	err error
}

func (e *SearchError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.Code, e.err.Error())
	}
	return string(e.Code) + ": " + e.Message
}

func (e *SearchError) Unwrap() error { return e.err }

// NewLocationRequired creates a LOCATION_REQUIRED error.
func NewLocationRequired(in Input) error {
	return &SearchError{
		Code:    CodeLocationRequired,
		Message: "Location is required. Provide a city (and optional state).",
		Input:   in,
		err:     ErrLocationRequired,
	}
}

// NewGeocodeNotFound creates a GEOCODE_NOT_FOUND error for the attempted place.
func NewGeocodeNotFound(in Input, cause error) error {
	err := ErrGeocodeNotFound
	if cause != nil && !errors.Is(cause, ErrGeocodeNotFound) {
		err = fmt.Errorf("%w: %w", ErrGeocodeNotFound, cause)
	} else if cause != nil {
		err = cause
	}
	return &SearchError{
		Code: CodeGeocodeNotFound,
		Message: fmt.Sprintf(
			"Could not find a location for %q. Try a different city or include a state (e.g., \"Austin, TX\").",
			in.Place(),
		),
		Input: in,
		err:   err,
	}
}

// ClassifyError maps any error to a SearchError.
// Unknown errors get a generic message and keep only the error string.
func ClassifyError(err error, in Input) *SearchError {
	var se *SearchError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, ErrLocationRequired):
		se, _ = NewLocationRequired(in).(*SearchError)
	case errors.Is(err, ErrGeocodeNotFound):
		se, _ = NewGeocodeNotFound(in, err).(*SearchError)
	default:
		se = &SearchError{
			Code:    CodeUnknown,
			Message: "We hit a temporary issue fetching nearby places. Please try again shortly.",
			Input:   in,
			err:     err,
		}
		if err != nil {
			se.Detail = err.Error()
		}
	}
	return se
}
