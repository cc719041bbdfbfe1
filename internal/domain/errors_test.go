package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocationRequired(t *testing.T) {
	err := NewLocationRequired(Input{Limit: 10})

	require.ErrorIs(t, err, ErrLocationRequired)
	var se *SearchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, CodeLocationRequired, se.Code)
	assert.Equal(t, 10, se.Input.Limit)
}

func TestNewGeocodeNotFound_IncludesPlace(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := NewGeocodeNotFound(Input{City: "Nowhereville"}, cause)

	require.ErrorIs(t, err, ErrGeocodeNotFound)
	require.ErrorIs(t, err, cause)
	var se *SearchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, CodeGeocodeNotFound, se.Code)
	assert.Contains(t, se.Message, "Nowhereville")
	assert.Equal(t, "Nowhereville", se.Input.City)
}

func TestNewGeocodeNotFound_AlreadyWrapped(t *testing.T) {
	cause := fmt.Errorf("no candidates: %w", ErrGeocodeNotFound)
	err := NewGeocodeNotFound(Input{City: "Austin", State: "TX"}, cause)

	assert.True(t, errors.Is(err, ErrGeocodeNotFound))
	assert.Equal(t, 1, strings.Count(err.Error(), ErrGeocodeNotFound.Error()))
}

func TestClassifyError(t *testing.T) {
	in := Input{City: "Austin"}
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"search error passthrough", NewLocationRequired(in), CodeLocationRequired},
		{"wrapped location sentinel", fmt.Errorf("x: %w", ErrLocationRequired), CodeLocationRequired},
		{"wrapped geocode sentinel", fmt.Errorf("x: %w", ErrGeocodeNotFound), CodeGeocodeNotFound},
		{"anything else", errors.New("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := ClassifyError(tt.err, in)
			require.NotNil(t, se)
			assert.Equal(t, tt.want, se.Code)
			assert.Equal(t, "Austin", se.Input.City)
		})
	}
}

func TestClassifyError_UnknownKeepsOnlyErrorString(t *testing.T) {
	se := ClassifyError(errors.New("redis: connection reset"), Input{})

	assert.Equal(t, CodeUnknown, se.Code)
	assert.Equal(t, "redis: connection reset", se.Detail)
	assert.NotContains(t, se.Message, "redis")
}

func TestJoinPlace(t *testing.T) {
	assert.Equal(t, "Austin, TX", JoinPlace("Austin", "TX"))
	assert.Equal(t, "TX", JoinPlace("", " TX "))
	assert.Equal(t, "", JoinPlace("", ""))
}
