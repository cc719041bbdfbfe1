package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	domorder "github.com/kailas-cloud/agentcommerce/internal/domain/order"
)

type mockCorpus map[string]entity.Entity

func (m mockCorpus) Get(id string) (entity.Entity, bool) {
	e, ok := m[id]
	return e, ok
}

var fixedNow = time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)

func newTestService() *Service {
	return New(
		mockCorpus{"atx-franklin": {ID: "atx-franklin", Name: "Franklin Barbecue"}},
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "4f2a9c1e-0000-4000-8000-000000000000" }),
	)
}

func TestPlace(t *testing.T) {
	svc := newTestService()

	o, err := svc.Place(context.Background(), "atx-franklin", []domorder.Line{
		{Name: "Brisket Plate", Qty: 2, Price: 19.5},
		{Name: "Pulled Pork Sandwich", Qty: 1, Price: 12},
	})
	require.NoError(t, err)

	assert.Equal(t, "Franklin Barbecue", o.BusinessName)
	assert.Equal(t, "R-250314-4F2A", o.Number)
	assert.Equal(t, fixedNow, o.PlacedAt)
	assert.InDelta(t, 51.0, o.Subtotal, 1e-9)
	assert.InDelta(t, 4.21, o.Tax, 1e-9)
	assert.InDelta(t, 55.21, o.Total, 1e-9)
	assert.Len(t, o.Lines, 2)
}

func TestPlace_DefaultsQtyAndName(t *testing.T) {
	svc := newTestService()

	o, err := svc.Place(context.Background(), "somewhere-else", []domorder.Line{{Name: "Latte", Price: 4}})
	require.NoError(t, err)

	assert.Equal(t, DefaultBusinessName, o.BusinessName)
	assert.Equal(t, 1, o.Lines[0].Qty)
	assert.InDelta(t, 4.33, o.Total, 1e-9)
}

func TestPlace_Empty(t *testing.T) {
	o, err := newTestService().Place(context.Background(), "atx-franklin", nil)
	require.NoError(t, err)
	assert.Zero(t, o.Total)
	assert.Empty(t, o.Lines)
}

func TestPlace_InvalidLine(t *testing.T) {
	_, err := newTestService().Place(context.Background(), "atx-franklin", []domorder.Line{{Name: " ", Qty: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidOrder))
}

func TestNew_DefaultIDsAreUUIDs(t *testing.T) {
	svc := New(mockCorpus{})
	o, err := svc.Place(context.Background(), "x", []domorder.Line{{Name: "Espresso", Price: 3}})
	require.NoError(t, err)

	_, err = uuid.Parse(o.ID)
	assert.NoError(t, err)
	assert.Regexp(t, `^R-\d{6}-[0-9A-F]{4}$`, o.Number)
}
