// Package order prices mock takeout orders and receipts. Nothing is persisted.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	domorder "github.com/kailas-cloud/agentcommerce/internal/domain/order"
	"github.com/kailas-cloud/agentcommerce/internal/logger"
)

// DefaultBusinessName labels orders for ids missing from the corpus.
const DefaultBusinessName = "Your Order"

// Corpus looks entities up by id.
type Corpus interface {
	Get(id string) (entity.Entity, bool)
}

// Service prices orders.
type Service struct {
	corpus Corpus
	now    func() time.Time
	newID  func() string
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides order id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// New creates an order service.
func New(corpus Corpus, opts ...Option) *Service {
	s := &Service{
		corpus: corpus,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Place prices lines for a business and stamps id, receipt number and time.
// Unknown businesses are allowed and get DefaultBusinessName.
func (s *Service) Place(ctx context.Context, businessID string, lines []domorder.Line) (domorder.Order, error) {
	norm, err := domorder.NormalizeLines(lines)
	if err != nil {
		return domorder.Order{}, fmt.Errorf("place order: %w", err)
	}

	name := DefaultBusinessName
	if e, ok := s.corpus.Get(businessID); ok {
		name = e.Name
	}

	subtotal, tax, total := domorder.Price(norm)
	at := s.now()
	id := s.newID()

	o := domorder.Order{
		ID:           id,
		Number:       domorder.ReceiptNumber(at, id),
		BusinessID:   businessID,
		BusinessName: name,
		Lines:        norm,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        total,
		PlacedAt:     at,
	}

	logger.FromContext(ctx).Debug("order priced",
		zap.String("order_id", o.ID),
		zap.String("business_id", businessID),
		zap.Int("lines", len(norm)),
		zap.Float64("total", total),
	)
	return o, nil
}
