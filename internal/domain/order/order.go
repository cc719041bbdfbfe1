// Package order prices takeout orders and receipts.
package order

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kailas-cloud/agentcommerce/internal/domain"
)

// TaxRate is the flat sales tax applied on receipts.
const TaxRate = 0.0825

// MaxLines bounds the number of lines per order.
const MaxLines = 100

// Line is one ordered item.
type Line struct {
	Name  string
	Qty   int
	Price float64
}

// Amount returns qty * price.
func (l Line) Amount() float64 { return float64(l.Qty) * l.Price }

// NormalizeLines validates lines: names are required, quantities default to 1,
// prices must be finite and non-negative.
func NormalizeLines(lines []Line) ([]Line, error) {
	if len(lines) > MaxLines {
		return nil, fmt.Errorf("%w: too many lines (max %d)", domain.ErrInvalidOrder, MaxLines)
	}
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		l.Name = strings.TrimSpace(l.Name)
		if l.Name == "" {
			return nil, fmt.Errorf("%w: line %d: name is required", domain.ErrInvalidOrder, i)
		}
		if l.Qty <= 0 {
			l.Qty = 1
		}
		if l.Price < 0 || math.IsNaN(l.Price) || math.IsInf(l.Price, 0) {
			return nil, fmt.Errorf("%w: line %d: invalid price", domain.ErrInvalidOrder, i)
		}
		out = append(out, l)
	}
	return out, nil
}

// Order is a priced mock order. Nothing is persisted.
type Order struct {
	ID           string
	Number       string
	BusinessID   string
	BusinessName string
	Lines        []Line
	Subtotal     float64
	Tax          float64
	Total        float64
	PlacedAt     time.Time
}

// Price computes subtotal, tax and total rounded to cents.
func Price(lines []Line) (subtotal, tax, total float64) {
	for _, l := range lines {
		subtotal += l.Amount()
	}
	subtotal = roundCents(subtotal)
	tax = roundCents(subtotal * TaxRate)
	total = roundCents(subtotal + tax)
	return subtotal, tax, total
}

// ReceiptNumber formats a human-facing receipt number such as R-250314-4F2A.
func ReceiptNumber(at time.Time, id string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return fmt.Sprintf("R-%s-%s", at.Format("060102"), suffix)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
