// Package ui renders the embeddable HTML fragments returned by tools and dev routes.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	domcat "github.com/kailas-cloud/agentcommerce/internal/domain/catalog"
	"github.com/kailas-cloud/agentcommerce/internal/domain/entity"
	domorder "github.com/kailas-cloud/agentcommerce/internal/domain/order"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// DefaultBrandColor paints entities without a usable brand color.
const DefaultBrandColor = "#a3bffa"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

var funcs = template.FuncMap{
	"money": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"comma": func(n int) string { return humanize.Comma(int64(n)) },
	"join":  strings.Join,
	"upper": strings.ToUpper,
}

// Renderer executes the embedded templates. Safe for concurrent use.
type Renderer struct {
	t *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.New("ui").Funcs(funcs).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

// MustNew is New that panics on a template error.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

type entityView struct {
	ID          string
	Name        string
	Rating      string
	Price       string
	Categories  string
	Address     string
	Phone       string
	Website     string
	Hours       []string
	ReviewCount int
	Color       string
}

func newEntityView(e *entity.Entity) entityView {
	v := entityView{
		ID:          e.ID,
		Name:        e.Name,
		Rating:      "N/A",
		Price:       string(e.Price),
		Categories:  strings.Join(e.CategoryTitles(), ", "),
		Address:     e.Address(),
		Phone:       e.Phone,
		Website:     e.Website,
		Hours:       e.Hours,
		ReviewCount: e.ReviewCount,
		Color:       DefaultBrandColor,
	}
	if e.Rating != nil {
		v.Rating = strconv.FormatFloat(*e.Rating, 'f', -1, 64)
	}
	if hexColor.MatchString(e.BrandColor) {
		v.Color = e.BrandColor
	}
	return v
}

// SearchResults renders a ranked result list under heading.
func (r *Renderer) SearchResults(heading string, entities []entity.Entity) (string, error) {
	if heading == "" {
		heading = "Search Results"
	}
	views := make([]entityView, len(entities))
	for i := range entities {
		views[i] = newEntityView(&entities[i])
	}
	return r.render("search", &struct {
		Title    string
		Heading  string
		Entities []entityView
	}{"Search Results", heading, views})
}

// Details renders one entity with its seller platform.
func (r *Renderer) Details(e *entity.Entity, seller domcat.SellerPlatform) (string, error) {
	return r.render("details", &struct {
		Title  string
		Entity entityView
		Seller domcat.SellerPlatform
	}{"Restaurant Details", newEntityView(e), seller})
}

// Menu renders a seller menu with one-tap order buttons.
func (r *Renderer) Menu(businessID, sellerName string, items []domcat.Item) (string, error) {
	return r.render("menu", &struct {
		Title      string
		BusinessID string
		SellerName string
		Items      []domcat.Item
	}{"Menu", businessID, sellerName, items})
}

type lineView struct {
	Name   string  `json:"name"`
	Qty    int     `json:"qty"`
	Price  float64 `json:"price"`
	Amount float64 `json:"-"`
}

func newLineViews(lines []domorder.Line) []lineView {
	out := make([]lineView, len(lines))
	for i, l := range lines {
		out[i] = lineView{Name: l.Name, Qty: l.Qty, Price: l.Price, Amount: l.Amount()}
	}
	return out
}

// Order renders the editable takeout order for o. Confirming it calls view_receipt.
func (r *Renderer) Order(o *domorder.Order) (string, error) {
	return r.render("order", &struct {
		Title        string
		BusinessID   string
		BusinessName string
		Lines        []lineView
		Total        float64
	}{"Takeout Order", o.BusinessID, o.BusinessName, newLineViews(o.Lines), o.Subtotal})
}

// Receipt renders a priced order as a receipt.
func (r *Renderer) Receipt(o *domorder.Order) (string, error) {
	return r.render("receipt", &struct {
		Title        string
		BusinessName string
		PlacedAt     string
		Number       string
		Lines        []lineView
		Subtotal     float64
		Tax          float64
		Total        float64
	}{
		"Receipt", o.BusinessName, o.PlacedAt.Format("Jan 2, 2006 3:04 PM"), o.Number,
		newLineViews(o.Lines), o.Subtotal, o.Tax, o.Total,
	})
}

// Link is a dev index entry.
type Link struct {
	Href  string
	Label string
}

// DevIndex renders the list of preview routes.
func (r *Renderer) DevIndex(links []Link) (string, error) {
	return r.render("dev", &struct {
		Title string
		Links []Link
	}{"UI previews", links})
}

// Error renders a user-facing error card.
func (r *Renderer) Error(message, code string) (string, error) {
	return r.render("error", &struct {
		Title   string
		Message string
		Code    string
	}{"Error", message, code})
}
