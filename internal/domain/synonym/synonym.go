// Package synonym holds the term expansion table used by search.
package synonym

import (
	"fmt"
	"strings"
)

// Class maps a canonical alias to its ordered synonym list.
type Class struct {
	Alias    string
	Synonyms []string
}

// Table is an ordered, immutable list of synonym classes.
// Declaration order decides which class wins in CanonicalCategory.
type Table struct {
	classes []Class
}

// NewTable validates and normalizes classes. Aliases must be unique and non-empty.
func NewTable(classes []Class) (*Table, error) {
	seen := make(map[string]struct{}, len(classes))
	out := make([]Class, 0, len(classes))
	for i, c := range classes {
		alias := Normalize(c.Alias)
		if alias == "" {
			return nil, fmt.Errorf("synonym class %d: alias is required", i)
		}
		if _, dup := seen[alias]; dup {
			return nil, fmt.Errorf("synonym class %q declared twice", alias)
		}
		seen[alias] = struct{}{}

		syns := make([]string, 0, len(c.Synonyms))
		for _, s := range c.Synonyms {
			if s = Normalize(s); s != "" {
				syns = append(syns, s)
			}
		}
		out = append(out, Class{Alias: alias, Synonyms: syns})
	}
	return &Table{classes: out}, nil
}

// MustTable is NewTable that panics on invalid input.
func MustTable(classes []Class) *Table {
	t, err := NewTable(classes)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultClasses returns the built-in restaurant taxonomy.
func DefaultClasses() []Class {
	return []Class{
		{Alias: "bbq", Synonyms: []string{"bbq", "barbecue", "bar-b-q", "bar-b-que", "bar b q", "smokehouse", "smoked"}},
		{Alias: "mexican", Synonyms: []string{"mexican", "tex-mex", "tacos"}},
		{Alias: "tacos", Synonyms: []string{"tacos", "taco", "mexican"}},
		{Alias: "sushi", Synonyms: []string{"sushi", "japanese"}},
		{Alias: "pizza", Synonyms: []string{"pizza", "pizzeria"}},
		{Alias: "breakfast", Synonyms: []string{"breakfast", "brunch"}},
	}
}

// Default returns a table built from DefaultClasses.
func Default() *Table {
	return MustTable(DefaultClasses())
}

// Normalize trims and lowercases a raw term.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Classes returns a copy of the table's classes in declaration order.
func (t *Table) Classes() []Class {
	out := make([]Class, len(t.classes))
	for i, c := range t.classes {
		out[i] = Class{Alias: c.Alias, Synonyms: append([]string(nil), c.Synonyms...)}
	}
	return out
}

// Expand returns the normalized term plus every member of each class that has
// a member contained in the term. The empty term expands to {""}, which
// matches everything.
func (t *Table) Expand(raw string) Terms {
	needle := Normalize(raw)
	terms := Terms{needle}
	if needle == "" {
		return terms
	}
	for _, c := range t.classes {
		if !containsAny(needle, c.Synonyms) {
			continue
		}
		for _, s := range c.Synonyms {
			terms = terms.add(s)
		}
	}
	return terms
}

// CanonicalCategory returns the alias of the first class whose alias or
// synonyms are contained in the term.
func (t *Table) CanonicalCategory(raw string) (string, bool) {
	needle := Normalize(raw)
	if needle == "" {
		return "", false
	}
	for _, c := range t.classes {
		if strings.Contains(needle, c.Alias) || containsAny(needle, c.Synonyms) {
			return c.Alias, true
		}
	}
	return "", false
}

func containsAny(needle string, list []string) bool {
	for _, s := range list {
		if strings.Contains(needle, s) {
			return true
		}
	}
	return false
}

// Terms is an insertion-ordered set of expanded search terms.
type Terms []string

func (ts Terms) add(s string) Terms {
	if ts.Contains(s) {
		return ts
	}
	return append(ts, s)
}

// Contains reports whether s is a member.
func (ts Terms) Contains(s string) bool {
	for _, t := range ts {
		if t == s {
			return true
		}
	}
	return false
}

// MatchAny reports whether any member is a substring of text.
// The empty member matches everything.
func (ts Terms) MatchAny(text string) bool {
	for _, t := range ts {
		if t == "" || strings.Contains(text, t) {
			return true
		}
	}
	return false
}
