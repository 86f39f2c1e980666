package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field names a filterable product column.
type Field string

const (
	FieldName     Field = "name"
	FieldSKU      Field = "sku"
	FieldFamily   Field = "family"
	FieldCategory Field = "category"
)

// Predicate is one condition of a listing filter. The concrete variants are
// Equals, SubstringCI and OneOf; repositories translate them to their native
// query form and Matches evaluates them in memory.
type Predicate interface {
	Matches(p Product) bool
	isPredicate()
}

// Equals matches when the field equals Value exactly.
type Equals struct {
	Field Field
	Value string
}

// SubstringCI matches when the field contains Value, ignoring case and accents.
type SubstringCI struct {
	Field Field
	Value string
}

// OneOf matches when the field equals any of Values.
type OneOf struct {
	Field  Field
	Values []string
}

func (Equals) isPredicate()      {}
func (SubstringCI) isPredicate() {}
func (OneOf) isPredicate()       {}

func (e Equals) Matches(p Product) bool {
	v, ok := p.FieldValue(e.Field)
	return ok && v == e.Value
}

func (s SubstringCI) Matches(p Product) bool {
	v, ok := p.FieldValue(s.Field)
	return ok && strings.Contains(Fold(v), Fold(s.Value))
}

func (o OneOf) Matches(p Product) bool {
	v, ok := p.FieldValue(o.Field)
	if !ok {
		return false
	}
	for _, candidate := range o.Values {
		if v == candidate {
			return true
		}
	}
	return false
}

// Filter is a conjunction of predicates. An empty filter matches everything.
type Filter []Predicate

func (f Filter) Matches(p Product) bool {
	for _, pred := range f {
		if !pred.Matches(p) {
			return false
		}
	}
	return true
}

// FieldValue returns the value of a filterable column and false when it is NULL.
func (p Product) FieldValue(f Field) (string, bool) {
	switch f {
	case FieldName:
		return p.Name, true
	case FieldSKU:
		return p.SKU, true
	case FieldFamily:
		return deref(p.Family)
	case FieldCategory:
		return deref(p.Category)
	}
	return "", false
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

// Fold lower-cases s and strips combining marks so "Café" and "CAFE" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// SplitList splits a comma-separated query value, trimming items and dropping empty ones.
func SplitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
