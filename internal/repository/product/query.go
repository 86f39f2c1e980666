package product

import (
	"fmt"
	"strconv"
	"strings"

	"catalog-service/internal/domain"
)

const productColumns = `id::text, name, description, price, stock_quantity, sku, ean, family, category, image_url, created_at`

var filterColumns = map[domain.Field]string{
	domain.FieldName:     "name",
	domain.FieldSKU:      "sku",
	domain.FieldFamily:   "family",
	domain.FieldCategory: "category",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildWhere translates a filter into a WHERE clause with $n placeholders
// numbered after the args already present.
func buildWhere(f domain.Filter, args []any) (string, []any, error) {
	if len(f) == 0 {
		return "", args, nil
	}
	clauses := make([]string, 0, len(f))
	for _, pred := range f {
		var (
			col   string
			ok    bool
			value any
			expr  string
		)
		switch p := pred.(type) {
		case domain.Equals:
			col, ok = filterColumns[p.Field]
			value = p.Value
			expr = "%s = %s"
		case domain.SubstringCI:
			col, ok = filterColumns[p.Field]
			value = "%" + likeEscaper.Replace(p.Value) + "%"
			expr = "unaccent(%s) ILIKE unaccent(%s)"
		case domain.OneOf:
			col, ok = filterColumns[p.Field]
			values := p.Values
			if values == nil {
				values = []string{}
			}
			value = values
			expr = "%s = ANY(%s)"
		default:
			return "", nil, fmt.Errorf("unsupported predicate %T", pred)
		}
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter field %q", fieldOf(pred))
		}
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(expr, col, placeholder(len(args))))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func fieldOf(pred domain.Predicate) domain.Field {
	switch p := pred.(type) {
	case domain.Equals:
		return p.Field
	case domain.SubstringCI:
		return p.Field
	case domain.OneOf:
		return p.Field
	}
	return ""
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// buildSet renders the SET list of a partial update in a fixed column order.
func buildSet(c domain.ProductChanges, args []any) (string, []any) {
	var sets []string
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = "+placeholder(len(args)))
	}
	if c.Name != nil {
		add("name", *c.Name)
	}
	if c.Description != nil {
		add("description", *c.Description)
	}
	if c.Price != nil {
		add("price", *c.Price)
	}
	if c.StockQuantity != nil {
		add("stock_quantity", *c.StockQuantity)
	}
	if c.SKU != nil {
		add("sku", *c.SKU)
	}
	if c.EAN != nil {
		add("ean", nullIfEmpty(c.EAN))
	}
	if c.Family != nil {
		add("family", nullIfEmpty(c.Family))
	}
	if c.Category != nil {
		add("category", nullIfEmpty(c.Category))
	}
	if c.ImageURL != nil {
		add("image_url", nullIfEmpty(c.ImageURL))
	}
	return strings.Join(sets, ", "), args
}

// nullIfEmpty lets clients clear an optional column by sending "".
func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
