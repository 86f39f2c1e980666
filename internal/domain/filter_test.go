package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string {
	return &v
}

func TestSubstringCI_IgnoresCaseAndAccents(t *testing.T) {
	p := Product{Name: "Cafe Grande"}

	require.True(t, SubstringCI{Field: FieldName, Value: "café"}.Matches(p))
	require.True(t, SubstringCI{Field: FieldName, Value: "CAFE"}.Matches(p))
	require.True(t, SubstringCI{Field: FieldName, Value: "grand"}.Matches(p))
	require.False(t, SubstringCI{Field: FieldName, Value: "latte"}.Matches(p))

	accented := Product{Name: "CAFÉ crème"}
	require.True(t, SubstringCI{Field: FieldName, Value: "cafe creme"}.Matches(accented))
}

func TestOneOf_IsSetMembershipNotSubstring(t *testing.T) {
	pred := OneOf{Field: FieldCategory, Values: []string{"a", "b"}}

	require.True(t, pred.Matches(Product{Category: strPtr("a")}))
	require.True(t, pred.Matches(Product{Category: strPtr("b")}))
	require.False(t, pred.Matches(Product{Category: strPtr("ab")}))
	require.False(t, pred.Matches(Product{Category: strPtr("A")}))
	require.False(t, pred.Matches(Product{}))
}

func TestEquals_NullNeverMatches(t *testing.T) {
	require.False(t, Equals{Field: FieldFamily, Value: ""}.Matches(Product{}))
	require.True(t, Equals{Field: FieldFamily, Value: "tools"}.Matches(Product{Family: strPtr("tools")}))
	require.True(t, Equals{Field: FieldSKU, Value: "SKU-1"}.Matches(Product{SKU: "SKU-1"}))
}

func TestFilter_IsConjunctive(t *testing.T) {
	f := Filter{
		SubstringCI{Field: FieldName, Value: "mug"},
		OneOf{Field: FieldFamily, Values: []string{"kitchen"}},
	}

	require.True(t, f.Matches(Product{Name: "Demo Mug", Family: strPtr("kitchen")}))
	require.False(t, f.Matches(Product{Name: "Demo Mug", Family: strPtr("office")}))
	require.False(t, f.Matches(Product{Name: "Shirt", Family: strPtr("kitchen")}))
	require.True(t, Filter{}.Matches(Product{}))
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, SplitList("a,b"))
	require.Equal(t, []string{"a", "b"}, SplitList(" a , ,b,"))
	require.Empty(t, SplitList(""))
}

func TestNewPage_LastPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		lastPage int
	}{
		{name: "exact multiple", total: 20, limit: 10, lastPage: 2},
		{name: "remainder", total: 25, limit: 10, lastPage: 3},
		{name: "single", total: 1, limit: 10, lastPage: 1},
		{name: "empty", total: 0, limit: 10, lastPage: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(nil, tt.total, 1, tt.limit)
			require.Equal(t, tt.lastPage, page.LastPage)
			require.NotNil(t, page.Data)
		})
	}
}
