package selector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		expr   string
		kind   Kind
		scope  string
		prefix string
		tail   string
	}{
		{"id", KindName, "", "", "id"},
		{"product.title", KindName, "", "", "product.title"},
		{"*", KindAll, "", "", "*"},
		{"**", KindRegistered, "", "", "**"},
		{"product*", KindPrefix, "", "product", "product*"},
		{"product**", KindRegisteredPrefix, "", "product", "product**"},
		{"product.*", KindAll, "product", "", "*"},
		{"product.**", KindRegistered, "product", "", "**"},
		{"order.customer.na*", KindPrefix, "order.customer", "na", "na*"},
		{"lines[].*", KindAll, "lines[]", "", "*"},
		{":readable", KindReadable, "", "", ":readable"},
		{":writable", KindWritable, "", "", ":writable"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			term := Classify(tt.expr)
			require.Equal(t, tt.kind, term.Kind)
			require.Equal(t, tt.scope, term.Scope)
			require.Equal(t, tt.prefix, term.Prefix)
			require.Equal(t, tt.tail, term.Tail())
			require.Equal(t, tt.kind != KindName, term.IsWildcard())
			require.True(t, term.Include)
		})
	}
}

func TestTerms_CarryFlags(t *testing.T) {
	terms := Of("*", "~id", "~product.*").Terms()

	require.Len(t, terms, 3)
	require.True(t, terms[0].Include)
	require.Equal(t, KindAll, terms[0].Kind)
	require.False(t, terms[1].Include)
	require.Equal(t, KindName, terms[1].Kind)
	require.False(t, terms[2].Include)
	require.Equal(t, "product", terms[2].Scope)
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "registered-prefix", KindRegisteredPrefix.String())
	require.Equal(t, "unknown", Kind(42).String())
}
