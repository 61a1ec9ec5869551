package selector

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/attrsel/internal/descriptor"
)

func TestOf(t *testing.T) {
	s := Of("id", "~displayName", "product.*")

	require.Equal(t, []Property{
		{Name: "id", Include: true},
		{Name: "displayName", Include: false},
		{Name: "product.*", Include: true},
	}, s.PropertiesToSelect())
	require.Equal(t, 3, s.Len())
	require.False(t, s.KeepsConfigured())
}

func TestOf_RepeatFlipsInPlace(t *testing.T) {
	s := Of("id", "name", "~id")

	require.Equal(t, []string{"~id", "name"}, s.Tokens())
}

func TestOf_IgnoresBlankAndLoneTilde(t *testing.T) {
	s := Of("", " ", "~", "id")
	require.Equal(t, []string{"id"}, s.Tokens())
}

func TestOf_Empty(t *testing.T) {
	s := Of()
	require.True(t, s.IsEmpty())
	require.Empty(t, s.Terms())
	require.Equal(t, "", s.String())
}

func TestAll(t *testing.T) {
	require.True(t, All().Equal(Of("*")))
}

func TestCombine_OverwriteInPlace(t *testing.T) {
	s := Of("id", "name").Combine(Of("~id", "product.title", "~date", "."))

	include, ok := s.Include("id")
	require.True(t, ok)
	require.False(t, include)

	require.Equal(t, []Property{
		{Name: "id", Include: false},
		{Name: "name", Include: true},
		{Name: "product.title", Include: true},
		{Name: "date", Include: false},
	}, s.PropertiesToSelect())
}

func TestCombine_DoesNotModifyOperands(t *testing.T) {
	left := Of("id", "name")
	right := Of("~id", "extra")

	_ = left.Combine(right)

	require.Equal(t, []string{"id", "name"}, left.Tokens())
	require.Equal(t, []string{"~id", "extra"}, right.Tokens())
}

func TestCombine_AnchorOnEmpty(t *testing.T) {
	s := Of().Combine(Of(".", "id"))
	require.Equal(t, []string{"id"}, s.Tokens())
}

func TestCombine_Predicates(t *testing.T) {
	visible := descriptor.NewBuilder("visible").MustBuild()
	hidden := descriptor.NewBuilder("hidden").Hidden(true).MustBuild()
	readonly := descriptor.NewBuilder("readonly").Writable(false).MustBuild()

	left := NewBuilder().Properties("*").Predicate(descriptor.NotHidden).Build()
	right := NewBuilder().Properties(".").Predicate(descriptor.IsWritable).Build()

	combined := left.Combine(right)
	p := combined.Predicate()
	require.NotNil(t, p)
	require.True(t, p(visible))
	require.False(t, p(hidden))
	require.False(t, p(readonly))

	require.NotNil(t, Of("id").Combine(left).Predicate())
	require.Nil(t, Of("id").Combine(Of("name")).Predicate())
}

func TestOverride(t *testing.T) {
	base := Of("id", "name")

	replaced := base.Override(Of("title"))
	require.Equal(t, []string{"title"}, replaced.Tokens())

	merged := base.Override(Of(".", "~id", "title"))
	require.Equal(t, []string{"~id", "name", "title"}, merged.Tokens())
}

func TestEqual_IgnoresOrder(t *testing.T) {
	require.True(t, Of("id", "~name").Equal(Of("~name", "id")))
	require.False(t, Of("id", "name").Equal(Of("id", "~name")))
	require.False(t, Of("id").Equal(Of("id", "name")))
	require.False(t, Of("id", "name").Equal(Of("id", "title")))
}

func TestString(t *testing.T) {
	require.Equal(t, "id, ~name, product.*", Of("id", "~name", "product.*").String())
	require.Equal(t, "., id", Of(".", "id").String())
}

func TestWithPredicate(t *testing.T) {
	s := Of("**").WithPredicate(descriptor.IsReadable)
	require.NotNil(t, s.Predicate())
	require.Nil(t, Of("**").Predicate())
}

func TestBuilder(t *testing.T) {
	s := NewBuilder().
		Properties("product.title", "**").
		Properties("~id").
		Predicate(func(d *descriptor.Descriptor) bool { return d.Name() != "displayName" }).
		Build()

	require.Equal(t, []string{"product.title", "**", "~id"}, s.Tokens())
	require.NotNil(t, s.Predicate())
}

// nameGen draws attribute names that the parser accepts.
var nameGen = rapid.StringMatching(`[a-z][a-zA-Z0-9_]{0,5}`)

// exprGen draws token expressions of every supported shape, without "~".
var exprGen = rapid.Custom(func(t *rapid.T) string {
	name := nameGen.Draw(t, "name")
	switch rapid.IntRange(0, 7).Draw(t, "shape") {
	case 0:
		return "*"
	case 1:
		return "**"
	case 2:
		return name + "*"
	case 3:
		return name + "." + nameGen.Draw(t, "child")
	case 4:
		return name + ".*"
	case 5:
		return ":readable"
	case 6:
		return name + "[]"
	default:
		return name
	}
})

var tokenGen = rapid.Custom(func(t *rapid.T) string {
	expr := exprGen.Draw(t, "expr")
	if rapid.Bool().Draw(t, "exclude") {
		return "~" + expr
	}
	return expr
})

func TestSelector_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := Of(rapid.SliceOf(tokenGen).Draw(t, "tokens")...)

		rebuilt := Of(s.Tokens()...)
		require.True(t, rebuilt.Equal(s))
		require.Equal(t, s.Tokens(), rebuilt.Tokens())

		parsed, err := Parse(s.String())
		require.NoError(t, err)
		require.True(t, parsed.Equal(s))
		require.Equal(t, s.Tokens(), parsed.Tokens())
	})
}

func TestSelector_CombineLaws(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		left := Of(rapid.SliceOf(tokenGen).Draw(t, "left")...)
		right := Of(rapid.SliceOf(tokenGen).Draw(t, "right")...)
		leftBefore := left.Tokens()

		combined := left.Combine(right)

		// operands are untouched
		require.Equal(t, leftBefore, left.Tokens())

		// other's flags win
		for _, p := range right.PropertiesToSelect() {
			include, ok := combined.Include(p.Name)
			require.True(t, ok)
			require.Equal(t, p.Include, include)
		}

		// untouched entries keep their flag
		for _, p := range left.PropertiesToSelect() {
			if _, inRight := right.Include(p.Name); inRight {
				continue
			}
			include, _ := combined.Include(p.Name)
			require.Equal(t, p.Include, include)
		}

		// positions: left's names first in left's order, then right's new names in right's order
		var wantOrder []string
		for _, p := range left.PropertiesToSelect() {
			wantOrder = append(wantOrder, p.Name)
		}
		for _, p := range right.PropertiesToSelect() {
			if !slices.Contains(wantOrder, p.Name) {
				wantOrder = append(wantOrder, p.Name)
			}
		}
		var gotOrder []string
		for _, p := range combined.PropertiesToSelect() {
			gotOrder = append(gotOrder, p.Name)
		}
		require.Equal(t, wantOrder, gotOrder)

		// combining the same selector again changes nothing
		require.Equal(t, combined.Tokens(), combined.Combine(right).Tokens())
	})
}

func TestSelector_EqualIsOrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfDistinct(nameGen, func(s string) string { return s }).Draw(t, "names")
		shuffled := slices.Clone(names)
		perm := rapid.Permutation(shuffled).Draw(t, "perm")

		require.True(t, Of(names...).Equal(Of(perm...)))
	})
}
