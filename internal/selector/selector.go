package selector

import (
	"maps"
	"slices"
	"strings"

	"github.com/zjrosen/attrsel/internal/descriptor"
)

// Reserved expressions.
const (
	// Anchor keeps previously configured rules when combined with Override.
	Anchor = "."
	// Wildcard selects the default set of a registry.
	Wildcard = "*"
	// DoubleWildcard selects every registered descriptor, ignoring the default filter.
	DoubleWildcard = "**"
	// Readable selects every readable descriptor.
	Readable = ":readable"
	// Writable selects every writable descriptor.
	Writable = ":writable"

	excludePrefix = "~"
)

// Property is one entry of a selector: an expression and whether it adds
// (Include) or removes descriptors.
type Property struct {
	Name    string
	Include bool
}

// Token renders the property the way Of accepts it.
func (p Property) Token() string {
	if p.Include {
		return p.Name
	}
	return excludePrefix + p.Name
}

// Selector is an immutable, ordered set of include/exclude expressions.
// The zero value selects nothing.
type Selector struct {
	entries        []Property
	index          map[string]int
	predicate      descriptor.Predicate
	keepConfigured bool
}

// Of builds a selector from token expressions: "name", "~name", "*", "**",
// "prefix*", "a.b", "a.*", ":readable", "." and so on. A repeated expression
// changes its flag in place.
func Of(tokens ...string) Selector {
	var s Selector
	return s.apply(tokens)
}

// All returns the selector for the default set, Of("*").
func All() Selector {
	return Of(Wildcard)
}

func (s Selector) apply(tokens []string) Selector {
	next := s.clone()
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == "":
			continue
		case tok == Anchor:
			next.keepConfigured = true
		case strings.HasPrefix(tok, excludePrefix):
			if name := tok[len(excludePrefix):]; name != "" {
				next.set(name, false)
			}
		default:
			next.set(tok, true)
		}
	}
	return next
}

func (s Selector) clone() Selector {
	return Selector{
		entries:        slices.Clone(s.entries),
		index:          maps.Clone(s.index),
		predicate:      s.predicate,
		keepConfigured: s.keepConfigured,
	}
}

// set flips an existing entry in place or appends a new one. Only called on
// a fresh clone.
func (s *Selector) set(name string, include bool) {
	if i, ok := s.index[name]; ok {
		s.entries[i].Include = include
		return
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, Property{Name: name, Include: include})
}

// Combine returns a selector with other's entries applied on top of s:
// known expressions keep their position and take other's flag, new ones are
// appended in other's order. Predicates are combined with a logical and.
func (s Selector) Combine(other Selector) Selector {
	next := s.clone()
	for _, p := range other.entries {
		next.set(p.Name, p.Include)
	}
	next.predicate = descriptor.And(s.predicate, other.predicate)
	return next
}

// Override returns other, unless other carries the anchor ("."), in which
// case it is combined into s.
func (s Selector) Override(other Selector) Selector {
	if other.keepConfigured {
		return s.Combine(other)
	}
	return other
}

// WithPredicate returns a copy of s whose results are additionally filtered by p.
func (s Selector) WithPredicate(p descriptor.Predicate) Selector {
	next := s.clone()
	next.predicate = descriptor.And(s.predicate, p)
	return next
}

// Predicate returns the result filter, nil when there is none.
func (s Selector) Predicate() descriptor.Predicate {
	return s.predicate
}

// KeepsConfigured reports whether the anchor was part of the selector.
func (s Selector) KeepsConfigured() bool {
	return s.keepConfigured
}

// PropertiesToSelect returns the ordered expression/flag view.
func (s Selector) PropertiesToSelect() []Property {
	return slices.Clone(s.entries)
}

// Include reports the flag of expression name and whether it is present.
func (s Selector) Include(name string) (include bool, ok bool) {
	i, ok := s.index[name]
	if !ok {
		return false, false
	}
	return s.entries[i].Include, true
}

// Tokens returns the entries as token expressions; Of(s.Tokens()...) equals s.
func (s Selector) Tokens() []string {
	tokens := make([]string, len(s.entries))
	for i, p := range s.entries {
		tokens[i] = p.Token()
	}
	return tokens
}

// Terms returns the classified entries in order.
func (s Selector) Terms() []Term {
	terms := make([]Term, len(s.entries))
	for i, p := range s.entries {
		terms[i] = Classify(p.Name)
		terms[i].Include = p.Include
	}
	return terms
}

// Len returns the number of entries.
func (s Selector) Len() int {
	return len(s.entries)
}

// IsEmpty reports whether the selector has no entries.
func (s Selector) IsEmpty() bool {
	return len(s.entries) == 0
}

// Equal compares the expression/flag contents, ignoring order and predicate.
func (s Selector) Equal(other Selector) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for _, p := range s.entries {
		include, ok := other.Include(p.Name)
		if !ok || include != p.Include {
			return false
		}
	}
	return true
}

// String renders the selector in the syntax Parse accepts.
func (s Selector) String() string {
	tokens := s.Tokens()
	if s.keepConfigured {
		tokens = append([]string{Anchor}, tokens...)
	}
	return strings.Join(tokens, ", ")
}
