package selector

import "github.com/zjrosen/attrsel/internal/descriptor"

// Builder assembles a selector with a result predicate.
type Builder struct {
	tokens    []string
	predicate descriptor.Predicate
}

// NewBuilder creates an empty selector builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Properties appends token expressions.
func (b *Builder) Properties(tokens ...string) *Builder {
	b.tokens = append(b.tokens, tokens...)
	return b
}

// Predicate sets the filter applied to resolved descriptors.
func (b *Builder) Predicate(p descriptor.Predicate) *Builder {
	b.predicate = p
	return b
}

// Build creates the selector.
func (b *Builder) Build() Selector {
	s := Of(b.tokens...)
	s.predicate = b.predicate
	return s
}
