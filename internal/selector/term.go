package selector

import "strings"

// Kind classifies a selector expression.
type Kind int

const (
	KindName             Kind = iota // exact attribute, possibly dotted
	KindAll                          // *
	KindRegistered                   // **
	KindPrefix                       // prefix*
	KindRegisteredPrefix             // prefix**
	KindReadable                     // :readable
	KindWritable                     // :writable
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindAll:
		return "all"
	case KindRegistered:
		return "registered"
	case KindPrefix:
		return "prefix"
	case KindRegisteredPrefix:
		return "registered-prefix"
	case KindReadable:
		return "readable"
	case KindWritable:
		return "writable"
	default:
		return "unknown"
	}
}

// Term is a classified selector entry.
//
// For wildcard kinds Scope holds the dotted path the wildcard applies to
// ("customer" in "customer.*", empty at the top level) and Prefix the
// literal part of the wildcard segment ("na" in "customer.na*").
type Term struct {
	Expr    string
	Include bool
	Kind    Kind
	Scope   string
	Prefix  string
}

// IsWildcard reports whether the term expands to a set of descriptors.
func (t Term) IsWildcard() bool {
	return t.Kind != KindName
}

// Tail returns the expression relative to Scope: "*" for "customer.*".
func (t Term) Tail() string {
	if t.Scope == "" {
		return t.Expr
	}
	return strings.TrimPrefix(t.Expr, t.Scope+".")
}

// Classify determines the kind of a single expression (without "~").
func Classify(expr string) Term {
	term := Term{Expr: expr, Include: true}

	switch expr {
	case Readable:
		term.Kind = KindReadable
		return term
	case Writable:
		term.Kind = KindWritable
		return term
	}

	var head string
	switch {
	case strings.HasSuffix(expr, DoubleWildcard):
		head = strings.TrimSuffix(expr, DoubleWildcard)
		term.Kind = KindRegisteredPrefix
	case strings.HasSuffix(expr, Wildcard):
		head = strings.TrimSuffix(expr, Wildcard)
		term.Kind = KindPrefix
	default:
		term.Kind = KindName
		return term
	}

	if i := strings.LastIndex(head, "."); i >= 0 {
		term.Scope = head[:i]
		head = head[i+1:]
	}
	term.Prefix = head

	if term.Prefix == "" {
		if term.Kind == KindPrefix {
			term.Kind = KindAll
		} else {
			term.Kind = KindRegistered
		}
	}
	return term
}
