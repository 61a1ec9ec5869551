// Package selector implements the attribute selector algebra.
//
// A Selector is an immutable, ordered set of expressions, each either
// including or excluding descriptors:
//
//	name          the attribute called name
//	~name         remove name from the result
//	*             the default (visible) set
//	**            every registered descriptor
//	pre*, pre**   default or registered names starting with "pre"
//	a.b           b inside the registry of a's value type
//	a.*, a.**     wildcards scoped to a's registry
//	lines[]       the member descriptor of the collection lines
//	:readable     every readable descriptor
//	:writable     every writable descriptor
//	.             anchor: keep configured rules under Override
//
// Of builds selectors from pre-split expressions; Parse accepts free text
// ("id, customer.*, ~customer.id") and reports ErrInvalidSyntax for anything
// outside the grammar. Combine merges two selectors: a repeated expression
// keeps its position and takes the new flag, new expressions are appended.
//
// Resolving a selector against a registry is the job of registry.Executor.
package selector
