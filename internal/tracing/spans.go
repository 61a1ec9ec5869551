package tracing

// Attribute keys for selector and registry spans.
const (
	AttrSelectionID    = "selection.id"
	AttrSelector       = "selection.selector"
	AttrSelectionCount = "selection.count"
	AttrTermCount      = "selection.terms"

	AttrRegistryID   = "registry.id"
	AttrRegistryType = "registry.type"

	AttrHTTPRoute  = "http.route"
	AttrHTTPMethod = "http.method"
	AttrHTTPStatus = "http.status_code"

	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span names.
const (
	SpanSelect       = "selector.select"
	SpanScopedSelect = "selector.select.scoped"
	SpanPrefixHTTP   = "http."
)

// Event names for span events.
const (
	EventTermApplied   = "term.applied"
	EventScopeResolved = "scope.resolved"
	EventErrorOccurred = "error.occurred"
	EventCatalogReload = "catalog.reloaded"
)
