package tracing

import "context"

type contextKey string

const selectionIDKey contextKey = "selection_id"

// SelectionIDFromContext returns the selection id stored by the executor,
// or an empty string.
func SelectionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(selectionIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithSelectionID returns ctx carrying id. An empty id leaves ctx unchanged.
func ContextWithSelectionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, selectionIDKey, id)
}
