package judge

import "context"

// contextKey for storing the verified scope in context
type contextKey string

const scopeContextKey contextKey = "judgeScope"

// WithScope returns a context carrying a verified scope.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey, scope)
}

// GetScope retrieves the verified scope from the request context.
// The bool is false when the request did not pass the capability gate.
func GetScope(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(scopeContextKey).(Scope)
	return scope, ok
}
