package stackmap

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx that carries m.
func NewContext(ctx context.Context, m Map) context.Context {
	return context.WithValue(ctx, contextKey{}, orEmpty(m))
}

// FromContext returns the container carried by ctx. When there is none it
// returns Empty and false.
func FromContext(ctx context.Context) (Map, bool) {
	m, ok := ctx.Value(contextKey{}).(Map)
	if !ok {
		return Empty{}, false
	}
	return m, true
}
