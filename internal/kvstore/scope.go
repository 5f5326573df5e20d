package kvstore

import "context"

type clientKey struct{}

// WithClient records the client id whose private keys a request may touch
func WithClient(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientKey{}, clientID)
}

// ClientFromContext returns the client id set by WithClient
func ClientFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientKey{}).(string)
	return id, ok && id != ""
}

// Scoped returns store namespaced to the request's client, or store itself
// when ctx carries no client.
func Scoped(ctx context.Context, store Store) Store {
	if id, ok := ClientFromContext(ctx); ok {
		return ClientNamespace(store, id)
	}
	return store
}
