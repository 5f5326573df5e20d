package kvstore

import "context"

type namespaced struct {
	store  Store
	prefix string
}

// Namespace scopes every key of store under prefix. Two namespaces with
// different prefixes never observe each other's keys.
func Namespace(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return &namespaced{store: store, prefix: prefix}
}

// ClientNamespace scopes store to a single client id
func ClientNamespace(store Store, clientID string) Store {
	return Namespace(store, ClientPrefix(clientID))
}

// ClientPrefix is the key prefix of a client's private keys
func ClientPrefix(clientID string) string {
	return "client:" + clientID + ":"
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Ping(ctx context.Context) error {
	return n.store.Ping(ctx)
}
