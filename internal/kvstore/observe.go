package kvstore

import (
	"context"

	"github.com/BradenHooton/storefront/internal/events"
)

type observed struct {
	Store
	hub *events.Hub[events.StorageChange]
}

// Observe publishes a StorageChange after every successful write or delete.
// Keys are reported as seen by the wrapped store's caller.
func Observe(store Store, hub *events.Hub[events.StorageChange]) Store {
	return &observed{Store: store, hub: hub}
}

func (o *observed) Set(ctx context.Context, key, value string) error {
	if err := o.Store.Set(ctx, key, value); err != nil {
		return err
	}
	o.hub.Publish(events.StorageChange{Key: key, NewValue: &value})
	return nil
}

func (o *observed) Delete(ctx context.Context, key string) error {
	if err := o.Store.Delete(ctx, key); err != nil {
		return err
	}
	o.hub.Publish(events.StorageChange{Key: key})
	return nil
}
