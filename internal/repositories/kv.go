package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BradenHooton/storefront/internal/kvstore"
	"github.com/BradenHooton/storefront/internal/models"
)

// getJSON decodes the value at key into dst. A missing key or a value that is
// not valid JSON reports found=false with no error.
func getJSON(ctx context.Context, store kvstore.Store, key string, dst any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, nil
	}
	return true, nil
}

// getJSONForUpdate is getJSON for read-modify-write cycles. A present value
// that does not decode is ErrCorruptRecord, so the write does not replace it.
func getJSONForUpdate(ctx context.Context, store kvstore.Store, key string, dst any) (bool, error) {
	raw, found, err := getString(ctx, store, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("%w: %s", models.ErrCorruptRecord, key)
	}
	return true, nil
}

func putJSON(ctx context.Context, store kvstore.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Set(ctx, key, string(data))
}

func getString(ctx context.Context, store kvstore.Store, key string) (string, bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}
