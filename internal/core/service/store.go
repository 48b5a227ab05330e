package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rl1809/primo-pizza/internal/core/catalog"
	"github.com/rl1809/primo-pizza/internal/port"
)

// load decodes the document at key into a fresh T. A missing key yields the
// zero value.
func load[T any](ctx context.Context, docs port.Documents, key string) (T, error) {
	var v T
	if _, err := docs.Get(ctx, key, &v); err != nil {
		return v, fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

func save(ctx context.Context, docs port.Documents, key string, v any) error {
	if err := docs.Put(ctx, key, v); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Bootstrap seeds every document that is not yet present. Existing documents
// are left alone, so it is safe to call on every start.
func Bootstrap(ctx context.Context, store port.DocumentStore, now time.Time) error {
	seeds := []struct {
		key  string
		seed func() any
	}{
		{KeyMenu, func() any { return catalog.Menu() }},
		{KeyInventory, func() any { return catalog.Inventory() }},
		{KeyDeliveryZones, func() any { return catalog.DeliveryZones() }},
		{KeyPromotions, func() any { return catalog.Promotions() }},
		{KeyFlashSale, func() any { return catalog.FlashSale(now) }},
		{KeyOrders, func() any { return []any{} }},
		{KeyLoyalty, func() any { return []any{} }},
		{KeyFavorites, func() any { return map[string][]string{} }},
	}

	for _, s := range seeds {
		err := store.Atomic(ctx, []string{s.key}, func(ctx context.Context, tx port.Documents) error {
			var probe json.RawMessage
			found, err := tx.Get(ctx, s.key, &probe)
			if err != nil || found {
				return err
			}
			return tx.Put(ctx, s.key, s.seed())
		})
		if err != nil {
			return fmt.Errorf("bootstrap %s: %w", s.key, err)
		}
	}
	return nil
}
