package agent

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestOfferConfigStore(t *testing.T) *OfferConfigStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewOfferConfigStore(client)
}

func TestOfferConfigStoreRoundTrip(t *testing.T) {
	store := newTestOfferConfigStore(t)
	ctx := context.Background()

	cfg := OfferConfig{
		ActiveOffer:      "high_value",
		ShowOnHesitation: true,
		MaxAttempts:      2,
		Offers:           DefaultOffers(),
	}
	if err := store.Save(ctx, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored config, got nil")
	}
	if got.ActiveOffer != "high_value" || !got.ShowOnHesitation || got.MaxAttempts != 2 {
		t.Errorf("config mismatch: %+v", got)
	}
	if _, ok := got.Offers["high_value"]; !ok {
		t.Errorf("offer catalog not restored: %+v", got.Offers)
	}
}

func TestOfferConfigStoreMissingKey(t *testing.T) {
	store := newTestOfferConfigStore(t)

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing config, got %+v", got)
	}
}

func TestOfferConfigStoreNilSafe(t *testing.T) {
	var store *OfferConfigStore

	if err := store.Save(context.Background(), OfferConfig{}); err != nil {
		t.Fatalf("Save on nil store: %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil || got != nil {
		t.Fatalf("Load on nil store = %+v, %v", got, err)
	}
}
