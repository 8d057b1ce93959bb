package cache

import (
	"context"
	"testing"
	"time"
)

func TestLocalClientGetSet(t *testing.T) {
	ctx := context.Background()
	client := NewLocalClient()

	if _, err := client.Get(ctx, "missing"); err == nil {
		t.Errorf("missing key should error")
	}

	if err := client.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := client.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Errorf("Get = (%q, %v), want (v, nil)", got, err)
	}

	if err := client.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := client.Get(ctx, "k"); err == nil {
		t.Errorf("deleted key should error")
	}
}

func TestLocalClientSetExpiration(t *testing.T) {
	ctx := context.Background()
	client := NewLocalClient()

	if err := client.Set(ctx, "short", "v", time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := client.Get(ctx, "short"); err == nil {
		t.Errorf("expired key should error")
	}
}

func TestLocalClientSetAdd(t *testing.T) {
	ctx := context.Background()
	client := NewLocalClient()

	added, err := client.SetAdd(ctx, "viewers", "user-1")
	if err != nil || !added {
		t.Fatalf("first SetAdd = (%v, %v), want (true, nil)", added, err)
	}

	added, err = client.SetAdd(ctx, "viewers", "user-1")
	if err != nil || added {
		t.Errorf("duplicate SetAdd = (%v, %v), want (false, nil)", added, err)
	}

	if _, err := client.SetAdd(ctx, "viewers", "user-2"); err != nil {
		t.Fatalf("SetAdd: %v", err)
	}

	card, err := client.SetCard(ctx, "viewers")
	if err != nil || card != 2 {
		t.Errorf("SetCard = (%d, %v), want (2, nil)", card, err)
	}
}

func TestLocalClientSetExpiry(t *testing.T) {
	ctx := context.Background()
	client := NewLocalClient()

	if _, err := client.SetAdd(ctx, "viewers", "user-1"); err != nil {
		t.Fatalf("SetAdd: %v", err)
	}
	if err := client.Expire(ctx, "viewers", time.Nanosecond); err != nil {
		t.Fatalf("Expire: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	// The expired set is gone, so the member counts as new again.
	added, err := client.SetAdd(ctx, "viewers", "user-1")
	if err != nil || !added {
		t.Errorf("SetAdd after expiry = (%v, %v), want (true, nil)", added, err)
	}

	card, err := client.SetCard(ctx, "viewers")
	if err != nil || card != 1 {
		t.Errorf("SetCard after expiry = (%d, %v), want (1, nil)", card, err)
	}
}

func TestNewRedisClientFallsBackWithoutAddr(t *testing.T) {
	client, err := NewRedisClient("", "", 0)
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer client.Close()

	if _, ok := client.(*LocalClient); !ok {
		t.Errorf("empty address should return the local client, got %T", client)
	}
}
