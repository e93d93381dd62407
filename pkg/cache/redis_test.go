package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// These tests need a live server, for example
//
//	REDIS_ADDR=localhost:6379 go test ./pkg/cache
func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := NewRedisClient(context.Background(), addr, os.Getenv("REDIS_PASSWORD"))
	if err != nil {
		t.Fatalf("connect to %s: %v", addr, err)
	}
	r := NewRedis(client, 2*time.Second)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRedisStore(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	if _, ok, err := r.Get(ctx, key); ok || err != nil {
		t.Fatalf("fresh key returned ok=%t err=%v", ok, err)
	}
	if err := r.Set(ctx, key, []byte("3.4")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := r.Get(ctx, key)
	if err != nil || !ok || string(got) != "3.4" {
		t.Errorf("got %q ok=%t err=%v", got, ok, err)
	}
}

func TestNewRedisClientEmptyAddr(t *testing.T) {
	if _, err := NewRedisClient(context.Background(), "  ", ""); err == nil {
		t.Error("expected an error for an empty address")
	}
}
