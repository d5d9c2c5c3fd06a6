package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("Set() unexpected error: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Fatalf("stored value = %q, want v", got)
	}
}

func TestNewStopsOnCancelledContext(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(ctx, addr, "", 0); err == nil {
		t.Fatal("New() expected error for unreachable server")
	}
}
