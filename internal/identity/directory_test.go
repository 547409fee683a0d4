package identity

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newRedisDirectory(t *testing.T) (*RedisDirectory, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisDirectory(rdb, zap.NewNop()), mr
}

func TestDirectories(t *testing.T) {
	redisDir, _ := newRedisDirectory(t)
	for name, d := range map[string]Directory{
		"redis":  redisDir,
		"memory": NewMemoryDirectory(),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if got := d.Name(ctx, "42"); got != Unknown {
				t.Fatalf("unseen id = %q, want %q", got, Unknown)
			}
			if err := d.Remember(ctx, "42", " Alice "); err != nil {
				t.Fatalf("Remember: %v", err)
			}
			if got := d.Name(ctx, "42"); got != "Alice" {
				t.Fatalf("Name = %q", got)
			}
			if id, ok := d.Lookup(ctx, "alice"); !ok || id != "42" {
				t.Fatalf("Lookup(alice) = %q, %v", id, ok)
			}
			if _, ok := d.Lookup(ctx, "bob"); ok {
				t.Fatalf("Lookup(bob) should miss")
			}
			if err := d.Remember(ctx, "42", "Alicia"); err != nil {
				t.Fatalf("Remember rename: %v", err)
			}
			if got := d.Name(ctx, "42"); got != "Alicia" {
				t.Fatalf("renamed Name = %q", got)
			}
			if err := d.Remember(ctx, "", "nobody"); err != nil {
				t.Fatalf("empty id should be ignored: %v", err)
			}
		})
	}
}

func TestRedisDirectoryDegradesOnBackendError(t *testing.T) {
	d, mr := newRedisDirectory(t)
	ctx := context.Background()
	if err := d.Remember(ctx, "7", "carol"); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	mr.SetError("ERR backend unavailable")
	if got := d.Name(ctx, "7"); got != Unknown {
		t.Fatalf("Name during outage = %q, want %q", got, Unknown)
	}
	if _, ok := d.Lookup(ctx, "carol"); ok {
		t.Fatalf("Lookup during outage should miss")
	}
	mr.SetError("")
	if got := d.Name(ctx, "7"); got != "carol" {
		t.Fatalf("Name after outage = %q", got)
	}
}

func TestRedisDirectoryRememberFailsOnBackendError(t *testing.T) {
	d, mr := newRedisDirectory(t)
	mr.SetError("ERR backend unavailable")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- d.Remember(ctx, "1", "alice") }()
	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("Remember during outage should fail")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Remember blocked after a backend error")
	}

	mr.SetError("")
	if err := d.Remember(context.Background(), "1", "alice"); err != nil {
		t.Fatalf("Remember after outage: %v", err)
	}
	if got := d.Name(context.Background(), "1"); got != "alice" {
		t.Fatalf("Name = %q", got)
	}
}
