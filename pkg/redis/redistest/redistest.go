// Package redistest starts an in-memory redis server for package tests.
package redistest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/smokehouse-backend/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
)

// Open starts miniredis and returns it with a wrapped client. Both are closed on cleanup.
func Open(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewFromRaw(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}
