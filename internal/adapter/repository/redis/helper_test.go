package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// newIdempotencyTestClient connects to an in-memory server that lives for
// the duration of the test.
func newIdempotencyTestClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{
		Addr:       server.Addr(),
		ClientName: "gosettle-test",
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, server
}
