package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedis(t *testing.T) *Cache {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION not set")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "docker.io/redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})
	addr, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	c := New(addr, "", 0)
	t.Cleanup(func() { _ = c.Close() })
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return c
}

func TestHitCountsWithinWindow(t *testing.T) {
	c := newRedis(t)
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		n, err := c.Hit(ctx, "rl:auth:10.0.0.1", time.Minute)
		if err != nil {
			t.Fatalf("hit: %v", err)
		}
		if n != want {
			t.Fatalf("hit = %d, want %d", n, want)
		}
	}
	ttl, err := c.RDB.TTL(ctx, "rl:auth:10.0.0.1").Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl = %v, %v", ttl, err)
	}
	// 后续命中不能续期
	time.Sleep(1100 * time.Millisecond)
	if _, err := c.Hit(ctx, "rl:auth:10.0.0.1", time.Minute); err != nil {
		t.Fatalf("hit: %v", err)
	}
	if ttl2, _ := c.RDB.TTL(ctx, "rl:auth:10.0.0.1").Result(); ttl2 >= ttl {
		t.Fatalf("window extended: %v -> %v", ttl, ttl2)
	}
}
