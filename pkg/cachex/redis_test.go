//go:build integration

package cachex_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/OolalaDXB/outrenational/pkg/cachex"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *cachex.Redis {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	r, err := cachex.NewRedis(cachex.RedisConfig{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	return r
}

func TestRedis_RoundTrip(t *testing.T) {
	ctx := context.Background()
	r := setupRedis(t)

	_, err := r.Get(ctx, "missing")
	require.ErrorIs(t, err, cachex.ErrMiss)

	require.NoError(t, r.Set(ctx, "discogs:release:1", []byte(`{"id":1}`), time.Minute))
	got, err := r.Get(ctx, "discogs:release:1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1}`, string(got))

	require.NoError(t, r.Delete(ctx, "discogs:release:1"))
	_, err = r.Get(ctx, "discogs:release:1")
	require.ErrorIs(t, err, cachex.ErrMiss)
}

func TestRedis_Locks(t *testing.T) {
	ctx := context.Background()
	r := setupRedis(t)

	ok, err := r.AcquireLock(ctx, "lock:p", "a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.AcquireLock(ctx, "lock:p", "b", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.ReleaseLock(ctx, "lock:p", "b"))
	require.NoError(t, r.ReleaseLock(ctx, "lock:p", "a"))

	ok, err = r.AcquireLock(ctx, "lock:p", "b", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestNewRedis_Unreachable(t *testing.T) {
	_, err := cachex.NewRedis(cachex.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}
