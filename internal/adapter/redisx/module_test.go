package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/ikanmart/internal/config"
	"github.com/polkiloo/ikanmart/internal/usecase"
)

func TestModuleProvidesAdapters(t *testing.T) {
	fake := newFakeClient()
	original := newClient
	newClient = func(string) client { return fake }
	t.Cleanup(func() { newClient = original })

	var (
		cache usecase.StatusCache
		idem  usecase.IdempotencyStore
	)
	app := fxtest.New(t,
		fx.Supply(&config.Config{RedisAddress: "localhost:6379", StatusCacheTTL: time.Minute, IdempotencyTTL: time.Hour}),
		fx.Supply(testLogger()),
		Module,
		fx.Populate(&cache, &idem),
	)
	app.RequireStart()

	require.NotNil(t, cache)
	require.NotNil(t, idem)
	require.NoError(t, cache.SetStatus(context.Background(), "o1", "pending"))
	require.Equal(t, "pending", fake.values["order_status:o1"])

	app.RequireStop()
	require.True(t, fake.closed)
}
