package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreServices(t *testing.T) {
	gateway := services.GetPaymentGateway()
	notifier := services.GetNotifier()
	images := services.GetImageService()
	cache := services.GetMenuCache()
	t.Cleanup(func() {
		services.SetPaymentGateway(gateway)
		services.SetNotifier(notifier)
		services.SetImageService(images)
		services.SetMenuCache(cache)
	})
}

func TestInitServicesWithoutOptionalBackends(t *testing.T) {
	restoreServices(t)
	services.SetImageService(nil)

	initServices(context.Background(), &config.Config{
		EmailTimeout: time.Second,
		MenuCacheTTL: time.Minute,
	})

	_, err := services.GetPaymentGateway().CreatePaymentIntent(context.Background(), services.IntentParams{Amount: 100})
	assert.ErrorIs(t, err, services.ErrGatewayNotConfigured)
	assert.Nil(t, services.GetImageService(), "no bucket means no image storage")

	_, hit, err := services.GetMenuCache().Get(context.Background(), "list::any", &[]string{})
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestInitServicesFallsBackWhenRedisIsDown(t *testing.T) {
	restoreServices(t)

	initServices(context.Background(), &config.Config{
		RedisURL:     "redis://127.0.0.1:1/0",
		MenuCacheTTL: time.Minute,
	})

	require.NotNil(t, services.GetMenuCache())
	assert.NoError(t, services.GetMenuCache().Set(context.Background(), 0, "k", []string{"v"}))
}

func TestInitServicesUsesRedis(t *testing.T) {
	restoreServices(t)
	mr := miniredis.RunT(t)

	initServices(context.Background(), &config.Config{
		RedisURL:     "redis://" + mr.Addr(),
		MenuCacheTTL: time.Minute,
	})

	require.NoError(t, services.GetMenuCache().Set(context.Background(), 0, "k", []string{"v"}))
	assert.NotEmpty(t, mr.Keys())
}
