//go:build e2e

package cache_test

import (
	"context"
	"testing"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/infra/cache"
	"booking-core/internal/testutil/pgtest"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type HeatmapCacheE2ESuite struct {
	suite.Suite
	client *redis.Client
	cache  *cache.RedisHeatmapCache
	day    time.Time
}

func (s *HeatmapCacheE2ESuite) SetupSuite() {
	s.client = redis.NewClient(&redis.Options{Addr: pgtest.RedisConfig(s.T()).Addr})
	s.T().Cleanup(func() { _ = s.client.Close() })
	s.cache = cache.NewRedisHeatmapCache(s.client)
	s.day = time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)
}

func TestHeatmapCacheE2ESuite(t *testing.T) {
	suite.Run(t, new(HeatmapCacheE2ESuite))
}

func (s *HeatmapCacheE2ESuite) TestRoundTripWithinGeneration() {
	ctx := context.Background()
	provider := uuid.New()
	gen, err := s.cache.Generation(ctx, provider)
	s.Require().NoError(err)
	s.Zero(gen)

	s.Require().NoError(s.cache.Set(ctx, provider, gen, s.day, s.day, availability.Heatmap{AvailablePct: 40}, time.Minute))

	got, ok, err := s.cache.Get(ctx, provider, gen, s.day, s.day)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(40.0, got.AvailablePct)
}

func (s *HeatmapCacheE2ESuite) TestSetAfterInvalidateIsNotServed() {
	ctx := context.Background()
	provider := uuid.New()
	before, err := s.cache.Generation(ctx, provider)
	s.Require().NoError(err)

	// a writer invalidates while the reader is still computing
	s.Require().NoError(s.cache.Invalidate(ctx, provider))
	s.Require().NoError(s.cache.Set(ctx, provider, before, s.day, s.day, availability.Heatmap{AvailablePct: 100}, time.Minute))

	after, err := s.cache.Generation(ctx, provider)
	s.Require().NoError(err)
	s.Equal(before+1, after)

	_, ok, err := s.cache.Get(ctx, provider, after, s.day, s.day)
	s.Require().NoError(err)
	s.False(ok, "stale heatmap must not be visible under the new generation")
}

func (s *HeatmapCacheE2ESuite) TestInvalidateDropsEntries() {
	ctx := context.Background()
	provider := uuid.New()
	s.Require().NoError(s.cache.Set(ctx, provider, 0, s.day, s.day, availability.Heatmap{}, time.Minute))

	s.Require().NoError(s.cache.Invalidate(ctx, provider))

	n, err := s.client.Exists(ctx, cache.HeatmapKey(provider, 0, s.day, s.day)).Result()
	s.Require().NoError(err)
	s.Zero(n)
}
