package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedyvan/speedyvan-backend/pkg/maps"
	"github.com/speedyvan/speedyvan-backend/pkg/redis"
)

type stubRoutes struct {
	km    float64
	err   error
	calls int
}

func (s *stubRoutes) DistanceKm(ctx context.Context, origin, destination string) (*maps.RouteDistance, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &maps.RouteDistance{Origin: origin, Destination: destination, DistanceKm: s.km}, nil
}

type stubCache struct {
	values map[string]string
	getErr error
	setErr error
	sets   int
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.values[key] = value.(string)
	return nil
}

func (s *stubCache) DistanceKey(origin, destination string) string {
	return "distance:" + origin + "|" + destination
}

func TestResolveCacheMiss(t *testing.T) {
	routes := &stubRoutes{km: 42.5}
	cache := &stubCache{values: map[string]string{}}
	resolver := NewDistanceResolver(routes, cache, time.Minute, nil)

	km, err := resolver.Resolve(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 42.5, km)
	assert.Equal(t, 1, routes.calls)
	assert.Equal(t, 1, cache.sets)
}

func TestResolveCacheHitSkipsAPI(t *testing.T) {
	routes := &stubRoutes{km: 42.5}
	cache := &stubCache{values: map[string]string{"distance:A|B": "42.5"}}
	resolver := NewDistanceResolver(routes, cache, time.Minute, nil)

	km, err := resolver.Resolve(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 42.5, km)
	assert.Equal(t, 0, routes.calls)
}

func TestResolveCorruptCacheEntryFallsThrough(t *testing.T) {
	routes := &stubRoutes{km: 10}
	cache := &stubCache{values: map[string]string{"distance:A|B": "not-a-number"}}
	resolver := NewDistanceResolver(routes, cache, time.Minute, nil)

	km, err := resolver.Resolve(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 10.0, km)
	assert.Equal(t, 1, routes.calls)
}

func TestResolveCacheErrorsDegradeToDirectLookup(t *testing.T) {
	routes := &stubRoutes{km: 7}
	cache := &stubCache{values: map[string]string{}, getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	resolver := NewDistanceResolver(routes, cache, time.Minute, nil)

	km, err := resolver.Resolve(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 7.0, km)
}

func TestResolveWithoutCacheGoesDirect(t *testing.T) {
	routes := &stubRoutes{km: 3}
	resolver := NewDistanceResolver(routes, nil, 0, nil)

	km, err := resolver.Resolve(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Equal(t, 3.0, km)
}

func TestResolveRouteErrorPropagates(t *testing.T) {
	routes := &stubRoutes{err: errors.New("no route")}
	resolver := NewDistanceResolver(routes, nil, 0, nil)

	_, err := resolver.Resolve(context.Background(), "A", "B")
	assert.Error(t, err)
}
