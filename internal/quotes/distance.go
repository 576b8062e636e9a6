package quotes

import (
	"context"
	"strconv"
	"time"

	pkgerrors "github.com/speedyvan/speedyvan-backend/pkg/errors"
	"github.com/speedyvan/speedyvan-backend/pkg/logger"
	"github.com/speedyvan/speedyvan-backend/pkg/maps"
	"github.com/speedyvan/speedyvan-backend/pkg/redis"
)

// DistanceResolver turns a pickup/dropoff address pair into kilometers.
type DistanceResolver interface {
	Resolve(ctx context.Context, origin, destination string) (float64, error)
}

type routeClient interface {
	DistanceKm(ctx context.Context, origin, destination string) (*maps.RouteDistance, error)
}

type distanceCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DistanceKey(origin, destination string) string
}

type cachedResolver struct {
	routes routeClient
	cache  distanceCache
	ttl    time.Duration
	logg   *logger.Logger
}

// NewDistanceResolver builds a resolver that fronts the Distance Matrix API
// with a short-lived Redis cache. The same address pair is typically queried
// several times while a customer iterates on a quote; caching keeps that off
// the metered API. Cache failures degrade to a direct lookup.
func NewDistanceResolver(routes routeClient, cache distanceCache, ttl time.Duration, logg *logger.Logger) DistanceResolver {
	return &cachedResolver{routes: routes, cache: cache, ttl: ttl, logg: logg}
}

func (r *cachedResolver) Resolve(ctx context.Context, origin, destination string) (float64, error) {
	if r.routes == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "distance resolution is not configured")
	}

	var key string
	if r.cache != nil && r.ttl > 0 {
		key = r.cache.DistanceKey(origin, destination)
		if cached, err := r.cache.Get(ctx, key); err == nil {
			if km, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil && km > 0 {
				return km, nil
			}
		} else if err != redis.Nil && r.logg != nil {
			r.logg.Warn(ctx, "distance cache read failed: "+err.Error())
		}
	}

	route, err := r.routes.DistanceKm(ctx, origin, destination)
	if err != nil {
		return 0, err
	}

	if key != "" {
		if err := r.cache.Set(ctx, key, strconv.FormatFloat(route.DistanceKm, 'f', -1, 64), r.ttl); err != nil && r.logg != nil {
			r.logg.Warn(ctx, "distance cache write failed: "+err.Error())
		}
	}

	return route.DistanceKm, nil
}
