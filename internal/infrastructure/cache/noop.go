package cache

import (
	"context"
	"fmt"
	"time"

	"user-service/internal/domain/user"
	interfaces "user-service/internal/interfaces/infrastructure"
)

// NoopCache is used when caching is disabled; every lookup misses.
type NoopCache struct{}

var _ interfaces.UserCache = NoopCache{}

func (NoopCache) GetUser(context.Context, uint) (*user.UserResponse, error) { return nil, nil }
func (NoopCache) SetUser(context.Context, user.UserResponse) error        { return nil }
func (NoopCache) DeleteUser(context.Context, uint) error                  { return nil }
func (NoopCache) Ping(context.Context) error                              { return nil }

// New builds the cache selected by cacheType ("none" or "redis").
func New(cacheType, addr, password string, db int, ttl time.Duration) (interfaces.UserCache, error) {
	switch cacheType {
	case "", "none":
		return NoopCache{}, nil
	case "redis":
		return NewRedisCache(addr, password, db, ttl), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheType)
	}
}
