package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"user-service/internal/domain/user"
	interfaces "user-service/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, db int, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{
		client: rdb,
		ttl:    ttl,
	}
}

var _ interfaces.UserCache = (*RedisCache)(nil)

func userKey(id uint) string {
	return fmt.Sprintf("user:view:%d", id)
}

func (r *RedisCache) GetUser(ctx context.Context, id uint) (*user.UserResponse, error) {
	val, err := r.client.Get(ctx, userKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	var view user.UserResponse
	if err := json.Unmarshal([]byte(val), &view); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}

	return &view, nil
}

func (r *RedisCache) SetUser(ctx context.Context, view user.UserResponse) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err := r.client.Set(ctx, userKey(view.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set user in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) DeleteUser(ctx context.Context, id uint) error {
	if err := r.client.Del(ctx, userKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete user from cache: %w", err)
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
