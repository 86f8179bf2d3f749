package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/config"
	"github.com/go-redis/redis/v8"
)

// RedisRepository holds session records and the small per-user flags the
// mobile client keeps in device storage (onboarding marker, cached profile).
type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

// SessionRecord binds an opaque token to a user for the session TTL.
type SessionRecord struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func sessionKey(token string) string { return fmt.Sprintf("session:%s", token) }

func (r *RedisRepository) SaveSession(ctx context.Context, rec *SessionRecord, ttl time.Duration) error {
	return r.SetJSON(ctx, sessionKey(rec.Token), rec, ttl)
}

func (r *RedisRepository) GetSession(ctx context.Context, token string) (*SessionRecord, error) {
	var rec SessionRecord
	err := r.GetJSON(ctx, sessionKey(token), &rec)
	if errors.Is(err, redis.Nil) {
		return nil, apperr.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// TouchSession slides the expiry forward; tokens refresh transparently on use.
func (r *RedisRepository) TouchSession(ctx context.Context, token string, ttl time.Duration) error {
	return r.client.Expire(ctx, sessionKey(token), ttl).Err()
}

func (r *RedisRepository) DeleteSession(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}

func onboardingKey(userID string) string { return fmt.Sprintf("onboarding:%s", userID) }

func (r *RedisRepository) SetOnboardingComplete(ctx context.Context, userID string) error {
	return r.client.Set(ctx, onboardingKey(userID), "true", 0).Err()
}

func (r *RedisRepository) OnboardingComplete(ctx context.Context, userID string) (bool, error) {
	val, err := r.client.Get(ctx, onboardingKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "true", nil
}

func profileKey(userID string) string { return fmt.Sprintf("profile:%s", userID) }

// The profile cache is read-through with a short TTL; writes invalidate. The
// value shape belongs to the caller, this layer only moves JSON.

func (r *RedisRepository) CacheProfile(ctx context.Context, userID string, profile interface{}) error {
	return r.SetJSON(ctx, profileKey(userID), profile, 30*time.Minute)
}

func (r *RedisRepository) GetCachedProfile(ctx context.Context, userID string, dest interface{}) error {
	return r.GetJSON(ctx, profileKey(userID), dest)
}

func (r *RedisRepository) InvalidateProfile(ctx context.Context, userID string) error {
	return r.client.Del(ctx, profileKey(userID)).Err()
}
