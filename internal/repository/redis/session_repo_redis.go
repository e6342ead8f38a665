package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"order-admin/internal/domain"
	"order-admin/internal/repository"
)

const keyPrefix = "order-admin:session:"

// Client is the subset of *redis.Client the repository needs.
type Client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	GetDel(ctx context.Context, key string) *goredis.StringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

var _ Client = (*goredis.Client)(nil)

type sessionRepo struct {
	rdb Client
	ttl time.Duration
}

func NewSessionRepository(rdb Client, ttl time.Duration) repository.SessionRepository {
	return &sessionRepo{rdb: rdb, ttl: ttl}
}

func viewKey(sessionID string) string  { return keyPrefix + sessionID + ":view" }
func toastKey(sessionID string) string { return keyPrefix + sessionID + ":toast" }

func (r *sessionRepo) FindView(ctx context.Context, sessionID string) (*domain.ViewState, error) {
	b, err := r.rdb.Get(ctx, viewKey(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get view: %w", err)
	}
	var v domain.ViewState
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode view: %w", err)
	}
	return &v, nil
}

func (r *sessionRepo) SaveView(ctx context.Context, sessionID string, v domain.ViewState) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	if err := r.rdb.Set(ctx, viewKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set view: %w", err)
	}
	return nil
}

func (r *sessionRepo) PutToast(ctx context.Context, sessionID string, t domain.Toast) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode toast: %w", err)
	}
	if err := r.rdb.Set(ctx, toastKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set toast: %w", err)
	}
	return nil
}

func (r *sessionRepo) TakeToast(ctx context.Context, sessionID string) (*domain.Toast, error) {
	b, err := r.rdb.GetDel(ctx, toastKey(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis getdel toast: %w", err)
	}
	var t domain.Toast
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decode toast: %w", err)
	}
	return &t, nil
}

func (r *sessionRepo) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, viewKey(sessionID), toastKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
