package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// NewClient dials host:6379 and pings it once.
func NewClient(ctx context.Context, host string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         host + ":6379",
		DB:           0,
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", host, err)
	}
	return rdb, nil
}
