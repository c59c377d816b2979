package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/dkochetov/storefront/internal/config"

	"github.com/redis/go-redis/v9"
)

// Key layout and TTLs for idempotency records.
const (
	keyIdemPayment = "storefront:payment:idem:%s"

	TTLIdempotency = 15 * time.Minute
)

func IdemPaymentKey(key string) string {
	return fmt.Sprintf(keyIdemPayment, key)
}

func New(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
