package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis keeps the snapshot as one string value. A single SET replaces it
// atomically.
type Redis struct {
	client *redis.Client
	key    string
	log    zerolog.Logger
}

// DialRedis connects to redisURL and verifies the connection.
func DialRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, key string, log zerolog.Logger) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: key, log: log}
}

// Load returns the stored records; a missing key or unparsable value is an empty ledger.
func (r *Redis) Load(ctx context.Context) ([]model.Purchase, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.key, err)
	}

	records, err := Decode(data, r.log)
	if err != nil {
		r.log.Warn().Err(err).Str("key", r.key).Msg("discarding unreadable ledger snapshot")
		return nil, nil
	}
	return records, nil
}

// Save replaces the snapshot.
func (r *Redis) Save(ctx context.Context, records []model.Purchase) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", r.key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
