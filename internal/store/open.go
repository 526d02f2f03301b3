package store

import (
	"context"
	"fmt"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/rs/zerolog"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backend is a durable home for the ledger snapshot.
type Backend interface {
	Load(ctx context.Context) ([]model.Purchase, error)
	Save(ctx context.Context, records []model.Purchase) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Path     string // sqlite database file
	RedisURL string
	Key      string
}

// Open returns the backend named by opts.Backend. An empty name means sqlite.
func Open(ctx context.Context, opts Options, log zerolog.Logger) (Backend, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		return OpenSQLite(opts.Path, opts.Key, log)
	case BackendRedis:
		client, err := DialRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedis(client, opts.Key, log), nil
	case BackendMemory:
		return NewMemoryWithLogger(log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
