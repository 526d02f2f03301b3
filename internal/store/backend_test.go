package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"), "", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := NewRedis(client, "", zerolog.Nop())
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestBackendsRoundTrip(t *testing.T) {
	redisBackend, _ := newTestRedis(t)
	backends := map[string]Backend{
		"sqlite": newTestSQLite(t),
		"redis":  redisBackend,
		"memory": NewMemory(),
	}

	for name, b := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty, err := b.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty, "fresh backend should load an empty ledger")

			want := sampleLedger()
			require.NoError(t, b.Save(ctx, want))

			got, err := b.Load(ctx)
			require.NoError(t, err)
			assertSameLedger(t, want, got)

			// A second save replaces rather than appends.
			require.NoError(t, b.Save(ctx, want[:1]))
			got, err = b.Load(ctx)
			require.NoError(t, err)
			assertSameLedger(t, want[:1], got)
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	ctx := context.Background()

	s, err := OpenSQLite(path, "custom", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sampleLedger()))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path, "custom", zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assertSameLedger(t, sampleLedger(), got)
}

func TestSQLiteCorruptValueLoadsEmpty(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, "INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)", DefaultKey, "{oops", "now")
	require.NoError(t, err)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisUsesHistoryKey(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, sampleLedger()[:1]))

	raw, err := mr.Get(DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"01HZX0000000000000000000A1","name":"Milk","price":4000,"date":"2024-06-01","time":"08:15"}]`,
		raw)
}

func TestRedisCorruptValueLoadsEmpty(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, mr.Set(DefaultKey, "]["))

	got, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisLoadFailsWhenServerDown(t *testing.T) {
	r, mr := newTestRedis(t)
	mr.Close()

	_, err := r.Load(context.Background())
	assert.Error(t, err)
}

func TestMemoryCorruptValueLoadsEmpty(t *testing.T) {
	var buf bytes.Buffer
	m := NewMemoryWithLogger(zerolog.New(&buf))
	m.SetRaw([]byte("garbage"))

	got, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, m.Saves())
	assert.Contains(t, buf.String(), "discarding unreadable ledger snapshot")
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "etcd"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenMemory(t *testing.T) {
	b, err := Open(context.Background(), Options{Backend: BackendMemory}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)
}
