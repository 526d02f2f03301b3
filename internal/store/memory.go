package store

import (
	"context"
	"sync"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/rs/zerolog"
)

// Memory keeps the encoded snapshot in process memory. It goes through the
// same codec as the durable backends so round-trips behave identically.
type Memory struct {
	mu    sync.Mutex
	data  []byte
	saves int
	log   zerolog.Logger
}

// NewMemory returns an empty in-memory store that logs nowhere.
func NewMemory() *Memory {
	return NewMemoryWithLogger(zerolog.Nop())
}

// NewMemoryWithLogger returns an empty in-memory store that logs to log.
func NewMemoryWithLogger(log zerolog.Logger) *Memory {
	return &Memory{log: log}
}

// Load decodes the current snapshot. An unparsable snapshot is an empty ledger.
func (m *Memory) Load(_ context.Context) ([]model.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records, err := Decode(m.data, m.log)
	if err != nil {
		m.log.Warn().Err(err).Msg("discarding unreadable ledger snapshot")
		return nil, nil
	}
	return records, nil
}

// Save replaces the snapshot.
func (m *Memory) Save(_ context.Context, records []model.Purchase) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data = data
	m.saves++
	m.mu.Unlock()
	return nil
}

// Raw returns a copy of the encoded snapshot.
func (m *Memory) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// SetRaw replaces the encoded snapshot without validation.
func (m *Memory) SetRaw(data []byte) {
	m.mu.Lock()
	m.data = append([]byte(nil), data...)
	m.mu.Unlock()
}

// Saves reports how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
