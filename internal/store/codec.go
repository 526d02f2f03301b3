// Package store persists the purchase ledger as a single JSON snapshot
// under one key, on SQLite, Redis, or process memory.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/theirongolddev/purse/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultKey is the record key the snapshot is stored under.
const DefaultKey = "shoppingHistory"

// ErrCorrupt is returned by Decode when a snapshot is not a JSON array.
var ErrCorrupt = errors.New("corrupt ledger snapshot")

// wireRecord is the persisted shape of a purchase. Decoding is permissive:
// unknown fields are ignored, missing ones stay zero, and scalar text fields
// accept numbers and booleans as their literal text.
type wireRecord struct {
	ID    looseString     `json:"id,omitempty"`
	Name  looseString     `json:"name"`
	Price decimal.Decimal `json:"price"`
	Date  looseString     `json:"date"`
	Time  looseString     `json:"time"`
}

// looseString decodes any JSON scalar into its text. Objects and arrays are errors.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case len(b) > 0 && (b[0] == '{' || b[0] == '['):
		return fmt.Errorf("expected a scalar, got %s", b)
	default:
		*s = looseString(b)
	}
	return nil
}

// encodedRecord writes price as a JSON number rather than decimal's default quoted string.
type encodedRecord struct {
	ID    string      `json:"id,omitempty"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
	Date  string      `json:"date"`
	Time  string      `json:"time"`
}

// Encode serializes the full record sequence in order. A date that never
// parsed is written back as it was read.
func Encode(records []model.Purchase) ([]byte, error) {
	out := make([]encodedRecord, 0, len(records))
	for _, r := range records {
		out = append(out, encodedRecord{
			ID:    r.ID,
			Name:  r.Name,
			Price: json.Number(r.Price.String()),
			Date:  r.DateText(),
			Time:  r.Time,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encoding ledger: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot. An empty payload or JSON null is an empty ledger.
// Records are decoded one at a time; an unreadable record is skipped and
// logged at warn so the rest of the ledger survives. A date that does not
// parse leaves Date zero and is kept in RawDate.
func Decode(data []byte, log zerolog.Logger) ([]model.Purchase, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var in []json.RawMessage
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	records := make([]model.Purchase, 0, len(in))
	for i, raw := range in {
		var w wireRecord
		err := json.Unmarshal(raw, &w)
		if err == nil && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			err = errors.New("null record")
		}
		if err != nil {
			log.Warn().Err(err).Int("index", i).RawJSON("record", raw).Msg("skipping unreadable ledger record")
			continue
		}

		p := model.Purchase{
			ID:    string(w.ID),
			Name:  string(w.Name),
			Price: w.Price,
			Time:  string(w.Time),
		}
		if day, err := model.ParseDay(string(w.Date)); err == nil {
			p.Date = day
		} else {
			p.RawDate = string(w.Date)
		}
		records = append(records, p)
	}
	return records, nil
}
