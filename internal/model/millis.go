package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Millis is a timestamp carried on the wire as milliseconds since the Unix
// epoch. The zero value means "unset" and encodes as null.
type Millis struct {
	time.Time
}

// FromTime wraps t.
func FromTime(t time.Time) Millis {
	return Millis{Time: t}
}

// FromUnixMilli converts milliseconds since the epoch.
func FromUnixMilli(ms int64) Millis {
	return Millis{Time: time.UnixMilli(ms).UTC()}
}

// IsSet reports whether the timestamp carries a value. Zero or negative
// milliseconds count as unset, as the backend uses 0 for "no date".
func (m Millis) IsSet() bool {
	return !m.Time.IsZero() && m.UnixMilli() > 0
}

// UnmarshalJSON decodes a number of milliseconds or null.
func (m *Millis) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		m.Time = time.Time{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("timestamp must be milliseconds since epoch: %w", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("timestamp out of range: %v", v)
	}
	m.Time = time.UnixMilli(int64(v)).UTC()
	return nil
}

// MarshalJSON encodes milliseconds since the epoch, or null when unset.
func (m Millis) MarshalJSON() ([]byte, error) {
	if !m.IsSet() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, m.UnixMilli(), 10), nil
}
