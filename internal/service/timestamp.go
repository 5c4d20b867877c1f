package service

import (
	"bytes"
	"encoding/json"
	"time"
)

// splitTimestamp is the wire encoding of a 64-bit UNIX timestamp split into
// two 32-bit halves, as emitted by some provider serializers.
type splitTimestamp struct {
	Low  *int64 `json:"low"`
	High *int64 `json:"high"`
}

// NormalizeTimestamp converts a provider timestamp of unknown shape into an
// absolute instant. Accepted shapes, in order: a plain number of UNIX
// seconds, an object with a numeric "low" field, anything else falls back
// to now. It never fails.
//
// For the split encoding only the low word is used: the provider values
// observed in practice fit in 32-bit seconds, and the high word has been
// seen carrying garbage from serializer internals. Timestamps past 2038
// would lose their upper bits here.
func NormalizeTimestamp(raw json.RawMessage, now func() time.Time) time.Time {
	// Unmarshal treats a JSON null as a no-op on a float64 target, which
	// would silently produce the zero instant.
	if len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		var seconds float64
		if err := json.Unmarshal(raw, &seconds); err == nil {
			return time.Unix(int64(seconds), 0)
		}

		var split splitTimestamp
		if err := json.Unmarshal(raw, &split); err == nil && split.Low != nil {
			return time.Unix(*split.Low, 0)
		}
	}

	return now()
}
