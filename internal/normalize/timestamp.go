// SPDX-License-Identifier: AGPL-3.0-only
package normalize

import (
	"database/sql"
	"fmt"
	"math"
	"time"
)

// FarcasterEpoch is 2021-01-01T00:00:00Z in Unix seconds. Hub message
// timestamps count seconds from this point, not from the Unix epoch.
const FarcasterEpoch int64 = 1609459200

// Timestamp converts a hub timestamp to absolute UTC time. A missing
// timestamp becomes the Unix epoch. Hub timestamps are uint32 on the wire,
// so anything outside that range is malformed.
func Timestamp(ts *int64) (time.Time, error) {
	if ts == nil {
		return time.Unix(0, 0).UTC(), nil
	}
	if *ts < 0 || *ts > math.MaxUint32 {
		return time.Time{}, fmt.Errorf("%w: timestamp %d out of range", ErrMalformed, *ts)
	}
	return time.Unix(FarcasterEpoch+*ts, 0).UTC(), nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}
