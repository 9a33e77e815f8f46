package labeler

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// errNotATime marks cells that hold no time at all (empty, NaN, NaT).
var errNotATime = errors.New("not a time")

// Layouts tried in order. Zoned layouts come first so that an offset or "Z"
// is never silently dropped by a naive layout.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02 15:04:05.999999999Z0700",
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006/01/02 15:04:05.999999999",
		"2006/01/02 15:04",
		"2006/01/02",
		"20060102T150405",
	}
)

// Timestamp is a parsed point in time. Zoned values carry an explicit UTC
// offset in their source text; naive values do not. The two kinds never
// compare equal, even when their wall clocks agree.
type Timestamp struct {
	t     time.Time
	zoned bool
}

// key is the comparable form used for set membership: nanosecond instant
// plus the zoned flag.
type key struct {
	sec   int64
	nsec  int
	zoned bool
}

func (ts Timestamp) key() key {
	return key{sec: ts.t.Unix(), nsec: ts.t.Nanosecond(), zoned: ts.zoned}
}

// Equal reports whether ts and other denote exactly the same time. There is no
// tolerance: values that differ by a nanosecond are different.
func (ts Timestamp) Equal(other Timestamp) bool { return ts.key() == other.key() }

// ParseTimestamp parses an ISO-like timestamp string.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if isNotATime(s) {
		return Timestamp{}, errNotATime
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t: t.UTC(), zoned: true}, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func isNotATime(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "nat", "na", "null", "none":
		return true
	}
	return false
}
