package frontmatter

import (
	"strings"
	"time"
)

// timestampLayouts covers the formats observed across captured archives:
// RFC3339 with and without fraction, Python isoformat without a zone, and
// bare dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts a front-matter date value into a time. Sentinel
// placeholders used upstream to mean "value absent" map to nil with ok=true;
// a non-sentinel value that matches no known layout returns ok=false so the
// validator can surface a reason instead of silently dropping data.
func ParseTimestamp(value string) (*time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if IsSentinel(trimmed) {
		return nil, true
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			utc := ts.UTC()
			return &utc, true
		}
	}
	return nil, false
}

// IsSentinel reports whether the raw value is one of the placeholder strings
// the capture tooling emits when a value is absent.
func IsSentinel(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "unknown", "none", "null", "n/a":
		return true
	}
	return false
}
