package typeutils

import (
	"time"
)

// FormatCursorValue normalizes a cursor value before it is committed to state,
// so the persisted bookmark round-trips through JSON without losing type.
func FormatCursorValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case Time:
		return v.UTC().Format(time.RFC3339)
	case nil:
		return nil
	default:
		return v
	}
}
