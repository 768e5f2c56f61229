package sqlite

import (
	"time"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// orderNewest sorts on the instant, not the text, so rows written by other
// tools in "YYYY-MM-DD HH:MM:SS" interleave correctly.
const orderNewest = ` ORDER BY julianday(created_at) DESC, id DESC`

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts this package's layout and any other ISO-8601 form found in
// older rows. Values without a zone are UTC.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t.UTC(), nil
	}
	return domain.ParseTimestamp(s)
}
