package analytics

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

// GetDateRange returns the range for a named period relative to now.
// An empty period means today.
func GetDateRange(period string, now time.Time) (DateRange, error) {
	var start, end time.Time

	switch period {
	case "", "today":
		period = "today"
		start = startOfDay(now)
		end = endOfDay(now)

	case "yesterday":
		yesterday := now.AddDate(0, 0, -1)
		start = startOfDay(yesterday)
		end = endOfDay(yesterday)

	case "this_week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = startOfDay(now.AddDate(0, 0, -weekday+1))
		end = now

	case "last_7_days":
		start = startOfDay(now.AddDate(0, 0, -6))
		end = now

	case "this_month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now

	case "last_30_days":
		start = now.AddDate(0, 0, -30)
		end = now

	case "all":
		start = time.Time{}
		end = now

	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}

	return DateRange{Period: period, Start: start, End: end}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
