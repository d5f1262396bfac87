package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

var ErrInvalidWeekday = errors.New("invalid weekday")

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday, "الأحد": time.Sunday, "الاحد": time.Sunday,
	"monday": time.Monday, "mon": time.Monday, "الإثنين": time.Monday, "الاثنين": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "الثلاثاء": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "الأربعاء": time.Wednesday, "الاربعاء": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "الخميس": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "الجمعة": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "السبت": time.Saturday,
}

var arabicWeekdays = map[time.Weekday]string{
	time.Saturday:  "السبت",
	time.Sunday:    "الأحد",
	time.Monday:    "الإثنين",
	time.Tuesday:   "الثلاثاء",
	time.Wednesday: "الأربعاء",
	time.Thursday:  "الخميس",
	time.Friday:    "الجمعة",
}

// ParseWeekday accepts English or Arabic day names in any case. "all",
// "الكل" and the empty string mean no filter and return nil.
func ParseWeekday(raw string) (*time.Weekday, error) {
	key := cases.Fold().String(strings.TrimSpace(raw))
	switch key {
	case "", "all", "الكل":
		return nil, nil
	}

	day, ok := weekdays[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, raw)
	}
	return &day, nil
}

// ArabicWeekday returns the Arabic name of d
func ArabicWeekday(d time.Weekday) string {
	return arabicWeekdays[d]
}
