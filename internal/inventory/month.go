package inventory

import (
	"regexp"
	"time"
)

var monthKeyRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonth reports whether s is a YYYY-MM month key.
func ValidMonth(s string) bool {
	return monthKeyRe.MatchString(s)
}

// MonthKey returns the month key for a point in time.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousMonths returns the n month keys strictly before month, most
// recent first. An invalid month key yields nil.
func PreviousMonths(month string, n int) []string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return nil
	}
	keys := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		keys = append(keys, t.AddDate(0, -i, 0).Format("2006-01"))
	}
	return keys
}
