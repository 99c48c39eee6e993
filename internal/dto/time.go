package dto

import "time"

// ISOTime renders t in UTC with millisecond precision, e.g. 2024-01-10T08:00:00.000Z.
func ISOTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
