package domain

import "time"

// dayKeyLayout is the YYYY-MM-DD form stored in usage_records.usage_date.
const dayKeyLayout = "2006-01-02"

// DayKey returns the calendar-day key of t in the ledger's reference
// timezone. Every instance of a deployment must derive keys in the same
// zone or the daily limit stops being daily.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// NextAvailableAt returns when a redemption stops being shown as blocking,
// a rolling 24 hours after use. This is display guidance only; the actual
// gate is the calendar-day key, so the two must stay separate functions.
func NextAvailableAt(usedAt time.Time) time.Time {
	return usedAt.Add(24 * time.Hour)
}
