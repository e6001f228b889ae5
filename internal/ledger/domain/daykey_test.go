package domain

import (
	"testing"
	"time"
)

func TestDayKeyUsesReferenceZone(t *testing.T) {
	riyadh, err := time.LoadLocation("Asia/Riyadh")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	// 22:30 UTC is already the next day in Riyadh (UTC+3).
	instant := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)

	if got := DayKey(instant, time.UTC); got != "2024-06-01" {
		t.Fatalf("expected 2024-06-01 in UTC, got %s", got)
	}
	if got := DayKey(instant, riyadh); got != "2024-06-02" {
		t.Fatalf("expected 2024-06-02 in Riyadh, got %s", got)
	}
}

func TestDayKeyStableRegardlessOfInputZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	utc := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)
	same := utc.In(tokyo)

	if DayKey(utc, time.UTC) != DayKey(same, time.UTC) {
		t.Fatal("same instant must produce the same day key")
	}
}

func TestNextAvailableAtIsRolling(t *testing.T) {
	usedAt := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	next := NextAvailableAt(usedAt)

	want := time.Date(2024, 6, 2, 23, 59, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, next)
	}

	// The rolling cooldown deliberately disagrees with the calendar-day
	// key near midnight: the day key rolls over long before 24h elapse.
	if DayKey(usedAt, time.UTC) == DayKey(usedAt.Add(2*time.Minute), time.UTC) {
		t.Fatal("expected the day key to change across midnight")
	}
	if !next.After(usedAt.Add(2 * time.Minute)) {
		t.Fatal("cooldown must still be pending right after midnight")
	}
}
