package recency

import (
	"testing"
	"time"
)

func TestIsRecent(t *testing.T) {
	t.Parallel()

	today := time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dateText string
		want     bool
	}{
		{"today", "2025-06-15", true},
		{"window boundary inclusive", "2025-06-12", true},
		{"one day past window", "2025-06-11", false},
		{"empty date", "", false},
		{"whitespace only", "   ", false},
		{"garbage", "not a date", false},
		{"rfc3339 timestamp", "2025-06-14T08:00:00Z", true},
		{"norwegian numeric", "14.06.2025", true},
		{"norwegian month name", "14. juni 2025", true},
		{"norwegian month name stale", "1. juni 2025", false},
		{"english month name", "14 June 2025", true},
		{"english abbreviated", "14 Jun 2025", true},
		{"english us order", "June 14, 2025", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRecent(tt.dateText, 3, today); got != tt.want {
				t.Fatalf("IsRecent(%q, 3, %s) = %v, want %v",
					tt.dateText, today.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestIsRecentIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	// late in the evening the boundary date must still be accepted
	today := time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)
	if !IsRecent("2025-06-12", 3, today) {
		t.Fatal("boundary date rejected near midnight")
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	got, ok := Parse("2025-06-14")
	if !ok {
		t.Fatal("Parse failed for ISO date")
	}
	want := time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Parse = %v, want %v", got, want)
	}

	if _, ok := Parse("yesterday-ish"); ok {
		t.Fatal("Parse accepted garbage")
	}
}
