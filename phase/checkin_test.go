package phase

import (
	"testing"
	"time"

	"github.com/Dosada05/event-hub/models"
)

func TestCheckInStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := &models.CheckInWindow{
		OpensAt:  now.Add(-5 * time.Minute),
		ClosesAt: now.Add(10 * time.Minute),
	}

	cases := []struct {
		name   string
		window *models.CheckInWindow
		now    time.Time
		want   WindowStatus
	}{
		{"nil window is not configured", nil, now, CheckInNotConfigured},
		{"before opens", window, now.Add(-10 * time.Minute), CheckInNotOpen},
		{"inside window", window, now, CheckInOpen},
		{"exactly at opens is open", window, window.OpensAt, CheckInOpen},
		{"exactly at closes is closed", window, window.ClosesAt, CheckInClosed},
		{"after closes", window, now.Add(time.Hour), CheckInClosed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CheckInStatus(tc.window, tc.now); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestWindowsOf(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(2 * time.Hour)

	ev := &models.Event{
		StartsAt: &start,
		CheckInWindow: &models.CheckInWindow{
			OpensAt:  now,
			ClosesAt: now.Add(time.Hour),
		},
	}

	w := WindowsOf(ev)
	if w.CheckInOpensAt == nil || !w.CheckInOpensAt.Equal(now) {
		t.Fatalf("check-in opens not carried over: %v", w.CheckInOpensAt)
	}
	if w.CheckInClosesAt == nil || !w.CheckInClosesAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("check-in closes not carried over: %v", w.CheckInClosesAt)
	}
	if w.StartsAt == nil || !w.StartsAt.Equal(start) {
		t.Fatalf("starts-at not carried over: %v", w.StartsAt)
	}

	empty := WindowsOf(nil)
	if empty.CheckInOpensAt != nil || empty.StartsAt != nil {
		t.Fatalf("nil event must produce empty windows: %+v", empty)
	}
}

func TestEntryStateLabel(t *testing.T) {
	checkedInAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		record *models.CheckInRecord
		status models.EntryStatus
		want   string
	}{
		{"forfeited beats everything", &models.CheckInRecord{Forfeited: true, CheckedInAt: &checkedInAt}, models.EntryStatusRegistered, StateEliminated},
		{"checked in", &models.CheckInRecord{CheckedInAt: &checkedInAt}, models.EntryStatusRegistered, StateCheckedIn},
		{"no record, registered", nil, models.EntryStatusRegistered, StateRegistered},
		{"no record, pending approval", nil, models.EntryStatusPendingApproval, StatePendingApproval},
		{"no record, payment review", nil, models.EntryStatusPaymentReview, StatePaymentUnderReview},
		{"no record, under review", nil, models.EntryStatusUnderReview, StateUnderReview},
		{"empty record, registered", &models.CheckInRecord{}, models.EntryStatusRegistered, StateRegistered},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EntryStateLabel(tc.record, tc.status); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
