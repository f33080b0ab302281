package phase

import (
	"time"

	"github.com/Dosada05/event-hub/models"
)

// WindowStatus is the global check-in window state, independent of any
// particular entry's record.
type WindowStatus string

const (
	CheckInNotConfigured WindowStatus = "not_configured"
	CheckInNotOpen       WindowStatus = "not_open"
	CheckInOpen          WindowStatus = "open"
	CheckInClosed        WindowStatus = "closed"
)

// CheckInStatus derives the window state from the clock. The closing bound is
// exclusive: at exactly ClosesAt the window is already closed.
func CheckInStatus(w *models.CheckInWindow, now time.Time) WindowStatus {
	switch {
	case w == nil:
		return CheckInNotConfigured
	case now.Before(w.OpensAt):
		return CheckInNotOpen
	case now.Before(w.ClosesAt):
		return CheckInOpen
	default:
		return CheckInClosed
	}
}

// WindowsOf collects the resolver inputs from an event. The check-in pair
// comes from the already-resolved lobby window, so a half-configured window
// can never leak into the candidate list.
func WindowsOf(ev *models.Event) Windows {
	w := Windows{}
	if ev == nil {
		return w
	}
	w.RegistrationOpensAt = ev.RegistrationOpensAt
	w.RegistrationClosesAt = ev.RegistrationClosesAt
	w.StartsAt = ev.StartsAt
	if ev.CheckInWindow != nil {
		opens := ev.CheckInWindow.OpensAt
		closes := ev.CheckInWindow.ClosesAt
		w.CheckInOpensAt = &opens
		w.CheckInClosesAt = &closes
	}
	return w
}

// Display labels for a participant entry's own check-in state.
const (
	StateEliminated         = "Eliminated"
	StateCheckedIn          = "Checked In"
	StateRegistered         = "Registered"
	StatePendingApproval    = "Pending Approval"
	StatePaymentUnderReview = "Payment Under Review"
	StateUnderReview        = "Under Review"
)

// EntryStateLabel maps an entry plus its check-in record to the label shown
// in the lobby. Forfeiture wins over everything, then a confirmed check-in,
// then the registration status set by the intake service.
func EntryStateLabel(record *models.CheckInRecord, status models.EntryStatus) string {
	if record != nil && record.Forfeited {
		return StateEliminated
	}
	if record.IsCheckedIn() {
		return StateCheckedIn
	}
	switch status {
	case models.EntryStatusPendingApproval:
		return StatePendingApproval
	case models.EntryStatusPaymentReview:
		return StatePaymentUnderReview
	case models.EntryStatusUnderReview:
		return StateUnderReview
	default:
		return StateRegistered
	}
}
