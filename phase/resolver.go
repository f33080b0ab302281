// Package phase derives the lobby's time-driven display state: the next
// milestone countdown and the check-in window status. Everything here is a
// pure function of the event's windows and a caller-supplied clock instant,
// so handlers can recompute it on every poll without caching.
package phase

import "time"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeveritySuccess Severity = "success"
)

// Event is the next relevant milestone shown to participants as a countdown.
// At is nil only for the terminal "In Progress" state.
type Event struct {
	Label    string     `json:"label"`
	At       *time.Time `json:"at,omitempty"`
	Severity Severity   `json:"severity"`
}

const (
	LabelRegistrationOpens  = "Registration Opens"
	LabelRegistrationCloses = "Registration Closes"
	LabelCheckInOpens       = "Check-In Opens"
	LabelCheckInCloses      = "Check-In Closes"
	LabelEventStarts        = "Event Starts"
	LabelInProgress         = "In Progress"
)

// Windows is the subset of event configuration the resolver reads. Absent
// milestones stay nil.
type Windows struct {
	RegistrationOpensAt  *time.Time
	RegistrationClosesAt *time.Time
	CheckInOpensAt       *time.Time
	CheckInClosesAt      *time.Time
	StartsAt             *time.Time
}

// Next returns the first milestone, in fixed precedence order, whose target
// time is still in the future. The precedence is deliberate: candidates are
// NOT sorted by time, so an imminent check-in close never hides behind a
// logically prior milestone and vice versa. Total: with nothing left in the
// future it reports the terminal In Progress state.
func Next(w Windows, now time.Time) Event {
	candidates := []struct {
		at       *time.Time
		label    string
		severity Severity
	}{
		{w.RegistrationOpensAt, LabelRegistrationOpens, SeverityInfo},
		{w.RegistrationClosesAt, LabelRegistrationCloses, SeverityWarning},
		{w.CheckInOpensAt, LabelCheckInOpens, SeverityInfo},
		{w.CheckInClosesAt, LabelCheckInCloses, SeverityDanger},
		{w.StartsAt, LabelEventStarts, SeverityInfo},
	}

	for _, c := range candidates {
		if c.at == nil {
			continue
		}
		if now.Before(*c.at) {
			at := *c.at
			return Event{Label: c.label, At: &at, Severity: c.severity}
		}
	}

	return Event{Label: LabelInProgress, Severity: SeveritySuccess}
}

// CountdownSeconds returns whole seconds until the milestone, never negative,
// and 0 for the terminal state.
func (e Event) CountdownSeconds(now time.Time) int64 {
	if e.At == nil {
		return 0
	}
	d := e.At.Sub(now)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
