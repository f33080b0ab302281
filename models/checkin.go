package models

import "time"

// CheckInRecord is one row per (event, entry). CheckedInAt is set at most once
// and never cleared; Forfeited only ever flips from false to true.
type CheckInRecord struct {
	ID          int        `json:"id" db:"id"`
	EventID     int        `json:"event_id" db:"event_id"`
	EntryID     int        `json:"entry_id" db:"entry_id"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty" db:"checked_in_at"`
	Forfeited   bool       `json:"forfeited" db:"forfeited"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func (r *CheckInRecord) IsCheckedIn() bool {
	return r != nil && r.CheckedInAt != nil
}
