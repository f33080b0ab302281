package models

import "time"

// EventStatus представляет статусы события, соответствующие ENUM в БД.
type EventStatus string

const (
	EventStatusSoon         EventStatus = "soon"
	EventStatusRegistration EventStatus = "registration"
	EventStatusLive         EventStatus = "live"
	EventStatusCompleted    EventStatus = "completed"
	EventStatusCanceled     EventStatus = "canceled"
)

// CheckInWindow is the optional check-in interval from the event's lobby
// configuration. A nil *CheckInWindow means check-in is not configured at all;
// a non-nil window always has both bounds set. The repository resolves the
// nullable column pair into this type once, so nothing downstream re-probes
// half-configured windows.
type CheckInWindow struct {
	OpensAt  time.Time `json:"opens_at"`
	ClosesAt time.Time `json:"closes_at"`
}

// Event описывает одно соревнование. Owned by the organizer tooling;
// this service only reads it.
type Event struct {
	ID                   int         `json:"id" db:"id"`
	Name                 string      `json:"name" db:"name"`
	Slug                 string      `json:"slug" db:"slug"`
	GameID               int         `json:"game_id" db:"game_id"`
	RegistrationOpensAt  *time.Time  `json:"registration_opens_at,omitempty" db:"registration_opens_at"`
	RegistrationClosesAt *time.Time  `json:"registration_closes_at,omitempty" db:"registration_closes_at"`
	StartsAt             *time.Time  `json:"starts_at,omitempty" db:"starts_at"`
	EndsAt               *time.Time  `json:"ends_at,omitempty" db:"ends_at"`
	Status               EventStatus `json:"status" db:"status"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`

	// Resolved from check_in_opens_at / check_in_closes_at, nil unless both set.
	CheckInWindow *CheckInWindow `json:"check_in_window,omitempty" db:"-"`
}
