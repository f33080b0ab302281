package models

import "time"

type EntryKind string

const (
	EntryKindSolo EntryKind = "solo"
	EntryKindTeam EntryKind = "team"
)

// EntryStatus отражает состояние заявки, выставляемое внешним сервисом
// регистрации. Здесь статусы только читаются для отображения.
type EntryStatus string

const (
	EntryStatusRegistered      EntryStatus = "registered"
	EntryStatusPendingApproval EntryStatus = "pending_approval"
	EntryStatusPaymentReview   EntryStatus = "payment_review"
	EntryStatusUnderReview     EntryStatus = "under_review"
)

// Entry is one confirmed registration for one event, either a solo user or a
// team. Exactly one of UserID / TeamID is set (CHECK constraint in the DB).
// Created and deleted by the registration service, read-only here.
type Entry struct {
	ID        int         `json:"id" db:"id"`
	EventID   int         `json:"event_id" db:"event_id"`
	Kind      EntryKind   `json:"kind" db:"kind"`
	UserID    *int        `json:"user_id,omitempty" db:"user_id"`
	TeamID    *int        `json:"team_id,omitempty" db:"team_id"`
	Status    EntryStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`

	Event *Event `json:"event,omitempty" db:"-"`
	User  *User  `json:"user,omitempty" db:"-"`
	Team  *Team  `json:"team,omitempty" db:"-"`
}
