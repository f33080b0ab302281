package models

import "time"

type AnnouncementType string

const (
	AnnouncementInfo    AnnouncementType = "info"
	AnnouncementWarning AnnouncementType = "warning"
	AnnouncementDanger  AnnouncementType = "danger"
	AnnouncementSuccess AnnouncementType = "success"
)

// Announcement is authored by organizers elsewhere; the hub only lists the
// feed for display, pinned first, newest first.
type Announcement struct {
	ID        int              `json:"id" db:"id"`
	EventID   int              `json:"event_id" db:"event_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      AnnouncementType `json:"type" db:"type"`
	Pinned    bool             `json:"pinned" db:"pinned"`
	AuthorID  int              `json:"author_id" db:"author_id"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	Author *User `json:"author,omitempty" db:"-"`
}
