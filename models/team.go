package models

import "time"

// Team membership administration lives in the teams service; the hub reads
// the row mainly for the name, the logo and the roster lock flag.
type Team struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	GameID       int       `json:"game_id" db:"game_id"`
	RosterLocked bool      `json:"roster_locked" db:"roster_locked"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Members []TeamMembership `json:"members,omitempty" db:"-"`
}
