package models

import "time"

type MembershipRole string

const (
	RoleOwner      MembershipRole = "owner"
	RoleManager    MembershipRole = "manager"
	RolePlayer     MembershipRole = "player"
	RoleSubstitute MembershipRole = "substitute"
	RoleCoach      MembershipRole = "coach"
	RoleAnalyst    MembershipRole = "analyst"
)

// RosterSlot is a member's playing designation for the event. Non-playing
// roles (manager, analyst) keep a nil slot.
type RosterSlot string

const (
	SlotStarter    RosterSlot = "starter"
	SlotSubstitute RosterSlot = "substitute"
	SlotCoach      RosterSlot = "coach"
)

// TeamMembership строки принадлежат внешнему сервису команд: создание и
// удаление происходят там. Этот сервис пишет только поле slot.
type TeamMembership struct {
	ID        int            `json:"id" db:"id"`
	TeamID    int            `json:"team_id" db:"team_id"`
	UserID    int            `json:"user_id" db:"user_id"`
	Role      MembershipRole `json:"role" db:"role"`
	Slot      *RosterSlot    `json:"slot,omitempty" db:"slot"`
	IsCaptain bool           `json:"is_captain" db:"is_captain"`
	LeftAt    *time.Time     `json:"left_at,omitempty" db:"left_at"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}

func (m *TeamMembership) IsActive() bool {
	return m != nil && m.LeftAt == nil
}

// CanManageRoster is the single capability check used by every roster
// mutation: captains and owner/manager roles may move slots. Kept in one
// place so endpoints cannot drift apart on precedence rules.
func (m *TeamMembership) CanManageRoster() bool {
	if m == nil || !m.IsActive() {
		return false
	}
	return m.IsCaptain || m.Role == RoleOwner || m.Role == RoleManager
}

func (m *TeamMembership) HasSlot(slot RosterSlot) bool {
	return m != nil && m.Slot != nil && *m.Slot == slot
}
