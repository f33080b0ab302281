package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Dosada05/event-hub/live"
	"github.com/Dosada05/event-hub/models"
	"github.com/Dosada05/event-hub/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotPtr(s models.RosterSlot) *models.RosterSlot { return &s }

type rosterFixture struct {
	svc         *RosterService
	teams       *fakeTeamRepo
	memberships *fakeMembershipRepo
	hub         *fakeBroadcaster
}

// newRosterFixture builds a team of one captain-starter plus the given extra
// members, with a max-starters limit of 5.
func newRosterFixture(t *testing.T, extra ...*models.TeamMembership) *rosterFixture {
	t.Helper()

	team := &models.Team{ID: 1, Name: "Night Owls", GameID: 7}
	limits := &models.GameRosterLimits{GameID: 7, MinStarters: 5, MaxStarters: 5, MaxSubstitutes: 3}

	captain := &models.TeamMembership{
		ID:        100,
		TeamID:    1,
		UserID:    100,
		Role:      models.RoleOwner,
		Slot:      slotPtr(models.SlotStarter),
		IsCaptain: true,
	}

	teams := newFakeTeamRepo(team, limits)
	memberships := newFakeMembershipRepo(append([]*models.TeamMembership{captain}, extra...)...)
	users := newFakeUserRepo(&models.User{ID: 100, FirstName: "Alex", LastName: "Petrov"})
	hub := &fakeBroadcaster{}

	svc := NewRosterService(nil, teams, memberships, users, storage.NoopUploader{}, hub, testLogger())
	return &rosterFixture{svc: svc, teams: teams, memberships: memberships, hub: hub}
}

func member(id int, slot models.RosterSlot) *models.TeamMembership {
	return &models.TeamMembership{
		ID:     id,
		TeamID: 1,
		UserID: id,
		Role:   models.RolePlayer,
		Slot:   slotPtr(slot),
	}
}

func TestRosterService_SwapPromotesSubstitute(t *testing.T) {
	f := newRosterFixture(t, member(2, models.SlotSubstitute))

	change, err := f.svc.SwapSlot(context.Background(), 1, 2, 100, models.SlotStarter)
	require.NoError(t, err)
	assert.Equal(t, models.SlotStarter, change.NewSlot)
	require.NotNil(t, change.OldSlot)
	assert.Equal(t, models.SlotSubstitute, *change.OldSlot)
	assert.Equal(t, "Alex Petrov", change.DisplayName)

	updated, err := f.memberships.FindActiveByID(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.True(t, updated.HasSlot(models.SlotStarter))

	require.Equal(t, 1, f.hub.count())
	assert.Equal(t, TeamRoomID(1), f.hub.messages[0].Room)
	assert.Equal(t, live.MessageRosterSlotChanged, f.hub.messages[0].Type)
}

func TestRosterService_NonCaptainCannotSwap(t *testing.T) {
	f := newRosterFixture(t,
		member(2, models.SlotStarter),
		member(3, models.SlotSubstitute),
	)

	// Member 2 is an ordinary starter, not a captain or manager.
	_, err := f.svc.SwapSlot(context.Background(), 1, 3, 2, models.SlotStarter)
	assert.ErrorIs(t, err, ErrOnlyCaptain)

	// A user with no membership at all gets the same answer.
	_, err = f.svc.SwapSlot(context.Background(), 1, 3, 999, models.SlotStarter)
	assert.ErrorIs(t, err, ErrOnlyCaptain)
}

func TestRosterService_ManagerRoleCanSwap(t *testing.T) {
	manager := &models.TeamMembership{ID: 5, TeamID: 1, UserID: 5, Role: models.RoleManager}
	f := newRosterFixture(t, manager, member(2, models.SlotSubstitute))

	_, err := f.svc.SwapSlot(context.Background(), 1, 2, 5, models.SlotStarter)
	assert.NoError(t, err)
}

func TestRosterService_LockedRosterRejectsSwap(t *testing.T) {
	f := newRosterFixture(t, member(2, models.SlotSubstitute))
	f.teams.teams[1].RosterLocked = true

	_, err := f.svc.SwapSlot(context.Background(), 1, 2, 100, models.SlotStarter)
	assert.ErrorIs(t, err, ErrRosterLocked)
}

func TestRosterService_BadSlotRejected(t *testing.T) {
	f := newRosterFixture(t, member(2, models.SlotSubstitute))

	for _, slot := range []models.RosterSlot{models.SlotCoach, "bench", ""} {
		_, err := f.svc.SwapSlot(context.Background(), 1, 2, 100, slot)
		assert.ErrorIs(t, err, ErrBadSlot, "slot %q", slot)
	}
}

func TestRosterService_CaptainSlotIsFixed(t *testing.T) {
	f := newRosterFixture(t)

	// The captain cannot demote themselves, whatever the target slot.
	for _, slot := range []models.RosterSlot{models.SlotSubstitute, models.SlotStarter} {
		_, err := f.svc.SwapSlot(context.Background(), 1, 100, 100, slot)
		assert.ErrorIs(t, err, ErrCannotMoveCaptain, "slot %q", slot)
	}
}

func TestRosterService_ForeignMembershipNotFound(t *testing.T) {
	f := newRosterFixture(t)
	stranger := &models.TeamMembership{ID: 50, TeamID: 2, UserID: 50, Role: models.RolePlayer, Slot: slotPtr(models.SlotSubstitute)}
	f.memberships.memberships[50] = stranger

	_, err := f.svc.SwapSlot(context.Background(), 1, 50, 100, models.SlotStarter)
	assert.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestRosterService_MaxStartersEnforced(t *testing.T) {
	// Captain plus four starters fills the limit of 5.
	f := newRosterFixture(t,
		member(2, models.SlotStarter),
		member(3, models.SlotStarter),
		member(4, models.SlotStarter),
		member(5, models.SlotStarter),
		member(6, models.SlotSubstitute),
	)

	_, err := f.svc.SwapSlot(context.Background(), 1, 6, 100, models.SlotStarter)
	assert.ErrorIs(t, err, ErrMaxStarters)

	// The reverse direction is always open: demote one starter, then the
	// promotion goes through.
	_, err = f.svc.SwapSlot(context.Background(), 1, 5, 100, models.SlotSubstitute)
	require.NoError(t, err)
	_, err = f.svc.SwapSlot(context.Background(), 1, 6, 100, models.SlotStarter)
	assert.NoError(t, err)
}

func TestRosterService_SameSlotSwapIsNoop(t *testing.T) {
	f := newRosterFixture(t, member(2, models.SlotSubstitute))

	change, err := f.svc.SwapSlot(context.Background(), 1, 2, 100, models.SlotSubstitute)
	require.NoError(t, err)
	assert.Equal(t, models.SlotSubstitute, change.NewSlot)

	updated, err := f.memberships.FindActiveByID(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.True(t, updated.HasSlot(models.SlotSubstitute))
}

func TestRosterService_PreconditionOrder(t *testing.T) {
	// With several violations at once the permission check must win: a locked
	// roster and a bad slot are both present, but a non-captain sees
	// ErrOnlyCaptain, never a hint about the roster state.
	f := newRosterFixture(t, member(2, models.SlotStarter))
	f.teams.teams[1].RosterLocked = true

	_, err := f.svc.SwapSlot(context.Background(), 1, 2, 2, "bench")
	assert.ErrorIs(t, err, ErrOnlyCaptain)

	// For the captain the lock now outranks the bad slot.
	_, err = f.svc.SwapSlot(context.Background(), 1, 2, 100, "bench")
	assert.ErrorIs(t, err, ErrRosterLocked)
}

func TestRosterService_ConcurrentPromotionsRespectLimit(t *testing.T) {
	// Captain plus two starters leaves room for exactly 2 more. Eight
	// substitutes race for promotion; exactly two must win.
	extra := []*models.TeamMembership{
		member(2, models.SlotStarter),
		member(3, models.SlotStarter),
	}
	subs := make([]int, 0, 8)
	for id := 10; id < 18; id++ {
		extra = append(extra, member(id, models.SlotSubstitute))
		subs = append(subs, id)
	}
	f := newRosterFixture(t, extra...)

	var wg sync.WaitGroup
	results := make(chan error, len(subs))
	for _, id := range subs {
		wg.Add(1)
		go func(membershipID int) {
			defer wg.Done()
			_, err := f.svc.SwapSlot(context.Background(), 1, membershipID, 100, models.SlotStarter)
			results <- err
		}(id)
	}
	wg.Wait()
	close(results)

	var promoted, rejected int
	for err := range results {
		switch {
		case err == nil:
			promoted++
		default:
			assert.ErrorIs(t, err, ErrMaxStarters)
			rejected++
		}
	}
	assert.Equal(t, 2, promoted)
	assert.Equal(t, 6, rejected)

	starters, err := f.memberships.CountActiveBySlot(context.Background(), nil, 1, models.SlotStarter)
	require.NoError(t, err)
	assert.Equal(t, 5, starters)
}

func TestRosterService_UnknownTeam(t *testing.T) {
	f := newRosterFixture(t)

	_, err := f.svc.SwapSlot(context.Background(), 42, 2, 100, models.SlotStarter)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}
