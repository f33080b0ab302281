package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/event-hub/models"
	"github.com/Dosada05/event-hub/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type broadcastMsg struct {
	Room    string
	Type    string
	Payload interface{}
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []broadcastMsg
}

func (b *fakeBroadcaster) BroadcastToRoom(roomID string, messageType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, broadcastMsg{Room: roomID, Type: messageType, Payload: payload})
}

func (b *fakeBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}

// --- check-in records ---

type fakeCheckInRepo struct {
	mu      sync.Mutex
	nextID  int
	records map[int]*models.CheckInRecord
}

func newFakeCheckInRepo() *fakeCheckInRepo {
	return &fakeCheckInRepo{nextID: 1, records: make(map[int]*models.CheckInRecord)}
}

func (r *fakeCheckInRepo) FindByEventAndEntry(_ context.Context, eventID, entryID int) (*models.CheckInRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.EventID == eventID && rec.EntryID == entryID {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, repositories.ErrCheckInRecordNotFound
}

func (r *fakeCheckInRepo) Create(_ context.Context, record *models.CheckInRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.EventID == record.EventID && rec.EntryID == record.EntryID {
			return repositories.ErrCheckInRecordConflict
		}
	}
	record.ID = r.nextID
	record.CreatedAt = time.Now()
	r.nextID++
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeCheckInRepo) SetCheckedIn(_ context.Context, id int, at time.Time) (*models.CheckInRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrCheckInRecordNotFound
	}
	if rec.CheckedInAt == nil {
		stamped := at
		rec.CheckedInAt = &stamped
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeCheckInRepo) MarkForfeited(_ context.Context, eventID, entryID int) (*models.CheckInRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.EventID == eventID && rec.EntryID == entryID {
			rec.Forfeited = true
			copied := *rec
			return &copied, nil
		}
	}
	return nil, repositories.ErrCheckInRecordNotFound
}

func (r *fakeCheckInRepo) ListByEvent(_ context.Context, eventID int) ([]*models.CheckInRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.CheckInRecord, 0)
	for _, rec := range r.records {
		if rec.EventID == eventID {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out, nil
}

// --- memberships ---

type fakeMembershipRepo struct {
	mu          sync.Mutex
	memberships map[int]*models.TeamMembership
}

func newFakeMembershipRepo(memberships ...*models.TeamMembership) *fakeMembershipRepo {
	r := &fakeMembershipRepo{memberships: make(map[int]*models.TeamMembership)}
	for _, m := range memberships {
		copied := *m
		r.memberships[m.ID] = &copied
	}
	return r
}

func (r *fakeMembershipRepo) FindActiveByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.TeamMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberships[id]
	if !ok || !m.IsActive() {
		return nil, repositories.ErrMembershipNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMembershipRepo) FindActiveByTeamAndUser(_ context.Context, _ repositories.SQLExecutor, teamID, userID int) (*models.TeamMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memberships {
		if m.TeamID == teamID && m.UserID == userID && m.IsActive() {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMembershipNotFound
}

func (r *fakeMembershipRepo) ListActiveByTeam(_ context.Context, teamID int) ([]*models.TeamMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.TeamMembership, 0)
	for _, m := range r.memberships {
		if m.TeamID == teamID && m.IsActive() {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) CountActiveBySlot(_ context.Context, _ repositories.SQLExecutor, teamID int, slot models.RosterSlot) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.memberships {
		if m.TeamID == teamID && m.IsActive() && m.HasSlot(slot) {
			count++
		}
	}
	return count, nil
}

func (r *fakeMembershipRepo) CountActiveByTeam(_ context.Context, teamID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, m := range r.memberships {
		if m.TeamID == teamID && m.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *fakeMembershipRepo) UpdateSlot(_ context.Context, _ repositories.SQLExecutor, id int, slot models.RosterSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memberships[id]
	if !ok || !m.IsActive() {
		return repositories.ErrMembershipNotFound
	}
	updated := slot
	m.Slot = &updated
	return nil
}

// --- teams ---

type fakeTeamRepo struct {
	mu     sync.Mutex
	teams  map[int]*models.Team
	limits map[int]*models.GameRosterLimits
}

func newFakeTeamRepo(team *models.Team, limits *models.GameRosterLimits) *fakeTeamRepo {
	r := &fakeTeamRepo{teams: make(map[int]*models.Team), limits: make(map[int]*models.GameRosterLimits)}
	if team != nil {
		copied := *team
		r.teams[team.ID] = &copied
	}
	if limits != nil {
		copied := *limits
		r.limits[limits.GameID] = &copied
	}
	return r
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeamRepo) LockByID(ctx context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTeamRepo) GetRosterLimits(_ context.Context, gameID int) (*models.GameRosterLimits, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limits[gameID]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	copied := *l
	return &copied, nil
}

// --- users ---

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, u := range users {
		copied := *u
		r.users[u.ID] = &copied
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// --- events ---

type fakeEventRepo struct {
	events map[int]*models.Event
}

func newFakeEventRepo(events ...*models.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[int]*models.Event)}
	for _, ev := range events {
		copied := *ev
		r.events[ev.ID] = &copied
	}
	return r
}

func (r *fakeEventRepo) GetByID(_ context.Context, id int) (*models.Event, error) {
	ev, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	copied := *ev
	return &copied, nil
}

// --- entries ---

type fakeEntryRepo struct {
	entries     map[int]*models.Entry
	memberships *fakeMembershipRepo
}

func newFakeEntryRepo(memberships *fakeMembershipRepo, entries ...*models.Entry) *fakeEntryRepo {
	r := &fakeEntryRepo{entries: make(map[int]*models.Entry), memberships: memberships}
	for _, e := range entries {
		copied := *e
		r.entries[e.ID] = &copied
	}
	return r
}

func (r *fakeEntryRepo) FindByID(_ context.Context, id int) (*models.Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, repositories.ErrEntryNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEntryRepo) FindActiveForUser(ctx context.Context, eventID, userID int) (*models.Entry, error) {
	for _, e := range r.entries {
		if e.EventID != eventID {
			continue
		}
		if e.UserID != nil && *e.UserID == userID {
			copied := *e
			return &copied, nil
		}
		if e.TeamID != nil && r.memberships != nil {
			if _, err := r.memberships.FindActiveByTeamAndUser(ctx, nil, *e.TeamID, userID); err == nil {
				copied := *e
				return &copied, nil
			}
		}
	}
	return nil, repositories.ErrEntryNotFound
}

func (r *fakeEntryRepo) ListByEvent(_ context.Context, eventID int) ([]*models.Entry, error) {
	out := make([]*models.Entry, 0)
	for _, e := range r.entries {
		if e.EventID == eventID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) CountByEvent(_ context.Context, eventID int) (int, error) {
	count := 0
	for _, e := range r.entries {
		if e.EventID == eventID {
			count++
		}
	}
	return count, nil
}

// --- announcements ---

type fakeAnnouncementRepo struct {
	mu            sync.Mutex
	announcements []*models.Announcement
	listCalls     int
}

func (r *fakeAnnouncementRepo) ListByEvent(_ context.Context, eventID, limit int) ([]*models.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := make([]*models.Announcement, 0)
	for _, a := range r.announcements {
		if a.EventID == eventID && len(out) < limit {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}
