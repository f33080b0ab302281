package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/event-hub/cache"
	"github.com/Dosada05/event-hub/models"
	"github.com/Dosada05/event-hub/phase"
	"github.com/Dosada05/event-hub/repositories"
	"github.com/Dosada05/event-hub/storage"
	"golang.org/x/sync/errgroup"
)

const (
	announcementFeedLimit = 20
	announcementCacheTTL  = 15 * time.Second
)

// Snapshot is the poll-able lobby state for one participant entry. Phase and
// check-in status are recomputed from the clock on every call; nothing in the
// snapshot is served from a cached state machine.
type Snapshot struct {
	EntryID                 int                `json:"entry_id"`
	EventID                 int                `json:"event_id"`
	EventStatus             models.EventStatus `json:"event_status"`
	PhaseEvent              phase.Event        `json:"phase_event"`
	PhaseCountdownSeconds   int64              `json:"phase_countdown_seconds"`
	CheckInStatus           phase.WindowStatus `json:"check_in_status"`
	CheckInCountdownSeconds int64              `json:"check_in_countdown_seconds"`
	EntryState              string             `json:"entry_state"`
	CheckedInAt             *time.Time         `json:"checked_in_at,omitempty"`
	// EntryCount is the event-wide number of entries; RosterCount is the
	// caller's own team size, zero for solo entries.
	EntryCount  int `json:"entry_count"`
	RosterCount int `json:"roster_count"`
}

// RosterEntryView is one row of the event roster: an entry plus its live
// check-in flags.
type RosterEntryView struct {
	EntryID     int              `json:"entry_id"`
	Kind        models.EntryKind `json:"kind"`
	DisplayName string           `json:"display_name"`
	LogoURL     *string          `json:"logo_url,omitempty"`
	CheckedIn   bool             `json:"checked_in"`
	Forfeited   bool             `json:"forfeited"`
	State       string           `json:"state"`
}

// AnnouncementView carries the feed item plus the relative age label computed
// at read time.
type AnnouncementView struct {
	ID        int                     `json:"id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.AnnouncementType `json:"type"`
	Pinned    bool                    `json:"pinned"`
	Author    string                  `json:"author"`
	CreatedAt time.Time               `json:"created_at"`
	TimeAgo   string                  `json:"time_ago"`
}

// HubService собирает живое состояние лобби для опрашивающих клиентов и
// оборачивает мутации так, чтобы ответ сразу содержал новое состояние.
type HubService struct {
	eventRepo        repositories.EventRepository
	entryRepo        repositories.EntryRepository
	teamRepo         repositories.TeamRepository
	membershipRepo   repositories.MembershipRepository
	userRepo         repositories.UserRepository
	announcementRepo repositories.AnnouncementRepository
	checkInService   *CheckInService
	feedCache        cache.Cache
	uploader         storage.FileUploader
	logger           *slog.Logger
	now              func() time.Time
}

func NewHubService(
	eventRepo repositories.EventRepository,
	entryRepo repositories.EntryRepository,
	teamRepo repositories.TeamRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	announcementRepo repositories.AnnouncementRepository,
	checkInService *CheckInService,
	feedCache cache.Cache,
	uploader storage.FileUploader,
	logger *slog.Logger,
) *HubService {
	return &HubService{
		eventRepo:        eventRepo,
		entryRepo:        entryRepo,
		teamRepo:         teamRepo,
		membershipRepo:   membershipRepo,
		userRepo:         userRepo,
		announcementRepo: announcementRepo,
		checkInService:   checkInService,
		feedCache:        feedCache,
		uploader:         uploader,
		logger:           logger,
		now:              time.Now,
	}
}

// GetSnapshot recomputes the lobby state for the entry at this instant.
// The caller must own the entry (solo) or hold an active membership on its
// team, otherwise ErrNotMember.
func (s *HubService) GetSnapshot(ctx context.Context, entryID, callerID int) (*Snapshot, error) {
	entry, err := s.authorizedEntry(ctx, entryID, callerID)
	if err != nil {
		return nil, err
	}
	return s.buildSnapshot(ctx, entry)
}

// ConfirmCheckIn wraps CheckInService.Confirm and returns the fresh snapshot
// inline so the client's next poll is unnecessary for immediate feedback.
func (s *HubService) ConfirmCheckIn(ctx context.Context, entryID, callerID int) (*Snapshot, error) {
	entry, err := s.authorizedEntry(ctx, entryID, callerID)
	if err != nil {
		return nil, err
	}

	event, err := s.loadEvent(ctx, entry.EventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.checkInService.Confirm(ctx, event, entry); err != nil {
		return nil, err
	}
	return s.buildSnapshot(ctx, entry)
}

// GetEventRoster returns every entry of the event with live check-in flags.
// Visible only to participants: the caller must hold an entry in the event.
func (s *HubService) GetEventRoster(ctx context.Context, eventID, callerID int) ([]RosterEntryView, error) {
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.requireEventMembership(ctx, eventID, callerID); err != nil {
		return nil, err
	}

	var (
		entries []*models.Entry
		records []*models.CheckInRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.ListByEvent(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.checkInService.checkInRepo.ListByEvent(gctx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load event roster: %w", err)
	}

	recordsByEntry := make(map[int]*models.CheckInRecord, len(records))
	for _, rec := range records {
		recordsByEntry[rec.EntryID] = rec
	}

	views := make([]RosterEntryView, 0, len(entries))
	for _, entry := range entries {
		record := recordsByEntry[entry.ID]
		view := RosterEntryView{
			EntryID:   entry.ID,
			Kind:      entry.Kind,
			CheckedIn: record.IsCheckedIn(),
			Forfeited: record != nil && record.Forfeited,
			State:     phase.EntryStateLabel(record, entry.Status),
		}
		view.DisplayName, view.LogoURL = s.entryDisplay(ctx, entry)
		views = append(views, view)
	}
	return views, nil
}

// GetTeamRoster returns the team's active members with display data. Only
// active members of the team may look.
func (s *HubService) GetTeamRoster(ctx context.Context, teamID, callerID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team %d: %w", teamID, err)
	}

	if _, err := s.membershipRepo.FindActiveByTeamAndUser(ctx, nil, teamID, callerID); err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("failed to check membership for team %d: %w", teamID, err)
	}
	populateTeamLogoURL(team, s.uploader)

	members, err := s.membershipRepo.ListActiveByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for team %d: %w", teamID, err)
	}
	team.Members = make([]models.TeamMembership, 0, len(members))
	for _, m := range members {
		populateUserLogoURL(m.User, s.uploader)
		team.Members = append(team.Members, *m)
	}
	return team, nil
}

// ListAnnouncements returns the display feed, at most 20 items, pinned first
// then newest first, visible only to participants of the event. The raw feed
// goes through the short-TTL cache port; the time-ago labels are always
// computed at read time.
func (s *HubService) ListAnnouncements(ctx context.Context, eventID, callerID int) ([]AnnouncementView, error) {
	if _, err := s.loadEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.requireEventMembership(ctx, eventID, callerID); err != nil {
		return nil, err
	}

	announcements, err := s.cachedAnnouncements(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]AnnouncementView, 0, len(announcements))
	for _, a := range announcements {
		view := AnnouncementView{
			ID:        a.ID,
			Title:     a.Title,
			Message:   a.Message,
			Type:      a.Type,
			Pinned:    a.Pinned,
			CreatedAt: a.CreatedAt,
			TimeAgo:   timeAgoLabel(a.CreatedAt, now),
		}
		if a.Author != nil {
			view.Author = a.Author.DisplayName()
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *HubService) cachedAnnouncements(ctx context.Context, eventID int) ([]*models.Announcement, error) {
	key := fmt.Sprintf("announcements:event:%d", eventID)

	if s.feedCache != nil {
		if raw, err := s.feedCache.Get(ctx, key); err == nil {
			var cached []*models.Announcement
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
			// Corrupt payload: fall through to the repository.
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "announcement cache read failed",
				slog.Int("event_id", eventID), slog.Any("error", err))
		}
	}

	announcements, err := s.announcementRepo.ListByEvent(ctx, eventID, announcementFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	if s.feedCache != nil {
		if raw, err := json.Marshal(announcements); err == nil {
			if err := s.feedCache.Set(ctx, key, raw, announcementCacheTTL); err != nil {
				s.logger.WarnContext(ctx, "announcement cache write failed",
					slog.Int("event_id", eventID), slog.Any("error", err))
			}
		}
	}
	return announcements, nil
}

func (s *HubService) buildSnapshot(ctx context.Context, entry *models.Entry) (*Snapshot, error) {
	var (
		event   *models.Event
		record  *models.CheckInRecord
		roster  int
		entries int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = s.loadEvent(gctx, entry.EventID)
		return err
	})
	g.Go(func() error {
		var err error
		record, err = s.checkInService.Record(gctx, entry.EventID, entry.ID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.CountByEvent(gctx, entry.EventID)
		return err
	})
	if entry.TeamID != nil {
		teamID := *entry.TeamID
		g.Go(func() error {
			var err error
			roster, err = s.membershipRepo.CountActiveByTeam(gctx, teamID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	phaseEvent := phase.Next(phase.WindowsOf(event), now)
	windowStatus := phase.CheckInStatus(event.CheckInWindow, now)

	snapshot := &Snapshot{
		EntryID:                 entry.ID,
		EventID:                 event.ID,
		EventStatus:             event.Status,
		PhaseEvent:              phaseEvent,
		PhaseCountdownSeconds:   phaseEvent.CountdownSeconds(now),
		CheckInStatus:           windowStatus,
		CheckInCountdownSeconds: checkInCountdown(event.CheckInWindow, windowStatus, now),
		EntryState:              phase.EntryStateLabel(record, entry.Status),
		EntryCount:              entries,
		RosterCount:             roster,
	}
	if record != nil {
		snapshot.CheckedInAt = record.CheckedInAt
	}
	return snapshot, nil
}

// checkInCountdown is the number of seconds until the window's next boundary:
// its opening while pending, its closing while open, zero otherwise.
func checkInCountdown(w *models.CheckInWindow, status phase.WindowStatus, now time.Time) int64 {
	switch status {
	case phase.CheckInNotOpen:
		return int64(w.OpensAt.Sub(now) / time.Second)
	case phase.CheckInOpen:
		return int64(w.ClosesAt.Sub(now) / time.Second)
	default:
		return 0
	}
}

// requireEventMembership rejects callers with no stake in the event: to read
// event-wide data they must own a solo entry or actively belong to a team
// entry's team.
func (s *HubService) requireEventMembership(ctx context.Context, eventID, callerID int) error {
	if _, err := s.entryRepo.FindActiveForUser(ctx, eventID, callerID); err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return ErrNotMember
		}
		return fmt.Errorf("failed to check event membership: %w", err)
	}
	return nil
}

func (s *HubService) authorizedEntry(ctx context.Context, entryID, callerID int) (*models.Entry, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to load entry %d: %w", entryID, err)
	}

	switch {
	case entry.UserID != nil:
		if *entry.UserID != callerID {
			return nil, ErrNotMember
		}
	case entry.TeamID != nil:
		if _, err := s.membershipRepo.FindActiveByTeamAndUser(ctx, nil, *entry.TeamID, callerID); err != nil {
			if errors.Is(err, repositories.ErrMembershipNotFound) {
				return nil, ErrNotMember
			}
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
	default:
		return nil, ErrNotMember
	}
	return entry, nil
}

func (s *HubService) loadEvent(ctx context.Context, eventID int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}
	return event, nil
}

func (s *HubService) entryDisplay(ctx context.Context, entry *models.Entry) (string, *string) {
	if entry.UserID != nil {
		user, err := s.userRepo.GetByID(ctx, *entry.UserID)
		if err != nil {
			return fmt.Sprintf("Entry %d", entry.ID), nil
		}
		populateUserLogoURL(user, s.uploader)
		return user.DisplayName(), user.LogoURL
	}
	if entry.TeamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *entry.TeamID)
		if err != nil {
			return fmt.Sprintf("Entry %d", entry.ID), nil
		}
		populateTeamLogoURL(team, s.uploader)
		return team.Name, team.LogoURL
	}
	return fmt.Sprintf("Entry %d", entry.ID), nil
}
