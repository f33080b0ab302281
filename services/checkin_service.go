package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Dosada05/event-hub/live"
	"github.com/Dosada05/event-hub/models"
	"github.com/Dosada05/event-hub/phase"
	"github.com/Dosada05/event-hub/repositories"
)

// Broadcaster pushes lobby updates to live subscribers. Implemented by
// *live.Hub; tests substitute a recorder.
type Broadcaster interface {
	BroadcastToRoom(roomID string, messageType string, payload interface{})
}

// EventRoomID is the live hub room for one event's lobby.
func EventRoomID(eventID int) string {
	return "event_" + strconv.Itoa(eventID)
}

// TeamRoomID is the live hub room for one team's roster view.
func TeamRoomID(teamID int) string {
	return "team_" + strconv.Itoa(teamID)
}

// CheckInService управляет записями чек-ина. Глобальное состояние окна всегда
// выводится из часов на момент вызова, никакого кэша состояния нет.
type CheckInService struct {
	checkInRepo repositories.CheckInRepository
	hub         Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

func NewCheckInService(
	checkInRepo repositories.CheckInRepository,
	hub Broadcaster,
	logger *slog.Logger,
) *CheckInService {
	return &CheckInService{
		checkInRepo: checkInRepo,
		hub:         hub,
		logger:      logger,
		now:         time.Now,
	}
}

// Status derives the global window state for the event at this instant.
func (s *CheckInService) Status(event *models.Event) phase.WindowStatus {
	var window *models.CheckInWindow
	if event != nil {
		window = event.CheckInWindow
	}
	return phase.CheckInStatus(window, s.now())
}

// Record returns the entry's check-in record, or nil when none exists yet.
// Records are created lazily on the first confirm attempt, so a missing row
// simply means "not checked in".
func (s *CheckInService) Record(ctx context.Context, eventID, entryID int) (*models.CheckInRecord, error) {
	record, err := s.checkInRepo.FindByEventAndEntry(ctx, eventID, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCheckInRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load check-in record: %w", err)
	}
	return record, nil
}

// Confirm sets checked_in_at for the entry. Elimination outranks everything:
// a forfeited entry can never confirm again, even if it had checked in before
// being eliminated. Otherwise idempotent: confirming an already confirmed
// entry returns the existing record unchanged, so clients can retry a dropped
// response without harm. Fails with ErrCheckInNotOpen outside the window.
func (s *CheckInService) Confirm(ctx context.Context, event *models.Event, entry *models.Entry) (*models.CheckInRecord, error) {
	if event == nil || entry == nil {
		return nil, ErrEntryNotFound
	}

	record, err := s.ensureRecord(ctx, event.ID, entry.ID)
	if err != nil {
		return nil, err
	}

	if record.Forfeited {
		return nil, ErrAlreadyForfeited
	}
	if record.IsCheckedIn() {
		return record, nil
	}
	if s.Status(event) != phase.CheckInOpen {
		return nil, ErrCheckInNotOpen
	}

	updated, err := s.checkInRepo.SetCheckedIn(ctx, record.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to confirm check-in for entry %d: %w", entry.ID, err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(EventRoomID(event.ID), live.MessageCheckInConfirmed, updated)
	}
	s.logger.InfoContext(ctx, "entry checked in",
		slog.Int("event_id", event.ID),
		slog.Int("entry_id", entry.ID))
	return updated, nil
}

// MarkForfeited flips the entry to eliminated. Irreversible; called by the
// bracket/elimination tooling, never by participants.
func (s *CheckInService) MarkForfeited(ctx context.Context, eventID, entryID int) (*models.CheckInRecord, error) {
	if _, err := s.ensureRecord(ctx, eventID, entryID); err != nil {
		return nil, err
	}
	record, err := s.checkInRepo.MarkForfeited(ctx, eventID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to forfeit entry %d: %w", entryID, err)
	}
	s.logger.InfoContext(ctx, "entry forfeited",
		slog.Int("event_id", eventID),
		slog.Int("entry_id", entryID))
	return record, nil
}

func (s *CheckInService) ensureRecord(ctx context.Context, eventID, entryID int) (*models.CheckInRecord, error) {
	record, err := s.Record(ctx, eventID, entryID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	record = &models.CheckInRecord{EventID: eventID, EntryID: entryID}
	if err := s.checkInRepo.Create(ctx, record); err != nil {
		if errors.Is(err, repositories.ErrCheckInRecordConflict) {
			// Lost a create race with a concurrent attempt; use theirs.
			return s.checkInRepo.FindByEventAndEntry(ctx, eventID, entryID)
		}
		return nil, fmt.Errorf("failed to create check-in record: %w", err)
	}
	return record, nil
}
