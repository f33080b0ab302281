package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/event-hub/live"
	"github.com/Dosada05/event-hub/models"
	"github.com/Dosada05/event-hub/repositories"
	"github.com/Dosada05/event-hub/storage"
)

// SlotChange is returned to the caller so the client can render the diff
// without another poll.
type SlotChange struct {
	Membership  *models.TeamMembership `json:"membership"`
	OldSlot     *models.RosterSlot     `json:"old_slot,omitempty"`
	NewSlot     models.RosterSlot      `json:"new_slot"`
	DisplayName string                 `json:"display_name"`
}

// RosterService validates and applies starter/substitute swaps. Swaps on the
// same team are serialized twice over: a per-team mutex inside the process
// and a FOR UPDATE lock on the team row inside the transaction, so two
// concurrent promotions can never both pass the starter-count check.
// Swaps on different teams never contend.
type RosterService struct {
	db             *sql.DB
	teamRepo       repositories.TeamRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	uploader       storage.FileUploader
	hub            Broadcaster
	logger         *slog.Logger

	mu        sync.Mutex
	teamLocks map[int]*sync.Mutex
}

func NewRosterService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	hub Broadcaster,
	logger *slog.Logger,
) *RosterService {
	return &RosterService{
		db:             db,
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		uploader:       uploader,
		hub:            hub,
		logger:         logger,
		teamLocks:      make(map[int]*sync.Mutex),
	}
}

func (s *RosterService) lockTeam(teamID int) *sync.Mutex {
	s.mu.Lock()
	lock, ok := s.teamLocks[teamID]
	if !ok {
		lock = &sync.Mutex{}
		s.teamLocks[teamID] = lock
	}
	s.mu.Unlock()
	return lock
}

// SwapSlot moves a membership between starter and substitute. Preconditions
// are checked in a fixed order, first failure wins, and no partial state
// change ever happens.
func (s *RosterService) SwapSlot(ctx context.Context, teamID, membershipID, requestedBy int, newSlot models.RosterSlot) (*SlotChange, error) {
	lock := s.lockTeam(teamID)
	lock.Lock()
	defer lock.Unlock()

	var exec repositories.SQLExecutor
	var tx *sql.Tx
	if s.db != nil {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to begin roster swap transaction: %w", err)
		}
		defer tx.Rollback()
		exec = tx
	}

	change, err := s.swapSlotLocked(ctx, exec, teamID, membershipID, requestedBy, newSlot)
	if err != nil {
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit roster swap: %w", err)
		}
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(TeamRoomID(teamID), live.MessageRosterSlotChanged, change)
	}
	s.logger.InfoContext(ctx, "roster slot changed",
		slog.Int("team_id", teamID),
		slog.Int("membership_id", membershipID),
		slog.String("new_slot", string(newSlot)))
	return change, nil
}

func (s *RosterService) swapSlotLocked(ctx context.Context, exec repositories.SQLExecutor, teamID, membershipID, requestedBy int, newSlot models.RosterSlot) (*SlotChange, error) {
	// The FOR UPDATE read keeps concurrent swaps on this team strictly
	// ordered across processes.
	team, err := s.teamRepo.LockByID(ctx, exec, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to lock team %d: %w", teamID, err)
	}

	requester, err := s.membershipRepo.FindActiveByTeamAndUser(ctx, exec, teamID, requestedBy)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, ErrOnlyCaptain
		}
		return nil, fmt.Errorf("failed to load requester membership: %w", err)
	}
	if !requester.CanManageRoster() {
		return nil, ErrOnlyCaptain
	}

	if team.RosterLocked {
		return nil, ErrRosterLocked
	}

	if newSlot != models.SlotStarter && newSlot != models.SlotSubstitute {
		return nil, ErrBadSlot
	}

	target, err := s.membershipRepo.FindActiveByID(ctx, exec, membershipID)
	if err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to load target membership %d: %w", membershipID, err)
	}
	if target.TeamID != teamID {
		return nil, ErrMembershipNotFound
	}

	// Captaincy transfer is a separate operation owned by the teams service;
	// the captain's slot is fixed here.
	if target.IsCaptain {
		return nil, ErrCannotMoveCaptain
	}

	oldSlot := target.Slot

	// A swap into the slot the member already holds is a no-op success, which
	// keeps client retries of a dropped response safe.
	if !target.HasSlot(newSlot) {
		if newSlot == models.SlotStarter {
			limits, err := s.teamRepo.GetRosterLimits(ctx, team.GameID)
			if err != nil {
				return nil, fmt.Errorf("failed to load roster limits: %w", err)
			}
			starters, err := s.membershipRepo.CountActiveBySlot(ctx, exec, teamID, models.SlotStarter)
			if err != nil {
				return nil, fmt.Errorf("failed to count starters: %w", err)
			}
			if starters >= limits.MaxStarters {
				return nil, ErrMaxStarters
			}
		}

		if err := s.membershipRepo.UpdateSlot(ctx, exec, membershipID, newSlot); err != nil {
			if errors.Is(err, repositories.ErrMembershipNotFound) {
				return nil, ErrMembershipNotFound
			}
			return nil, fmt.Errorf("failed to update slot: %w", err)
		}
	}

	updated := *target
	slot := newSlot
	updated.Slot = &slot

	displayName := s.actorDisplayName(ctx, requester)

	return &SlotChange{
		Membership:  &updated,
		OldSlot:     oldSlot,
		NewSlot:     newSlot,
		DisplayName: displayName,
	}, nil
}

func (s *RosterService) actorDisplayName(ctx context.Context, requester *models.TeamMembership) string {
	user, err := s.userRepo.GetByID(ctx, requester.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load actor for display name",
			slog.Int("user_id", requester.UserID), slog.Any("error", err))
		return fmt.Sprintf("Member %d", requester.ID)
	}
	populateUserLogoURL(user, s.uploader)
	return user.DisplayName()
}
