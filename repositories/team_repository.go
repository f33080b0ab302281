package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/event-hub/models"
)

var (
	ErrTeamNotFound = errors.New("team not found")
	ErrGameNotFound = errors.New("game not found")
)

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	// LockByID reads the team row FOR UPDATE inside the caller's transaction,
	// serializing roster swaps on the same team against each other.
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	GetRosterLimits(ctx context.Context, gameID int) (*models.GameRosterLimits, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, game_id, roster_locked, logo_key, created_at`

func (r *postgresTeamRepository) scanTeam(rowScanner interface {
	Scan(dest ...interface{}) error
}, t *models.Team) error {
	return rowScanner.Scan(
		&t.ID,
		&t.Name,
		&t.GameID,
		&t.RosterLocked,
		&t.LogoKey,
		&t.CreatedAt,
	)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	t := &models.Team{}
	if err := r.scanTeam(r.db.QueryRowContext(ctx, query, id), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := exec
	if executor == nil {
		executor = r.db
	}
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1 FOR UPDATE`
	t := &models.Team{}
	if err := r.scanTeam(executor.QueryRowContext(ctx, query, id), t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to lock team %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) GetRosterLimits(ctx context.Context, gameID int) (*models.GameRosterLimits, error) {
	query := `
		SELECT game_id, min_starters, max_starters, max_substitutes, max_coaches, max_analysts
		FROM game_roster_limits WHERE game_id = $1`

	limits := &models.GameRosterLimits{}
	err := r.db.QueryRowContext(ctx, query, gameID).Scan(
		&limits.GameID,
		&limits.MinStarters,
		&limits.MaxStarters,
		&limits.MaxSubstitutes,
		&limits.MaxCoaches,
		&limits.MaxAnalysts,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load roster limits for game %d: %w", gameID, err)
	}
	return limits, nil
}
