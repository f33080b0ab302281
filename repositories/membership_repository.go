package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/event-hub/models"
)

var ErrMembershipNotFound = errors.New("team membership not found")

// MembershipRepository is the roster store. Rows are created and deleted by
// the teams service; the hub only reads active rows and writes the slot
// column. Methods taking an SQLExecutor participate in the caller's
// transaction when one is passed.
type MembershipRepository interface {
	FindActiveByID(ctx context.Context, exec SQLExecutor, id int) (*models.TeamMembership, error)
	FindActiveByTeamAndUser(ctx context.Context, exec SQLExecutor, teamID, userID int) (*models.TeamMembership, error)
	ListActiveByTeam(ctx context.Context, teamID int) ([]*models.TeamMembership, error)
	CountActiveBySlot(ctx context.Context, exec SQLExecutor, teamID int, slot models.RosterSlot) (int, error)
	CountActiveByTeam(ctx context.Context, teamID int) (int, error)
	UpdateSlot(ctx context.Context, exec SQLExecutor, id int, slot models.RosterSlot) error
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const membershipColumns = `id, team_id, user_id, role, slot, is_captain, left_at, created_at`

func (r *postgresMembershipRepository) scanMembership(rowScanner interface {
	Scan(dest ...interface{}) error
}, m *models.TeamMembership) error {
	return rowScanner.Scan(
		&m.ID,
		&m.TeamID,
		&m.UserID,
		&m.Role,
		&m.Slot,
		&m.IsCaptain,
		&m.LeftAt,
		&m.CreatedAt,
	)
}

func (r *postgresMembershipRepository) FindActiveByID(ctx context.Context, exec SQLExecutor, id int) (*models.TeamMembership, error) {
	query := `SELECT ` + membershipColumns + ` FROM team_memberships WHERE id = $1 AND left_at IS NULL`
	return r.findOne(ctx, exec, query, id)
}

func (r *postgresMembershipRepository) FindActiveByTeamAndUser(ctx context.Context, exec SQLExecutor, teamID, userID int) (*models.TeamMembership, error) {
	query := `SELECT ` + membershipColumns + ` FROM team_memberships WHERE team_id = $1 AND user_id = $2 AND left_at IS NULL`
	return r.findOne(ctx, exec, query, teamID, userID)
}

func (r *postgresMembershipRepository) findOne(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.TeamMembership, error) {
	m := &models.TeamMembership{}
	err := r.scanMembership(r.getExecutor(exec).QueryRowContext(ctx, query, args...), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find team membership: %w", err)
	}
	return m, nil
}

func (r *postgresMembershipRepository) ListActiveByTeam(ctx context.Context, teamID int) ([]*models.TeamMembership, error) {
	query := `
		SELECT m.id, m.team_id, m.user_id, m.role, m.slot, m.is_captain, m.left_at, m.created_at,
		       u.id, u.first_name, u.last_name, u.nickname, u.logo_key, u.created_at
		FROM team_memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1 AND m.left_at IS NULL
		ORDER BY m.is_captain DESC, m.slot NULLS LAST, m.created_at`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships for team %d: %w", teamID, err)
	}
	defer rows.Close()

	members := make([]*models.TeamMembership, 0)
	for rows.Next() {
		m := &models.TeamMembership{}
		u := &models.User{}
		if err := rows.Scan(
			&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.Slot, &m.IsCaptain, &m.LeftAt, &m.CreatedAt,
			&u.ID, &u.FirstName, &u.LastName, &u.Nickname, &u.LogoKey, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team membership: %w", err)
		}
		m.User = u
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *postgresMembershipRepository) CountActiveBySlot(ctx context.Context, exec SQLExecutor, teamID int, slot models.RosterSlot) (int, error) {
	query := `SELECT COUNT(*) FROM team_memberships WHERE team_id = $1 AND slot = $2 AND left_at IS NULL`
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx, query, teamID, slot).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s slots for team %d: %w", slot, teamID, err)
	}
	return count, nil
}

func (r *postgresMembershipRepository) CountActiveByTeam(ctx context.Context, teamID int) (int, error) {
	query := `SELECT COUNT(*) FROM team_memberships WHERE team_id = $1 AND left_at IS NULL`
	var count int
	err := r.db.QueryRowContext(ctx, query, teamID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members for team %d: %w", teamID, err)
	}
	return count, nil
}

func (r *postgresMembershipRepository) UpdateSlot(ctx context.Context, exec SQLExecutor, id int, slot models.RosterSlot) error {
	query := `UPDATE team_memberships SET slot = $1 WHERE id = $2 AND left_at IS NULL`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, slot, id)
	if err != nil {
		return fmt.Errorf("failed to update slot for membership %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMembershipNotFound)
}
