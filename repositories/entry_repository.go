package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/event-hub/models"
)

var ErrEntryNotFound = errors.New("participant entry not found")

// EntryRepository is read-only: entries are created and deleted by the
// registration intake service.
type EntryRepository interface {
	FindByID(ctx context.Context, id int) (*models.Entry, error)
	// FindActiveForUser returns the user's own entry in the event: a solo
	// entry they registered, or a team entry whose team they actively belong
	// to. ErrEntryNotFound when the user has no stake in the event.
	FindActiveForUser(ctx context.Context, eventID, userID int) (*models.Entry, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.Entry, error)
	CountByEvent(ctx context.Context, eventID int) (int, error)
}

type postgresEntryRepository struct {
	db *sql.DB
}

func NewPostgresEntryRepository(db *sql.DB) EntryRepository {
	return &postgresEntryRepository{db: db}
}

const entryColumns = `id, event_id, kind, user_id, team_id, status, created_at`

func (r *postgresEntryRepository) scanEntry(rowScanner interface {
	Scan(dest ...interface{}) error
}, e *models.Entry) error {
	return rowScanner.Scan(
		&e.ID,
		&e.EventID,
		&e.Kind,
		&e.UserID,
		&e.TeamID,
		&e.Status,
		&e.CreatedAt,
	)
}

func (r *postgresEntryRepository) FindByID(ctx context.Context, id int) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	e := &models.Entry{}
	err := r.scanEntry(r.db.QueryRowContext(ctx, query, id), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find entry %d: %w", id, err)
	}
	return e, nil
}

func (r *postgresEntryRepository) FindActiveForUser(ctx context.Context, eventID, userID int) (*models.Entry, error) {
	query := `
		SELECT e.id, e.event_id, e.kind, e.user_id, e.team_id, e.status, e.created_at
		FROM entries e
		LEFT JOIN team_memberships m
			ON m.team_id = e.team_id AND m.user_id = $2 AND m.left_at IS NULL
		WHERE e.event_id = $1 AND (e.user_id = $2 OR m.id IS NOT NULL)
		LIMIT 1`

	e := &models.Entry{}
	err := r.scanEntry(r.db.QueryRowContext(ctx, query, eventID, userID), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find entry for user %d in event %d: %w", userID, eventID, err)
	}
	return e, nil
}

func (r *postgresEntryRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE event_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for event %d: %w", eventID, err)
	}
	defer rows.Close()

	entries := make([]*models.Entry, 0)
	for rows.Next() {
		e := &models.Entry{}
		if err := r.scanEntry(rows, e); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresEntryRepository) CountByEvent(ctx context.Context, eventID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries for event %d: %w", eventID, err)
	}
	return count, nil
}
