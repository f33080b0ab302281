package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/event-hub/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	GetByID(ctx context.Context, id int) (*models.Event, error)
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, slug, game_id, registration_opens_at, registration_closes_at,
       starts_at, ends_at, check_in_opens_at, check_in_closes_at, status, created_at`

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresEventRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Event, error) {
	ev := &models.Event{}
	var checkInOpens, checkInCloses *time.Time

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&ev.ID,
		&ev.Name,
		&ev.Slug,
		&ev.GameID,
		&ev.RegistrationOpensAt,
		&ev.RegistrationClosesAt,
		&ev.StartsAt,
		&ev.EndsAt,
		&checkInOpens,
		&checkInCloses,
		&ev.Status,
		&ev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	// Resolve the nullable column pair into a window exactly once. A row with
	// only one bound set counts as not configured.
	if checkInOpens != nil && checkInCloses != nil {
		ev.CheckInWindow = &models.CheckInWindow{OpensAt: *checkInOpens, ClosesAt: *checkInCloses}
	}
	return ev, nil
}
