package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/event-hub/models"
)

type AnnouncementRepository interface {
	ListByEvent(ctx context.Context, eventID, limit int) ([]*models.Announcement, error)
}

type postgresAnnouncementRepository struct {
	db *sql.DB
}

func NewPostgresAnnouncementRepository(db *sql.DB) AnnouncementRepository {
	return &postgresAnnouncementRepository{db: db}
}

// ListByEvent returns the display feed: pinned announcements first, newest
// first inside each group.
func (r *postgresAnnouncementRepository) ListByEvent(ctx context.Context, eventID, limit int) ([]*models.Announcement, error) {
	query := `
		SELECT a.id, a.event_id, a.title, a.message, a.type, a.pinned, a.author_id, a.created_at,
		       u.id, u.first_name, u.last_name, u.nickname, u.logo_key, u.created_at
		FROM announcements a
		JOIN users u ON u.id = a.author_id
		WHERE a.event_id = $1
		ORDER BY a.pinned DESC, a.created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements for event %d: %w", eventID, err)
	}
	defer rows.Close()

	announcements := make([]*models.Announcement, 0)
	for rows.Next() {
		a := &models.Announcement{}
		u := &models.User{}
		if err := rows.Scan(
			&a.ID, &a.EventID, &a.Title, &a.Message, &a.Type, &a.Pinned, &a.AuthorID, &a.CreatedAt,
			&u.ID, &u.FirstName, &u.LastName, &u.Nickname, &u.LogoKey, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		a.Author = u
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}
