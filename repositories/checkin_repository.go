package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/event-hub/models"
	"github.com/lib/pq"
)

var (
	ErrCheckInRecordNotFound = errors.New("check-in record not found")
	ErrCheckInRecordConflict = errors.New("check-in record already exists for this entry")
)

// CheckInRepository owns the check_in_records rows. SetCheckedIn only touches
// rows whose checked_in_at is still NULL, so the timestamp can never be
// overwritten; MarkForfeited only flips forfeited forward.
type CheckInRepository interface {
	FindByEventAndEntry(ctx context.Context, eventID, entryID int) (*models.CheckInRecord, error)
	Create(ctx context.Context, record *models.CheckInRecord) error
	SetCheckedIn(ctx context.Context, id int, at time.Time) (*models.CheckInRecord, error)
	MarkForfeited(ctx context.Context, eventID, entryID int) (*models.CheckInRecord, error)
	ListByEvent(ctx context.Context, eventID int) ([]*models.CheckInRecord, error)
}

type postgresCheckInRepository struct {
	db *sql.DB
}

func NewPostgresCheckInRepository(db *sql.DB) CheckInRepository {
	return &postgresCheckInRepository{db: db}
}

const checkInColumns = `id, event_id, entry_id, checked_in_at, forfeited, created_at`

func (r *postgresCheckInRepository) scanRecord(rowScanner interface {
	Scan(dest ...interface{}) error
}, rec *models.CheckInRecord) error {
	return rowScanner.Scan(
		&rec.ID,
		&rec.EventID,
		&rec.EntryID,
		&rec.CheckedInAt,
		&rec.Forfeited,
		&rec.CreatedAt,
	)
}

func (r *postgresCheckInRepository) FindByEventAndEntry(ctx context.Context, eventID, entryID int) (*models.CheckInRecord, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_in_records WHERE event_id = $1 AND entry_id = $2`
	rec := &models.CheckInRecord{}
	err := r.scanRecord(r.db.QueryRowContext(ctx, query, eventID, entryID), rec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckInRecordNotFound
		}
		return nil, fmt.Errorf("failed to find check-in record: %w", err)
	}
	return rec, nil
}

func (r *postgresCheckInRepository) Create(ctx context.Context, record *models.CheckInRecord) error {
	query := `
		INSERT INTO check_in_records (event_id, entry_id, checked_in_at, forfeited)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		record.EventID,
		record.EntryID,
		record.CheckedInAt,
		record.Forfeited,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return ErrCheckInRecordConflict
		}
		return fmt.Errorf("failed to create check-in record: %w", err)
	}
	return nil
}

// SetCheckedIn записывает отметку присутствия; повторный вызов не перепишет
// уже существующий timestamp.
func (r *postgresCheckInRepository) SetCheckedIn(ctx context.Context, id int, at time.Time) (*models.CheckInRecord, error) {
	query := `
		UPDATE check_in_records
		SET checked_in_at = $1
		WHERE id = $2 AND checked_in_at IS NULL
		RETURNING ` + checkInColumns

	rec := &models.CheckInRecord{}
	err := r.scanRecord(r.db.QueryRowContext(ctx, query, at, id), rec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the row is gone or a concurrent confirm won; re-read so
			// the caller can return the existing timestamp idempotently.
			return r.findByID(ctx, id)
		}
		return nil, fmt.Errorf("failed to set checked_in_at for record %d: %w", id, err)
	}
	return rec, nil
}

func (r *postgresCheckInRepository) MarkForfeited(ctx context.Context, eventID, entryID int) (*models.CheckInRecord, error) {
	query := `
		UPDATE check_in_records
		SET forfeited = TRUE
		WHERE event_id = $1 AND entry_id = $2
		RETURNING ` + checkInColumns

	rec := &models.CheckInRecord{}
	err := r.scanRecord(r.db.QueryRowContext(ctx, query, eventID, entryID), rec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckInRecordNotFound
		}
		return nil, fmt.Errorf("failed to mark record forfeited: %w", err)
	}
	return rec, nil
}

func (r *postgresCheckInRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.CheckInRecord, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_in_records WHERE event_id = $1`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-in records for event %d: %w", eventID, err)
	}
	defer rows.Close()

	records := make([]*models.CheckInRecord, 0)
	for rows.Next() {
		rec := &models.CheckInRecord{}
		if err := r.scanRecord(rows, rec); err != nil {
			return nil, fmt.Errorf("failed to scan check-in record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *postgresCheckInRepository) findByID(ctx context.Context, id int) (*models.CheckInRecord, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_in_records WHERE id = $1`
	rec := &models.CheckInRecord{}
	err := r.scanRecord(r.db.QueryRowContext(ctx, query, id), rec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckInRecordNotFound
		}
		return nil, fmt.Errorf("failed to find check-in record %d: %w", id, err)
	}
	return rec, nil
}
