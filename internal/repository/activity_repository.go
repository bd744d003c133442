package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Raymond9734/customer-dashboard/internal/models"
)

// ActivityRepository defines the interface for customer activity data access
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListByCustomer(ctx context.Context, licenseNumber string, limit int) ([]*models.Activity, error)
}

// activityRepository implements ActivityRepository using PostgreSQL
type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create inserts an activity row
func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO customer_activity (kind, license_number, service_history_id, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, recorded_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		activity.Kind,
		activity.LicenseNumber,
		nullable(activity.ServiceHistoryID),
		activity.Description,
		activity.OccurredAt,
	).Scan(&activity.ID, &activity.RecordedAt)

	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// ListByCustomer retrieves the most recent activity for a customer
func (r *activityRepository) ListByCustomer(ctx context.Context, licenseNumber string, limit int) ([]*models.Activity, error) {
	query := `
		SELECT id, kind, license_number, service_history_id, description, occurred_at, recorded_at
		FROM customer_activity
		WHERE license_number = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, licenseNumber, models.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	activities := []*models.Activity{}
	for rows.Next() {
		activity := &models.Activity{}
		var serviceHistoryID sql.NullString
		err := rows.Scan(
			&activity.ID,
			&activity.Kind,
			&activity.LicenseNumber,
			&serviceHistoryID,
			&activity.Description,
			&activity.OccurredAt,
			&activity.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activity.ServiceHistoryID = serviceHistoryID.String
		activities = append(activities, activity)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return activities, nil
}
