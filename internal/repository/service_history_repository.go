package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Raymond9734/customer-dashboard/internal/models"
)

// ServiceHistoryRepository defines the interface for service history data access
type ServiceHistoryRepository interface {
	Create(ctx context.Context, licenseNumber string, entry *models.ServiceHistory) error
	GetByID(ctx context.Context, id string) (*models.ServiceHistory, string, error)
	ListByCustomer(ctx context.Context, licenseNumber string) ([]models.ServiceHistory, error)
	Update(ctx context.Context, entry *models.ServiceHistory) error
	Delete(ctx context.Context, id string) error
}

// serviceHistoryRepository implements ServiceHistoryRepository using PostgreSQL
type serviceHistoryRepository struct {
	db *sql.DB
}

// NewServiceHistoryRepository creates a new service history repository
func NewServiceHistoryRepository(db *sql.DB) ServiceHistoryRepository {
	return &serviceHistoryRepository{db: db}
}

const serviceHistoryColumns = `id, employee_name, service_type, status, collection_amount,
		problem_description, solution, service_date`

// scanServiceHistory scans an entry; when licenseNumber is non-nil the row
// is expected to start with the owning license number
func scanServiceHistory(row rowScanner, licenseNumber *string) (*models.ServiceHistory, error) {
	var (
		entry models.ServiceHistory
		date  time.Time
	)
	dest := []any{
		&entry.ID,
		&entry.EmployeeName,
		&entry.ServiceType,
		&entry.Status,
		&entry.CollectionAmount,
		&entry.ProblemDescription,
		&entry.Solution,
		&date,
	}
	if licenseNumber != nil {
		dest = append([]any{licenseNumber}, dest...)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	entry.Date = date.Format(models.DateLayout)
	return &entry, nil
}

// Create appends a service history entry to a customer
func (r *serviceHistoryRepository) Create(ctx context.Context, licenseNumber string, entry *models.ServiceHistory) error {
	query := `
		INSERT INTO service_history (license_number, ` + serviceHistoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		licenseNumber,
		entry.ID,
		entry.EmployeeName,
		entry.ServiceType,
		entry.Status,
		entry.CollectionAmount,
		entry.ProblemDescription,
		entry.Solution,
		entry.Date,
	)
	if isPQCode(err, pqForeignKeyViolation) {
		return models.ErrNotFoundWithMsg("Customer not found")
	}
	if isPQCode(err, pqUniqueViolation) {
		return models.ErrConflictWithMsg(fmt.Sprintf("service history %s already exists", entry.ID))
	}
	if err != nil {
		return fmt.Errorf("failed to create service history: %w", err)
	}

	return nil
}

// GetByID retrieves a service history entry and the license number owning it
func (r *serviceHistoryRepository) GetByID(ctx context.Context, id string) (*models.ServiceHistory, string, error) {
	query := `SELECT license_number, ` + serviceHistoryColumns + ` FROM service_history WHERE id = $1`

	var licenseNumber string
	entry, err := scanServiceHistory(r.db.QueryRowContext(ctx, query, id), &licenseNumber)
	if err == sql.ErrNoRows {
		return nil, "", models.ErrNotFoundWithMsg(fmt.Sprintf("service history %s not found", id))
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get service history: %w", err)
	}

	return entry, licenseNumber, nil
}

// ListByCustomer retrieves a customer's service history in insertion order
func (r *serviceHistoryRepository) ListByCustomer(ctx context.Context, licenseNumber string) ([]models.ServiceHistory, error) {
	query := `SELECT ` + serviceHistoryColumns + `
		FROM service_history
		WHERE license_number = $1
		ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, licenseNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list service history: %w", err)
	}
	defer rows.Close()

	entries := []models.ServiceHistory{}
	for rows.Next() {
		entry, err := scanServiceHistory(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service history: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service history: %w", err)
	}

	return entries, nil
}

// Update updates the mutable fields of a service history entry
func (r *serviceHistoryRepository) Update(ctx context.Context, entry *models.ServiceHistory) error {
	query := `
		UPDATE service_history
		SET employee_name = $1, service_type = $2, status = $3, collection_amount = $4,
			problem_description = $5, solution = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(
		ctx,
		query,
		entry.EmployeeName,
		entry.ServiceType,
		entry.Status,
		entry.CollectionAmount,
		entry.ProblemDescription,
		entry.Solution,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("service history %s not found", entry.ID))
	}

	return nil
}

// Delete removes a service history entry
func (r *serviceHistoryRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM service_history WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete service history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("service history %s not found", id))
	}

	return nil
}
