package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/Raymond9734/customer-dashboard/internal/models"
)

// pq error codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByLicense(ctx context.Context, licenseNumber string) (*models.Customer, error)
	FindByLicenseFold(ctx context.Context, licenseNumber string) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, licenseNumber string) error
}

// customerRepository implements CustomerRepository using PostgreSQL
type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `license_number, name, month_year, address, mobile1, mobile2,
		installed_by, service_type, installed_on`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var (
		customer    models.Customer
		mobile2     sql.NullString
		installedOn time.Time
	)
	err := row.Scan(
		&customer.LicenseNumber,
		&customer.Name,
		&customer.MonthYear,
		&customer.Address,
		&customer.Mobile1,
		&mobile2,
		&customer.InstalledBy,
		&customer.ServiceType,
		&installedOn,
	)
	if err != nil {
		return nil, err
	}
	customer.Mobile2 = mobile2.String
	customer.InstalledOn = installedOn.Format(models.DateLayout)
	return &customer, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

// Create inserts a new customer
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		customer.LicenseNumber,
		customer.Name,
		customer.MonthYear,
		customer.Address,
		customer.Mobile1,
		nullable(customer.Mobile2),
		customer.InstalledBy,
		customer.ServiceType,
		customer.InstalledOn,
	)
	if isPQCode(err, pqUniqueViolation) {
		return models.ErrConflictWithMsg(
			fmt.Sprintf("Customer with license number %s already exists.", customer.LicenseNumber),
		)
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByLicense retrieves a customer by its exact license number
func (r *customerRepository) GetByLicense(ctx context.Context, licenseNumber string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE license_number = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, licenseNumber))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with license number %s not found", licenseNumber))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// FindByLicenseFold retrieves a customer whose license number matches
// ignoring case
func (r *customerRepository) FindByLicenseFold(ctx context.Context, licenseNumber string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE LOWER(license_number) = LOWER($1)`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, licenseNumber))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with license number %s not found", licenseNumber))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	return customer, nil
}

// List retrieves every customer, newest first, with its service history
// attached in insertion order
func (r *customerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	var (
		customers []*models.Customer
		histories map[string][]models.ServiceHistory
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		query := `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at DESC, license_number`

		rows, err := r.db.QueryContext(gctx, query)
		if err != nil {
			return fmt.Errorf("failed to list customers: %w", err)
		}
		defer rows.Close()

		customers = []*models.Customer{}
		for rows.Next() {
			customer, err := scanCustomer(rows)
			if err != nil {
				return fmt.Errorf("failed to scan customer: %w", err)
			}
			customers = append(customers, customer)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating customers: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		query := `SELECT license_number, ` + serviceHistoryColumns + `
			FROM service_history ORDER BY license_number, seq`

		rows, err := r.db.QueryContext(gctx, query)
		if err != nil {
			return fmt.Errorf("failed to list service history: %w", err)
		}
		defer rows.Close()

		histories = make(map[string][]models.ServiceHistory)
		for rows.Next() {
			var licenseNumber string
			entry, err := scanServiceHistory(rows, &licenseNumber)
			if err != nil {
				return fmt.Errorf("failed to scan service history: %w", err)
			}
			histories[licenseNumber] = append(histories[licenseNumber], *entry)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating service history: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, customer := range customers {
		customer.ServiceHistory = histories[customer.LicenseNumber]
		if customer.ServiceHistory == nil {
			customer.ServiceHistory = []models.ServiceHistory{}
		}
	}

	return customers, nil
}

// Update updates an existing customer
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, month_year = $2, address = $3, mobile1 = $4, mobile2 = $5,
			installed_by = $6, service_type = $7, installed_on = $8, updated_at = NOW()
		WHERE license_number = $9`

	result, err := r.db.ExecContext(
		ctx,
		query,
		customer.Name,
		customer.MonthYear,
		customer.Address,
		customer.Mobile1,
		nullable(customer.Mobile2),
		customer.InstalledBy,
		customer.ServiceType,
		customer.InstalledOn,
		customer.LicenseNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg("Customer not found")
	}

	return nil
}

// Delete removes a customer; its service history cascades
func (r *customerRepository) Delete(ctx context.Context, licenseNumber string) error {
	query := `DELETE FROM customers WHERE license_number = $1`

	result, err := r.db.ExecContext(ctx, query, licenseNumber)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFoundWithMsg("Customer not found")
	}

	return nil
}
