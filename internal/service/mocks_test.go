package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/Raymond9734/customer-dashboard/internal/models"
)

// mockCustomerRepository keeps customers in insertion order
type mockCustomerRepository struct {
	customers []*models.Customer
	createErr error
}

func (m *mockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if m.createErr != nil {
		return m.createErr
	}
	c := *customer
	m.customers = append(m.customers, &c)
	return nil
}

func (m *mockCustomerRepository) GetByLicense(ctx context.Context, licenseNumber string) (*models.Customer, error) {
	for _, c := range m.customers {
		if c.LicenseNumber == licenseNumber {
			out := *c
			return &out, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("Customer not found")
}

func (m *mockCustomerRepository) FindByLicenseFold(ctx context.Context, licenseNumber string) (*models.Customer, error) {
	for _, c := range m.customers {
		if strings.EqualFold(c.LicenseNumber, licenseNumber) {
			out := *c
			return &out, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("Customer not found")
}

func (m *mockCustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	out := make([]*models.Customer, 0, len(m.customers))
	for i := len(m.customers) - 1; i >= 0; i-- {
		c := *m.customers[i]
		out = append(out, &c)
	}
	return out, nil
}

func (m *mockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	for i, c := range m.customers {
		if c.LicenseNumber == customer.LicenseNumber {
			updated := *customer
			m.customers[i] = &updated
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("Customer not found")
}

func (m *mockCustomerRepository) Delete(ctx context.Context, licenseNumber string) error {
	for i, c := range m.customers {
		if c.LicenseNumber == licenseNumber {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("Customer not found")
}

type storedEntry struct {
	licenseNumber string
	entry         models.ServiceHistory
}

// mockServiceHistoryRepository keeps entries in insertion order
type mockServiceHistoryRepository struct {
	entries []storedEntry
}

func (m *mockServiceHistoryRepository) Create(ctx context.Context, licenseNumber string, entry *models.ServiceHistory) error {
	m.entries = append(m.entries, storedEntry{licenseNumber: licenseNumber, entry: *entry})
	return nil
}

func (m *mockServiceHistoryRepository) GetByID(ctx context.Context, id string) (*models.ServiceHistory, string, error) {
	for _, e := range m.entries {
		if e.entry.ID == id {
			out := e.entry
			return &out, e.licenseNumber, nil
		}
	}
	return nil, "", models.ErrNotFoundWithMsg("service history not found")
}

func (m *mockServiceHistoryRepository) ListByCustomer(ctx context.Context, licenseNumber string) ([]models.ServiceHistory, error) {
	out := []models.ServiceHistory{}
	for _, e := range m.entries {
		if e.licenseNumber == licenseNumber {
			out = append(out, e.entry)
		}
	}
	return out, nil
}

func (m *mockServiceHistoryRepository) Update(ctx context.Context, entry *models.ServiceHistory) error {
	for i, e := range m.entries {
		if e.entry.ID == entry.ID {
			m.entries[i].entry = *entry
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("service history not found")
}

func (m *mockServiceHistoryRepository) Delete(ctx context.Context, id string) error {
	for i, e := range m.entries {
		if e.entry.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("service history not found")
}

type mockActivityRepository struct {
	activities []*models.Activity
}

func (m *mockActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	activity.ID = int64(len(m.activities) + 1)
	m.activities = append(m.activities, activity)
	return nil
}

func (m *mockActivityRepository) ListByCustomer(ctx context.Context, licenseNumber string, limit int) ([]*models.Activity, error) {
	out := []*models.Activity{}
	for i := len(m.activities) - 1; i >= 0 && len(out) < limit; i-- {
		if m.activities[i].LicenseNumber == licenseNumber {
			out = append(out, m.activities[i])
		}
	}
	return out, nil
}

// mockPublisher records published jobs
type mockPublisher struct {
	jobs []*models.ActivityJob
	fail bool
}

func (m *mockPublisher) Publish(ctx context.Context, job *models.ActivityJob) error {
	if m.fail {
		return errors.New("queue unavailable")
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockPublisher) kinds() []string {
	out := make([]string, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.Kind)
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func validInput(licenseNumber string) *models.CustomerInput {
	return &models.CustomerInput{
		LicenseNumber: licenseNumber,
		Name:          "Alice Wanjiru",
		MonthYear:     "01-2024",
		Address:       "12 Moi Avenue",
		Mobile1:       "0712345001",
		InstalledBy:   "Peter",
		ServiceType:   models.CustomerServiceNew,
		InstalledOn:   "2024-01-10",
	}
}

func stringPtr(s string) *string {
	return &s
}
