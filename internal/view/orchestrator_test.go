package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/notify"
	"github.com/Raymond9734/customer-dashboard/internal/store"
)

type fakeClient struct {
	mu        sync.Mutex
	customers []models.Customer
	history   map[string][]models.ServiceHistory
	nextID    int
	updateErr error
}

func (f *fakeClient) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.CloneCustomers(f.customers), nil
}

func (f *fakeClient) CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	return models.NewCustomer(in), nil
}

func (f *fakeClient) UpdateCustomer(ctx context.Context, licenseNumber string, patch models.CustomerPatch) (*models.Customer, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	c := models.Customer{LicenseNumber: licenseNumber}
	patch.Apply(&c)
	return &c, nil
}

func (f *fakeClient) DeleteCustomer(ctx context.Context, licenseNumber string) error {
	return nil
}

func (f *fakeClient) ListServiceHistory(ctx context.Context, licenseNumber string) ([]models.ServiceHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ServiceHistory{}, f.history[licenseNumber]...), nil
}

func (f *fakeClient) CreateServiceHistory(ctx context.Context, licenseNumber string, in models.ServiceHistoryInput) (*models.ServiceHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return &models.ServiceHistory{
		ID:           fmt.Sprintf("SH-%d", f.nextID),
		EmployeeName: in.EmployeeName,
		ServiceType:  in.ServiceType,
		Status:       in.Status,
		Date:         "2024-03-05",
	}, nil
}

func seed() []models.Customer {
	return []models.Customer{
		{
			LicenseNumber: "L1", Name: "Alice Wanjiru", Mobile1: "0712345001",
			InstalledBy: "Peter Otieno", ServiceType: models.CustomerServiceNew, InstalledOn: "2024-01-10",
		},
		{
			LicenseNumber: "L2", Name: "Brian Kamau", Mobile1: "0722000002",
			InstalledBy: "Mary Njeri", ServiceType: models.CustomerServiceRenewal, InstalledOn: "2024-03-05",
		},
		{
			LicenseNumber: "L3", Name: "Alison Chebet", Mobile1: "0733000003",
			InstalledBy: "Peter Otieno", ServiceType: models.CustomerServiceRenewal, InstalledOn: "2024-06-20",
		},
	}
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *store.Store, *fakeClient) {
	t.Helper()
	client := &fakeClient{customers: seed(), history: map[string][]models.ServiceHistory{}}
	s := store.New(client, notify.NewDispatcher(), nil)
	t.Cleanup(s.Close)
	require.NoError(t, s.Load(context.Background()))
	return New(s), s, client
}

func licenses(customers []models.Customer) []string {
	out := make([]string, len(customers))
	for i := range customers {
		out[i] = customers[i].LicenseNumber
	}
	return out
}

func TestNavigate_VisibleDependsOnPage(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)

	require.NoError(t, o.SetFilters(models.FilterSpec{
		SearchQuery: "ali",
		ServiceType: models.CustomerServiceRenewal,
	}))

	assert.Equal(t, PageDashboard, o.Page())
	assert.Equal(t, []string{"L1", "L3"}, licenses(o.Visible()), "dashboard applies only the search")

	o.Navigate(PageReports)
	assert.Equal(t, []string{"L3"}, licenses(o.Visible()))

	shown, total := o.Counts()
	assert.Equal(t, 1, shown)
	assert.Equal(t, 3, total)
}

func TestFilters(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	o.Navigate(PageReports)

	err := o.SetFilters(models.FilterSpec{FromDate: "10/01/2024"})
	assert.True(t, errors.Is(err, models.ErrInvalid))
	assert.Equal(t, models.FilterSpec{}, o.Filters(), "invalid filters are not applied")

	require.NoError(t, o.SetFilters(models.FilterSpec{FromDate: "2024-02-01", ToDate: "2024-12-31"}))
	assert.Equal(t, []string{"L2", "L3"}, licenses(o.Visible()))

	o.ClearFilters()
	assert.True(t, o.Filters().IsEmpty())
	assert.Len(t, o.Visible(), 3)
}

func TestInstallers(t *testing.T) {
	o, _, _ := newTestOrchestrator(t)
	assert.Equal(t, []string{"Mary Njeri", "Peter Otieno"}, o.Installers())
}

func TestModalFlow(t *testing.T) {
	o, s, client := newTestOrchestrator(t)
	client.history["L2"] = []models.ServiceHistory{{ID: "SH-old", Date: "2024-03-01"}}

	assert.Error(t, o.OpenAddService(), "no customer selected")
	assert.Error(t, o.OpenHistory())

	o.OpenCustomer(s.Customers()[1], store.ModeView)
	s.Wait()
	require.NoError(t, o.OpenAddService())
	require.NoError(t, o.OpenHistory())
	assert.Equal(t, Modals{Customer: true, AddService: true, History: true}, o.Modals())

	entry, err := o.SubmitService(context.Background(), models.ServiceHistoryInput{
		EmployeeName: "John",
		ServiceType:  models.ServiceRepair,
		Status:       models.ServiceStatusCompleted,
	})
	require.NoError(t, err)

	assert.Equal(t, Modals{Customer: true, History: true}, o.Modals(), "service form closed, customer stays open")

	history, ok := o.History()
	require.True(t, ok)
	require.Len(t, history, 2)
	assert.Equal(t, entry.ID, history[0].ID, "newest first")
	assert.Equal(t, "SH-old", history[1].ID)

	o.CloseHistory()
	assert.Equal(t, Modals{Customer: true}, o.Modals())
	o.Close()
	assert.Equal(t, Modals{}, o.Modals())
	_, selected := s.Selection()
	assert.False(t, selected)
}

func TestFormToggles(t *testing.T) {
	o, s, _ := newTestOrchestrator(t)

	o.OpenAddCustomer()
	assert.Equal(t, Modals{AddCustomer: true}, o.Modals())
	o.CloseAddCustomer()
	assert.Equal(t, Modals{}, o.Modals())

	o.OpenCustomer(s.Customers()[0], store.ModeView)
	s.Wait()
	require.NoError(t, o.OpenAddService())
	o.CloseAddService()
	assert.Equal(t, Modals{Customer: true}, o.Modals(), "closing the service form keeps the customer open")

	_, selected := s.Selection()
	assert.True(t, selected)
}

func TestSetMode(t *testing.T) {
	o, s, _ := newTestOrchestrator(t)

	o.OpenCustomer(s.Customers()[0], store.ModeView)
	o.SetMode(store.ModeEdit)
	s.Wait()

	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, store.ModeEdit, sel.Mode)
}

func TestSaveCustomer(t *testing.T) {
	o, s, _ := newTestOrchestrator(t)

	o.OpenCustomer(s.Customers()[0], store.ModeEdit)
	s.Wait()

	edited, _ := s.Checkout()
	edited.Name = "Alice W."
	_, err := o.SaveCustomer(context.Background(), edited)
	require.NoError(t, err)

	assert.Equal(t, Modals{}, o.Modals())
	assert.Equal(t, "Alice W.", s.Customers()[0].Name)
}

func TestSaveCustomer_FailureKeepsModal(t *testing.T) {
	o, s, client := newTestOrchestrator(t)
	client.updateErr = models.ErrTransportWithMsg("", errors.New("down"))

	o.OpenCustomer(s.Customers()[0], store.ModeEdit)
	s.Wait()

	edited, _ := s.Checkout()
	_, err := o.SaveCustomer(context.Background(), edited)

	require.Error(t, err)
	assert.True(t, o.Modals().Customer)
}

func TestSubmitCustomer(t *testing.T) {
	o, s, _ := newTestOrchestrator(t)
	o.OpenAddCustomer()

	_, err := o.SubmitCustomer(context.Background(), models.CustomerInput{
		LicenseNumber: "L9", Name: "New Person", Mobile1: "0700000009",
		ServiceType: models.CustomerServiceNew, InstalledOn: "2024-07-01",
	})
	require.NoError(t, err)
	assert.False(t, o.Modals().AddCustomer)
	assert.Equal(t, "L9", s.Customers()[0].LicenseNumber)

	o.OpenAddCustomer()
	_, err = o.SubmitCustomer(context.Background(), models.CustomerInput{
		LicenseNumber: "l9", Name: "Dup", Mobile1: "0700000010",
		ServiceType: models.CustomerServiceNew, InstalledOn: "2024-07-01",
	})
	assert.True(t, errors.Is(err, models.ErrConflict))
	assert.True(t, o.Modals().AddCustomer, "form stays open on failure")
}

func TestDeleteCustomer(t *testing.T) {
	o, s, _ := newTestOrchestrator(t)

	o.OpenCustomer(s.Customers()[0], store.ModeView)
	s.Wait()

	require.NoError(t, o.DeleteCustomer(context.Background(), "L2"))
	assert.True(t, o.Modals().Customer, "other customer's modal untouched")

	require.NoError(t, o.DeleteCustomer(context.Background(), "L1"))
	assert.Equal(t, Modals{}, o.Modals())
	assert.Equal(t, []string{"L3"}, licenses(s.Customers()))
}
