// Package view coordinates the dashboard's pages and modals on top of the
// customer store.
package view

import (
	"context"
	"sync"

	"github.com/Raymond9734/customer-dashboard/internal/filter"
	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/store"
)

// Page is a top-level dashboard page
type Page string

// Pages
const (
	PageDashboard Page = "dashboard"
	PageReports   Page = "reports"
)

// Modals holds which dialogs are open
type Modals struct {
	Customer    bool
	AddCustomer bool
	AddService  bool
	History     bool
}

// CustomerStore is the part of the store the orchestrator drives
type CustomerStore interface {
	Customers() []models.Customer
	Select(c models.Customer, mode store.Mode)
	SetMode(mode store.Mode)
	Selection() (store.Selection, bool)
	ClearSelection()
	Add(ctx context.Context, in models.CustomerInput) (*models.Customer, error)
	Update(ctx context.Context, c models.Customer) (*models.Customer, error)
	AttachServiceHistory(ctx context.Context, licenseNumber string, in models.ServiceHistoryInput) (*models.ServiceHistory, error)
	Remove(ctx context.Context, licenseNumber string) error
}

// Orchestrator tracks the active page, open modals and report filters
type Orchestrator struct {
	store CustomerStore

	mu      sync.Mutex
	page    Page
	modals  Modals
	filters models.FilterSpec
}

// New creates an orchestrator showing the dashboard page
func New(s CustomerStore) *Orchestrator {
	return &Orchestrator{
		store: s,
		page:  PageDashboard,
	}
}

// Navigate switches page. Filters are kept.
func (o *Orchestrator) Navigate(p Page) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.page = p
}

// Page returns the active page
func (o *Orchestrator) Page() Page {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.page
}

// Modals returns the modal flags
func (o *Orchestrator) Modals() Modals {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.modals
}

// OpenCustomer selects c and shows the customer modal
func (o *Orchestrator) OpenCustomer(c models.Customer, mode store.Mode) {
	o.store.Select(c, mode)

	o.mu.Lock()
	o.modals.Customer = true
	o.mu.Unlock()
}

// SetMode toggles the open customer between view and edit
func (o *Orchestrator) SetMode(mode store.Mode) {
	o.store.SetMode(mode)
}

// OpenAddCustomer shows the add customer form
func (o *Orchestrator) OpenAddCustomer() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modals.AddCustomer = true
}

// CloseAddCustomer hides the add customer form
func (o *Orchestrator) CloseAddCustomer() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modals.AddCustomer = false
}

// OpenAddService shows the service form for the selected customer
func (o *Orchestrator) OpenAddService() error {
	if _, ok := o.store.Selection(); !ok {
		return errNoSelection()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.modals.AddService = true
	return nil
}

// CloseAddService hides the service form
func (o *Orchestrator) CloseAddService() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modals.AddService = false
}

// OpenHistory shows the service history of the selected customer
func (o *Orchestrator) OpenHistory() error {
	if _, ok := o.store.Selection(); !ok {
		return errNoSelection()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.modals.History = true
	return nil
}

// CloseHistory hides the service history
func (o *Orchestrator) CloseHistory() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modals.History = false
}

// Close dismisses every modal and clears the selection
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.modals = Modals{}
	o.mu.Unlock()

	o.store.ClearSelection()
}

// SaveCustomer commits an edited customer and closes its modal
func (o *Orchestrator) SaveCustomer(ctx context.Context, c models.Customer) (*models.Customer, error) {
	updated, err := o.store.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	o.Close()
	return updated, nil
}

// SubmitCustomer creates a customer and closes the add form
func (o *Orchestrator) SubmitCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	created, err := o.store.Add(ctx, in)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.modals.AddCustomer = false
	o.modals.Customer = false
	o.mu.Unlock()

	return created, nil
}

// SubmitService records a service visit for the selected customer. The
// customer modal stays open with the new entry.
func (o *Orchestrator) SubmitService(ctx context.Context, in models.ServiceHistoryInput) (*models.ServiceHistory, error) {
	sel, ok := o.store.Selection()
	if !ok {
		return nil, errNoSelection()
	}

	entry, err := o.store.AttachServiceHistory(ctx, sel.Customer.LicenseNumber, in)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.modals.AddService = false
	o.mu.Unlock()

	return entry, nil
}

// DeleteCustomer removes a customer, closing its modals if it was open
func (o *Orchestrator) DeleteCustomer(ctx context.Context, licenseNumber string) error {
	sel, selected := o.store.Selection()

	if err := o.store.Remove(ctx, licenseNumber); err != nil {
		return err
	}

	if selected && sel.Customer.LicenseNumber == licenseNumber {
		o.Close()
	}
	return nil
}

// SetFilters replaces the report filters after validating them
func (o *Orchestrator) SetFilters(spec models.FilterSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.filters = spec
	return nil
}

// ClearFilters resets every report filter
func (o *Orchestrator) ClearFilters() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.filters = models.FilterSpec{}
}

// Filters returns the active report filters
func (o *Orchestrator) Filters() models.FilterSpec {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.filters
}

// Visible returns the customers shown on the active page. Reports apply
// every filter; the dashboard only the search query.
func (o *Orchestrator) Visible() []models.Customer {
	return o.apply(o.store.Customers())
}

// Counts returns how many customers are shown and how many exist
func (o *Orchestrator) Counts() (shown, total int) {
	customers := o.store.Customers()
	return len(o.apply(customers)), len(customers)
}

func (o *Orchestrator) apply(customers []models.Customer) []models.Customer {
	o.mu.Lock()
	page, spec := o.page, o.filters
	o.mu.Unlock()

	if page == PageReports {
		return filter.Apply(customers, spec)
	}
	return filter.Search(customers, spec.SearchQuery)
}

// Installers lists the distinct installers for the reports filter
func (o *Orchestrator) Installers() []string {
	return filter.Installers(o.store.Customers())
}

// History returns the selected customer's service history, newest first
func (o *Orchestrator) History() ([]models.ServiceHistory, bool) {
	sel, ok := o.store.Selection()
	if !ok {
		return nil, false
	}

	history := sel.Customer.ServiceHistory
	out := make([]models.ServiceHistory, len(history))
	for i := range history {
		out[len(history)-1-i] = history[i]
	}
	return out, true
}

func errNoSelection() error {
	return models.ErrInvalidInput("no customer selected")
}
