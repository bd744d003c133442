// Package store owns the dashboard's authoritative customer collection and
// the currently selected customer, and keeps the two consistent across
// every mutation.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/text/cases"

	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/notify"
)

// User-facing messages
const (
	MsgLoadFailed           = "Failed to load customer data."
	MsgHistoryLoadFailed    = "Failed to load service history data."
	MsgCustomerAdded        = "Customer added successfully!"
	MsgCustomerAddFailed    = "Failed to add customer."
	MsgCustomerUpdated      = "Customer details updated successfully!"
	MsgCustomerUpdateFailed = "Failed to update customer details."
	MsgServiceAdded         = "Service history added successfully!"
	MsgServiceAddFailed     = "Failed to add service history."
	MsgCustomerDeleted      = "Customer deleted successfully!"
	MsgCustomerDeleteFailed = "Failed to delete customer."
)

// Mode is how the selected customer is presented
type Mode string

// Selection modes
const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// ResourceClient is the subset of the REST client the store drives
type ResourceClient interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, licenseNumber string, patch models.CustomerPatch) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, licenseNumber string) error
	ListServiceHistory(ctx context.Context, licenseNumber string) ([]models.ServiceHistory, error)
	CreateServiceHistory(ctx context.Context, licenseNumber string, in models.ServiceHistoryInput) (*models.ServiceHistory, error)
}

// Selection is the customer open in the detail view and its mode
type Selection struct {
	Customer models.Customer
	Mode     Mode
}

// Option configures a Store
type Option func(*Store)

// WithRefreshOnModeChange makes every mode toggle re-fetch the selected
// customer's service history, not only a new selection
func WithRefreshOnModeChange(enabled bool) Option {
	return func(s *Store) {
		s.refreshOnModeChange = enabled
	}
}

// Store mediates every change to the customer collection. Network calls are
// made without holding the state lock; their results are applied in a single
// critical section so readers never observe a partial mutation.
type Store struct {
	client   ResourceClient
	notifier notify.Notifier
	logger   *slog.Logger

	refreshOnModeChange bool

	mu        sync.RWMutex
	customers []models.Customer
	selection *Selection

	// selVersion changes whenever the selection is replaced, cleared or
	// mutated; a refresh started under an older version is discarded
	selVersion uint64

	keys *keyLock

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an empty store. Call Load to populate it and Close when done.
func New(client ResourceClient, notifier notify.Notifier, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		client:    client,
		notifier:  notifier,
		logger:    logger,
		customers: []models.Customer{},
		keys:      newKeyLock(),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load replaces the collection with the server's. On failure the previous
// collection is kept.
func (s *Store) Load(ctx context.Context) error {
	customers, err := s.client.ListCustomers(ctx)
	if err != nil {
		s.logger.Error("failed to load customers", slog.String("error", err.Error()))
		s.notifier.Notify(MsgLoadFailed, notify.KindError)
		return fmt.Errorf("failed to load customers: %w", err)
	}

	loaded := models.CloneCustomers(customers)
	for i := range loaded {
		normalize(&loaded[i])
	}

	s.mu.Lock()
	s.customers = loaded
	s.mu.Unlock()

	s.logger.Info("customers loaded", slog.Int("count", len(loaded)))
	return nil
}

// Customers returns a deep copy of the collection
func (s *Store) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneCustomers(s.customers)
}

// Customer returns a copy of the customer with the given license number
func (s *Store) Customer(licenseNumber string) (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(licenseNumber); i >= 0 {
		return s.customers[i].Clone(), true
	}
	return models.Customer{}, false
}

// Select opens a detached copy of c in the given mode and refreshes its
// service history in the background
func (s *Store) Select(c models.Customer, mode Mode) {
	s.mu.Lock()
	s.selection = &Selection{Customer: c.Clone(), Mode: mode}
	version := s.touchSelection()
	s.mu.Unlock()

	s.refreshHistory(c.LicenseNumber, version)
}

// SetMode switches the mode of the current selection. It is a no-op without
// a selection.
func (s *Store) SetMode(mode Mode) {
	s.mu.Lock()
	if s.selection == nil {
		s.mu.Unlock()
		return
	}
	changed := s.selection.Mode != mode
	s.selection.Mode = mode
	licenseNumber := s.selection.Customer.LicenseNumber
	version := s.selVersion
	s.mu.Unlock()

	if changed && s.refreshOnModeChange {
		s.refreshHistory(licenseNumber, version)
	}
}

// Selection returns a copy of the current selection
func (s *Store) Selection() (Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selection == nil {
		return Selection{}, false
	}
	return Selection{Customer: s.selection.Customer.Clone(), Mode: s.selection.Mode}, true
}

// Checkout returns a copy of the selected customer for editing. Changes to it
// reach the collection only through Update.
func (s *Store) Checkout() (models.Customer, bool) {
	sel, ok := s.Selection()
	return sel.Customer, ok
}

// ClearSelection closes the detail view
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selection = nil
	s.touchSelection()
	s.mu.Unlock()
}

// Add creates a customer. A license number already present in the collection,
// compared ignoring case, fails with a conflict before any request is made.
func (s *Store) Add(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, s.fail(MsgCustomerAddFailed, err)
	}

	unlock := s.keys.lock(foldKey(in.LicenseNumber))
	defer unlock()

	s.mu.RLock()
	duplicate := s.indexOfFold(in.LicenseNumber) >= 0
	s.mu.RUnlock()
	if duplicate {
		err := models.ErrConflictWithMsg(
			fmt.Sprintf("Customer with license number %s already exists.", in.LicenseNumber),
		)
		return nil, s.fail(MsgCustomerAddFailed, err)
	}

	created, err := s.client.CreateCustomer(ctx, in)
	if err != nil {
		return nil, s.fail(MsgCustomerAddFailed, err)
	}
	stored := created.Clone()
	normalize(&stored)

	s.mu.Lock()
	if i := s.indexOf(stored.LicenseNumber); i >= 0 {
		s.customers = append(s.customers[:i:i], s.customers[i+1:]...)
	}
	s.customers = append([]models.Customer{stored}, s.customers...)
	s.selection = nil
	s.touchSelection()
	s.mu.Unlock()

	s.logger.Info("customer added", slog.String("license_number", stored.LicenseNumber))
	s.notifier.Notify(MsgCustomerAdded, notify.KindSuccess)

	out := stored.Clone()
	return &out, nil
}

// Update commits an edited copy: the server's result replaces the collection
// entry with the same license number and the selection is cleared
func (s *Store) Update(ctx context.Context, c models.Customer) (*models.Customer, error) {
	patch := c.Patch()
	if err := patch.Validate(); err != nil {
		return nil, s.fail(MsgCustomerUpdateFailed, err)
	}

	unlock := s.keys.lock(foldKey(c.LicenseNumber))
	defer unlock()

	updated, err := s.client.UpdateCustomer(ctx, c.LicenseNumber, patch)
	if err != nil {
		return nil, s.fail(MsgCustomerUpdateFailed, err)
	}
	stored := updated.Clone()
	normalize(&stored)

	s.mu.Lock()
	if i := s.indexOf(stored.LicenseNumber); i >= 0 {
		s.customers[i] = stored
	}
	s.selection = nil
	s.touchSelection()
	s.mu.Unlock()

	s.logger.Info("customer updated", slog.String("license_number", stored.LicenseNumber))
	s.notifier.Notify(MsgCustomerUpdated, notify.KindSuccess)

	out := stored.Clone()
	return &out, nil
}

// AttachServiceHistory records a service visit and appends the created entry
// to the collection entry and, when it is the same customer, the selection
func (s *Store) AttachServiceHistory(ctx context.Context, licenseNumber string, in models.ServiceHistoryInput) (*models.ServiceHistory, error) {
	if licenseNumber == "" {
		return nil, s.fail(MsgServiceAddFailed, models.ErrInvalidInput("licenseNumber is required"))
	}
	if err := in.Validate(); err != nil {
		return nil, s.fail(MsgServiceAddFailed, err)
	}

	unlock := s.keys.lock(foldKey(licenseNumber))
	defer unlock()

	entry, err := s.client.CreateServiceHistory(ctx, licenseNumber, in)
	if err != nil {
		return nil, s.fail(MsgServiceAddFailed, err)
	}
	created := *entry

	s.mu.Lock()
	if i := s.indexOf(licenseNumber); i >= 0 {
		s.customers[i].ServiceHistory = appendEntry(s.customers[i].ServiceHistory, created)
	}
	if s.selection != nil && s.selection.Customer.LicenseNumber == licenseNumber {
		s.selection.Customer.ServiceHistory = appendEntry(s.selection.Customer.ServiceHistory, created)
		s.touchSelection()
	}
	s.mu.Unlock()

	s.logger.Info("service history added",
		slog.String("license_number", licenseNumber),
		slog.String("service_history_id", created.ID),
	)
	s.notifier.Notify(MsgServiceAdded, notify.KindSuccess)

	return &created, nil
}

// Remove deletes a customer and drops it from the collection
func (s *Store) Remove(ctx context.Context, licenseNumber string) error {
	unlock := s.keys.lock(foldKey(licenseNumber))
	defer unlock()

	if err := s.client.DeleteCustomer(ctx, licenseNumber); err != nil {
		return s.fail(MsgCustomerDeleteFailed, err)
	}

	s.mu.Lock()
	if i := s.indexOf(licenseNumber); i >= 0 {
		s.customers = append(s.customers[:i:i], s.customers[i+1:]...)
	}
	if s.selection != nil && s.selection.Customer.LicenseNumber == licenseNumber {
		s.selection = nil
		s.touchSelection()
	}
	s.mu.Unlock()

	s.logger.Info("customer deleted", slog.String("license_number", licenseNumber))
	s.notifier.Notify(MsgCustomerDeleted, notify.KindSuccess)

	return nil
}

// Wait blocks until every background refresh has finished
func (s *Store) Wait() {
	s.wg.Wait()
}

// Close cancels background refreshes and waits for them to return
func (s *Store) Close() {
	s.cancel()
	s.wg.Wait()
}

// refreshHistory fetches the history of licenseNumber. The result is applied
// to the selection and the collection entry only if the selection is still
// at version when the response arrives.
func (s *Store) refreshHistory(licenseNumber string, version uint64) {
	if s.ctx.Err() != nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		history, err := s.client.ListServiceHistory(s.ctx, licenseNumber)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.logger.Error("failed to refresh service history",
				slog.String("license_number", licenseNumber),
				slog.String("error", err.Error()),
			)
			s.notifier.Notify(MsgHistoryLoadFailed, notify.KindError)
			return
		}

		fresh := make([]models.ServiceHistory, len(history))
		copy(fresh, history)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.selection == nil || s.selVersion != version ||
			s.selection.Customer.LicenseNumber != licenseNumber {
			s.logger.Debug("discarding stale service history refresh",
				slog.String("license_number", licenseNumber),
			)
			return
		}
		s.selection.Customer.ServiceHistory = fresh
		if i := s.indexOf(licenseNumber); i >= 0 {
			s.customers[i].ServiceHistory = append([]models.ServiceHistory{}, fresh...)
		}
	}()
}

// fail reports err to the user and returns it. Rejections carry their own
// message; transport failures always show fallback.
func (s *Store) fail(fallback string, err error) error {
	s.logger.Warn("store operation failed", slog.String("error", err.Error()))

	message := fallback
	if !errors.Is(err, models.ErrTransport) {
		message = models.UserMessage(err, fallback)
	}
	s.notifier.Notify(message, notify.KindError)
	return err
}

// touchSelection records a selection change. Callers hold s.mu.
func (s *Store) touchSelection() uint64 {
	s.selVersion++
	return s.selVersion
}

func (s *Store) indexOf(licenseNumber string) int {
	for i := range s.customers {
		if s.customers[i].LicenseNumber == licenseNumber {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfFold(licenseNumber string) int {
	key := foldKey(licenseNumber)
	for i := range s.customers {
		if foldKey(s.customers[i].LicenseNumber) == key {
			return i
		}
	}
	return -1
}

func foldKey(licenseNumber string) string {
	return cases.Fold().String(licenseNumber)
}

// appendEntry appends without sharing the backing array of history
func appendEntry(history []models.ServiceHistory, entry models.ServiceHistory) []models.ServiceHistory {
	out := make([]models.ServiceHistory, len(history), len(history)+1)
	copy(out, history)
	return append(out, entry)
}

func normalize(c *models.Customer) {
	if c.ServiceHistory == nil {
		c.ServiceHistory = []models.ServiceHistory{}
	}
}
