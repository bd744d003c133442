package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/repository"
)

// CustomerService handles customer business logic
type CustomerService interface {
	Create(ctx context.Context, in *models.CustomerInput) (*models.Customer, error)
	Get(ctx context.Context, licenseNumber string) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	Update(ctx context.Context, licenseNumber string, patch *models.CustomerPatch) (*models.Customer, error)
	Delete(ctx context.Context, licenseNumber string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	historyRepo  repository.ServiceHistoryRepository
	activity     *activityPublisher
	logger       *slog.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	historyRepo repository.ServiceHistoryRepository,
	publisher ActivityPublisher,
	logger *slog.Logger,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		historyRepo:  historyRepo,
		activity:     newActivityPublisher(publisher, logger),
		logger:       logger,
	}
}

// Create creates a new customer. License numbers are unique ignoring case.
func (s *customerService) Create(ctx context.Context, in *models.CustomerInput) (*models.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.customerRepo.FindByLicenseFold(ctx, in.LicenseNumber)
	if err == nil && existing != nil {
		return nil, models.ErrConflictWithMsg(
			fmt.Sprintf("Customer with license number %s already exists.", in.LicenseNumber),
		)
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check license number: %w", err)
	}

	customer := models.NewCustomer(*in)
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error("failed to create customer",
			slog.String("license_number", in.LicenseNumber),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		slog.String("license_number", customer.LicenseNumber),
	)
	s.activity.publish(ctx, models.ActivityCustomerCreated, customer.LicenseNumber, "")

	return customer, nil
}

// Get retrieves a customer with its service history
func (s *customerService) Get(ctx context.Context, licenseNumber string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByLicense(ctx, licenseNumber)
	if err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ListByCustomer(ctx, licenseNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load service history: %w", err)
	}
	customer.ServiceHistory = history

	return customer, nil
}

// List retrieves every customer, newest first
func (s *customerService) List(ctx context.Context) ([]*models.Customer, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

// Update merges patch into an existing customer and returns the stored value
func (s *customerService) Update(ctx context.Context, licenseNumber string, patch *models.CustomerPatch) (*models.Customer, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByLicense(ctx, licenseNumber)
	if err != nil {
		return nil, err
	}

	patch.Apply(customer)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Error("failed to update customer",
			slog.String("license_number", licenseNumber),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	history, err := s.historyRepo.ListByCustomer(ctx, licenseNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to load service history: %w", err)
	}
	customer.ServiceHistory = history

	s.logger.Info("customer updated",
		slog.String("license_number", licenseNumber),
	)
	s.activity.publish(ctx, models.ActivityCustomerUpdated, licenseNumber, "")

	return customer, nil
}

// Delete removes a customer and its service history
func (s *customerService) Delete(ctx context.Context, licenseNumber string) error {
	if err := s.customerRepo.Delete(ctx, licenseNumber); err != nil {
		s.logger.Error("failed to delete customer",
			slog.String("license_number", licenseNumber),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted",
		slog.String("license_number", licenseNumber),
	)
	s.activity.publish(ctx, models.ActivityCustomerDeleted, licenseNumber, "")

	return nil
}
