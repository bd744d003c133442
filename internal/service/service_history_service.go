package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/repository"
)

// ServiceHistoryService handles service history business logic
type ServiceHistoryService interface {
	Create(ctx context.Context, licenseNumber string, in *models.ServiceHistoryInput) (*models.ServiceHistory, error)
	List(ctx context.Context, licenseNumber string) ([]models.ServiceHistory, error)
	Update(ctx context.Context, id string, patch *models.ServiceHistoryPatch) (*models.ServiceHistory, error)
	Delete(ctx context.Context, id string) error
}

type serviceHistoryService struct {
	customerRepo repository.CustomerRepository
	historyRepo  repository.ServiceHistoryRepository
	activity     *activityPublisher
	newID        func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewServiceHistoryService creates a new service history service
func NewServiceHistoryService(
	customerRepo repository.CustomerRepository,
	historyRepo repository.ServiceHistoryRepository,
	publisher ActivityPublisher,
	logger *slog.Logger,
) ServiceHistoryService {
	return &serviceHistoryService{
		customerRepo: customerRepo,
		historyRepo:  historyRepo,
		activity:     newActivityPublisher(publisher, logger),
		newID: func() string {
			return models.ServiceHistoryIDPrefix + uuid.NewString()
		},
		now:    time.Now,
		logger: logger,
	}
}

// Create records a service visit; the id and date are assigned here
func (s *serviceHistoryService) Create(ctx context.Context, licenseNumber string, in *models.ServiceHistoryInput) (*models.ServiceHistory, error) {
	if licenseNumber == "" {
		return nil, models.ErrInvalidInput("licenseNumber is required")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.GetByLicense(ctx, licenseNumber); err != nil {
		return nil, err
	}

	entry := &models.ServiceHistory{
		ID:                 s.newID(),
		EmployeeName:       in.EmployeeName,
		ServiceType:        in.ServiceType,
		Status:             in.Status,
		CollectionAmount:   in.CollectionAmount,
		ProblemDescription: in.ProblemDescription,
		Solution:           in.Solution,
		Date:               s.now().UTC().Format(models.DateLayout),
	}

	if err := s.historyRepo.Create(ctx, licenseNumber, entry); err != nil {
		s.logger.Error("failed to create service history",
			slog.String("license_number", licenseNumber),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create service history: %w", err)
	}

	s.logger.Info("service history created",
		slog.String("license_number", licenseNumber),
		slog.String("service_history_id", entry.ID),
		slog.String("service_type", entry.ServiceType),
	)
	s.activity.publish(ctx, models.ActivityServiceHistoryCreated, licenseNumber, entry.ID)

	return entry, nil
}

// List retrieves the service history of an existing customer
func (s *serviceHistoryService) List(ctx context.Context, licenseNumber string) ([]models.ServiceHistory, error) {
	if licenseNumber == "" {
		return nil, models.ErrInvalidInput("licenseNumber is required")
	}

	if _, err := s.customerRepo.GetByLicense(ctx, licenseNumber); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.ListByCustomer(ctx, licenseNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list service history: %w", err)
	}

	return entries, nil
}

// Update merges patch into an existing entry
func (s *serviceHistoryService) Update(ctx context.Context, id string, patch *models.ServiceHistoryPatch) (*models.ServiceHistory, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	entry, licenseNumber, err := s.historyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(entry)

	if err := s.historyRepo.Update(ctx, entry); err != nil {
		s.logger.Error("failed to update service history",
			slog.String("service_history_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update service history: %w", err)
	}

	s.logger.Info("service history updated",
		slog.String("service_history_id", id),
	)
	s.activity.publish(ctx, models.ActivityServiceHistoryUpdated, licenseNumber, id)

	return entry, nil
}

// Delete removes a service history entry
func (s *serviceHistoryService) Delete(ctx context.Context, id string) error {
	_, licenseNumber, err := s.historyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.historyRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete service history",
			slog.String("service_history_id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to delete service history: %w", err)
	}

	s.logger.Info("service history deleted",
		slog.String("service_history_id", id),
	)
	s.activity.publish(ctx, models.ActivityServiceHistoryDeleted, licenseNumber, id)

	return nil
}
