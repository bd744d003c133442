package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/repository"
)

// ActivityPublisher hands activity jobs to the worker queue
type ActivityPublisher interface {
	Publish(ctx context.Context, job *models.ActivityJob) error
}

// activityPublisher publishes best effort: a failed publish is logged and
// never fails the mutation that triggered it
type activityPublisher struct {
	publisher ActivityPublisher
	now       func() time.Time
	logger    *slog.Logger
}

func newActivityPublisher(publisher ActivityPublisher, logger *slog.Logger) *activityPublisher {
	return &activityPublisher{
		publisher: publisher,
		now:       time.Now,
		logger:    logger,
	}
}

func (p *activityPublisher) publish(ctx context.Context, kind, licenseNumber, serviceHistoryID string) {
	if p.publisher == nil {
		return
	}

	job := &models.ActivityJob{
		Kind:             kind,
		LicenseNumber:    licenseNumber,
		ServiceHistoryID: serviceHistoryID,
		OccurredAt:       p.now().UTC(),
	}

	if err := p.publisher.Publish(ctx, job); err != nil {
		p.logger.Warn("failed to publish activity",
			slog.String("kind", kind),
			slog.String("license_number", licenseNumber),
			slog.String("error", err.Error()),
		)
	}
}

// ActivityService exposes the recorded activity of a customer
type ActivityService interface {
	List(ctx context.Context, licenseNumber string, limit int) ([]*models.Activity, error)
}

type activityService struct {
	customerRepo repository.CustomerRepository
	activityRepo repository.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(
	customerRepo repository.CustomerRepository,
	activityRepo repository.ActivityRepository,
) ActivityService {
	return &activityService{
		customerRepo: customerRepo,
		activityRepo: activityRepo,
	}
}

// List retrieves the most recent activity of an existing customer
func (s *activityService) List(ctx context.Context, licenseNumber string, limit int) ([]*models.Activity, error) {
	if _, err := s.customerRepo.GetByLicense(ctx, licenseNumber); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.ListByCustomer(ctx, licenseNumber, models.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	return activities, nil
}
