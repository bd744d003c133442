package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raymond9734/customer-dashboard/internal/models"
	"github.com/Raymond9734/customer-dashboard/internal/repository"
)

// ActivityProcessor turns queued activity jobs into stored activity rows
type ActivityProcessor struct {
	activityRepo repository.ActivityRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
	logger       *slog.Logger
}

// NewActivityProcessor creates a new activity processor
func NewActivityProcessor(
	activityRepo repository.ActivityRepository,
	customerRepo repository.CustomerRepository,
	logger *slog.Logger,
) *ActivityProcessor {
	return &ActivityProcessor{
		activityRepo: activityRepo,
		customerRepo: customerRepo,
		now:          time.Now,
		logger:       logger,
	}
}

// Process handles a single activity job
func (p *ActivityProcessor) Process(ctx context.Context, job *models.ActivityJob) error {
	if err := job.Validate(); err != nil {
		p.logger.Warn("discarding invalid activity job",
			slog.String("kind", job.Kind),
			slog.String("error", err.Error()),
		)
		return nil
	}

	occurredAt := job.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = p.now().UTC()
	}

	description, err := p.describe(ctx, job)
	if err != nil {
		return err
	}

	activity := &models.Activity{
		Kind:             job.Kind,
		LicenseNumber:    job.LicenseNumber,
		ServiceHistoryID: job.ServiceHistoryID,
		Description:      description,
		OccurredAt:       occurredAt,
	}

	if err := p.activityRepo.Create(ctx, activity); err != nil {
		p.logger.Error("failed to record activity",
			slog.String("kind", job.Kind),
			slog.String("license_number", job.LicenseNumber),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to record activity: %w", err)
	}

	p.logger.Info("activity recorded",
		slog.Int64("activity_id", activity.ID),
		slog.String("kind", job.Kind),
		slog.String("license_number", job.LicenseNumber),
	)

	return nil
}

// describe renders a human readable line for the job. The customer may be
// gone by the time the job runs, in which case only the license is used.
func (p *ActivityProcessor) describe(ctx context.Context, job *models.ActivityJob) (string, error) {
	subject := job.LicenseNumber

	if job.Kind != models.ActivityCustomerDeleted {
		customer, err := p.customerRepo.GetByLicense(ctx, job.LicenseNumber)
		switch {
		case err == nil:
			subject = fmt.Sprintf("%s (%s)", customer.Name, customer.LicenseNumber)
		case errors.Is(err, models.ErrNotFound):
		default:
			p.logger.Error("failed to fetch customer",
				slog.String("license_number", job.LicenseNumber),
				slog.String("error", err.Error()),
			)
			return "", fmt.Errorf("failed to fetch customer: %w", err)
		}
	}

	switch job.Kind {
	case models.ActivityCustomerCreated:
		return "Customer " + subject + " added", nil
	case models.ActivityCustomerUpdated:
		return "Customer " + subject + " details updated", nil
	case models.ActivityCustomerDeleted:
		return "Customer " + subject + " deleted", nil
	case models.ActivityServiceHistoryCreated:
		return fmt.Sprintf("Service %s recorded for %s", job.ServiceHistoryID, subject), nil
	case models.ActivityServiceHistoryUpdated:
		return fmt.Sprintf("Service %s updated for %s", job.ServiceHistoryID, subject), nil
	default:
		return fmt.Sprintf("Service %s removed for %s", job.ServiceHistoryID, subject), nil
	}
}
