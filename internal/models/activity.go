package models

import "time"

// Activity kinds
const (
	ActivityCustomerCreated       = "customer.created"
	ActivityCustomerUpdated       = "customer.updated"
	ActivityCustomerDeleted       = "customer.deleted"
	ActivityServiceHistoryCreated = "service_history.created"
	ActivityServiceHistoryUpdated = "service_history.updated"
	ActivityServiceHistoryDeleted = "service_history.deleted"
)

// Activity is a recorded change to a customer or its service history
type Activity struct {
	ID               int64     `json:"id"`
	Kind             string    `json:"kind"`
	LicenseNumber    string    `json:"licenseNumber"`
	ServiceHistoryID string    `json:"serviceHistoryId,omitempty"`
	Description      string    `json:"description"`
	OccurredAt       time.Time `json:"occurredAt"`
	RecordedAt       time.Time `json:"recordedAt"`
}

// ActivityJob represents a job to be queued for the activity worker
type ActivityJob struct {
	Kind             string    `json:"kind"`
	LicenseNumber    string    `json:"license_number"`
	ServiceHistoryID string    `json:"service_history_id,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// IsValidActivityKind checks if the activity kind is valid
func IsValidActivityKind(kind string) bool {
	switch kind {
	case ActivityCustomerCreated, ActivityCustomerUpdated, ActivityCustomerDeleted,
		ActivityServiceHistoryCreated, ActivityServiceHistoryUpdated, ActivityServiceHistoryDeleted:
		return true
	default:
		return false
	}
}

// Validate performs basic validation on a queued job
func (j *ActivityJob) Validate() error {
	if !IsValidActivityKind(j.Kind) {
		return ErrInvalidInput("invalid activity kind: " + j.Kind)
	}
	if j.LicenseNumber == "" {
		return ErrInvalidInput("license_number is required")
	}
	return nil
}
