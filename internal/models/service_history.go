package models

// Service history types
const (
	ServiceInstallation = "Installation"
	ServiceMaintenance  = "Maintenance"
	ServiceRepair       = "Repair"
	ServiceCheckUp      = "Check-up"
)

// Service history statuses
const (
	ServiceStatusCompleted  = "Completed"
	ServiceStatusInProgress = "In Progress"
	ServiceStatusPending    = "Pending"
)

// ServiceHistoryIDPrefix prefixes every server-assigned service history id
const ServiceHistoryIDPrefix = "SH-"

// ServiceHistory is a single service visit recorded against a customer
type ServiceHistory struct {
	ID                 string  `json:"id"`
	EmployeeName       string  `json:"employeeName"`
	ServiceType        string  `json:"serviceType"`
	Status             string  `json:"status"`
	CollectionAmount   float64 `json:"collectionAmount"`
	ProblemDescription string  `json:"problemDescription"`
	Solution           string  `json:"solution"`
	Date               string  `json:"date"`
}

// ServiceHistoryInput is the caller-supplied part of a service history entry.
// The id and date are assigned by the server.
type ServiceHistoryInput struct {
	EmployeeName       string  `json:"employeeName" validate:"required,max=255"`
	ServiceType        string  `json:"serviceType" validate:"required,oneof=Installation Maintenance Repair Check-up"`
	Status             string  `json:"status" validate:"required,oneof=Completed 'In Progress' Pending"`
	CollectionAmount   float64 `json:"collectionAmount" validate:"gte=0"`
	ProblemDescription string  `json:"problemDescription" validate:"max=2000"`
	Solution           string  `json:"solution" validate:"max=2000"`
}

// CreateServiceHistoryRequest is the wire body of POST /service-history
type CreateServiceHistoryRequest struct {
	ServiceHistoryInput
	LicenseNumber string `json:"licenseNumber" validate:"required"`
}

// ServiceHistoryPatch carries the mutable service history fields for an update
type ServiceHistoryPatch struct {
	EmployeeName       *string  `json:"employeeName,omitempty" validate:"omitempty,min=1,max=255"`
	ServiceType        *string  `json:"serviceType,omitempty" validate:"omitempty,oneof=Installation Maintenance Repair Check-up"`
	Status             *string  `json:"status,omitempty" validate:"omitempty,oneof=Completed 'In Progress' Pending"`
	CollectionAmount   *float64 `json:"collectionAmount,omitempty" validate:"omitempty,gte=0"`
	ProblemDescription *string  `json:"problemDescription,omitempty" validate:"omitempty,max=2000"`
	Solution           *string  `json:"solution,omitempty" validate:"omitempty,max=2000"`
}

// Validate performs struct validation on service history input
func (in *ServiceHistoryInput) Validate() error {
	return Validate(in)
}

// Validate performs struct validation on a service history patch
func (p *ServiceHistoryPatch) Validate() error {
	return Validate(p)
}

// Apply merges the non-nil fields of p into the entry
func (p *ServiceHistoryPatch) Apply(h *ServiceHistory) {
	if p.EmployeeName != nil {
		h.EmployeeName = *p.EmployeeName
	}
	if p.ServiceType != nil {
		h.ServiceType = *p.ServiceType
	}
	if p.Status != nil {
		h.Status = *p.Status
	}
	if p.CollectionAmount != nil {
		h.CollectionAmount = *p.CollectionAmount
	}
	if p.ProblemDescription != nil {
		h.ProblemDescription = *p.ProblemDescription
	}
	if p.Solution != nil {
		h.Solution = *p.Solution
	}
}
