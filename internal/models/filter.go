package models

import "fmt"

// FilterSpec holds the reports view criteria. Empty fields are inactive.
type FilterSpec struct {
	SearchQuery string `json:"searchQuery"`
	FromDate    string `json:"fromDate"`
	ToDate      string `json:"toDate"`
	ServiceType string `json:"serviceType"`
	InstalledBy string `json:"installedBy"`
}

// IsEmpty reports whether no criterion is active
func (f FilterSpec) IsEmpty() bool {
	return f.SearchQuery == "" && f.FromDate == "" && f.ToDate == "" &&
		f.ServiceType == "" && f.InstalledBy == ""
}

// HasDateBounds reports whether a from or to date is set
func (f FilterSpec) HasDateBounds() bool {
	return f.FromDate != "" || f.ToDate != ""
}

// Validate checks the date bounds and service type of the filter
func (f FilterSpec) Validate() error {
	if f.FromDate != "" && !IsISODate(f.FromDate) {
		return ErrInvalidInput(fmt.Sprintf("invalid fromDate: %s (expected YYYY-MM-DD)", f.FromDate))
	}
	if f.ToDate != "" && !IsISODate(f.ToDate) {
		return ErrInvalidInput(fmt.Sprintf("invalid toDate: %s (expected YYYY-MM-DD)", f.ToDate))
	}
	if f.FromDate != "" && f.ToDate != "" && f.FromDate > f.ToDate {
		return ErrInvalidInput("fromDate must not be after toDate")
	}
	if f.ServiceType != "" && !IsValidCustomerServiceType(f.ServiceType) {
		return ErrInvalidInput(fmt.Sprintf("invalid serviceType: %s (must be 'New' or 'Renewal')", f.ServiceType))
	}
	return nil
}

// IsValidCustomerServiceType checks if the customer service type is valid
func IsValidCustomerServiceType(t string) bool {
	return t == CustomerServiceNew || t == CustomerServiceRenewal
}
