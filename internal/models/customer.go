package models

// Customer service types
const (
	CustomerServiceNew     = "New"
	CustomerServiceRenewal = "Renewal"
)

// Customer represents an installation customer, keyed by license number
type Customer struct {
	LicenseNumber  string           `json:"licenseNumber"`
	Name           string           `json:"name"`
	MonthYear      string           `json:"monthYear"`
	Address        string           `json:"address"`
	Mobile1        string           `json:"mobile1"`
	Mobile2        string           `json:"mobile2,omitempty"`
	InstalledBy    string           `json:"installedBy"`
	ServiceType    string           `json:"serviceType"`
	InstalledOn    string           `json:"installedOn"`
	ServiceHistory []ServiceHistory `json:"serviceHistory,omitempty"`
}

// CustomerInput is the payload accepted when creating a customer
type CustomerInput struct {
	LicenseNumber string `json:"licenseNumber" validate:"required,max=64"`
	Name          string `json:"name" validate:"required,max=255"`
	MonthYear     string `json:"monthYear" validate:"max=32"`
	Address       string `json:"address" validate:"max=512"`
	Mobile1       string `json:"mobile1" validate:"required,max=32"`
	Mobile2       string `json:"mobile2,omitempty" validate:"max=32"`
	InstalledBy   string `json:"installedBy" validate:"max=255"`
	ServiceType   string `json:"serviceType" validate:"required,oneof=New Renewal"`
	InstalledOn   string `json:"installedOn" validate:"required,isodate"`
}

// CustomerPatch carries the mutable customer fields for an update.
// Nil fields are left untouched.
type CustomerPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	MonthYear   *string `json:"monthYear,omitempty" validate:"omitempty,max=32"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=512"`
	Mobile1     *string `json:"mobile1,omitempty" validate:"omitempty,min=1,max=32"`
	Mobile2     *string `json:"mobile2,omitempty" validate:"omitempty,max=32"`
	InstalledBy *string `json:"installedBy,omitempty" validate:"omitempty,max=255"`
	ServiceType *string `json:"serviceType,omitempty" validate:"omitempty,oneof=New Renewal"`
	InstalledOn *string `json:"installedOn,omitempty" validate:"omitempty,isodate"`
}

// Input returns the creation payload for the customer
func (c *Customer) Input() CustomerInput {
	return CustomerInput{
		LicenseNumber: c.LicenseNumber,
		Name:          c.Name,
		MonthYear:     c.MonthYear,
		Address:       c.Address,
		Mobile1:       c.Mobile1,
		Mobile2:       c.Mobile2,
		InstalledBy:   c.InstalledBy,
		ServiceType:   c.ServiceType,
		InstalledOn:   c.InstalledOn,
	}
}

// Patch returns a patch that sets every mutable field to the customer's values
func (c *Customer) Patch() CustomerPatch {
	return CustomerPatch{
		Name:        strPtr(c.Name),
		MonthYear:   strPtr(c.MonthYear),
		Address:     strPtr(c.Address),
		Mobile1:     strPtr(c.Mobile1),
		Mobile2:     strPtr(c.Mobile2),
		InstalledBy: strPtr(c.InstalledBy),
		ServiceType: strPtr(c.ServiceType),
		InstalledOn: strPtr(c.InstalledOn),
	}
}

// Apply merges the non-nil fields of p into the customer
func (p *CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.MonthYear != nil {
		c.MonthYear = *p.MonthYear
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Mobile1 != nil {
		c.Mobile1 = *p.Mobile1
	}
	if p.Mobile2 != nil {
		c.Mobile2 = *p.Mobile2
	}
	if p.InstalledBy != nil {
		c.InstalledBy = *p.InstalledBy
	}
	if p.ServiceType != nil {
		c.ServiceType = *p.ServiceType
	}
	if p.InstalledOn != nil {
		c.InstalledOn = *p.InstalledOn
	}
}

// NewCustomer builds a customer with an empty service history from input
func NewCustomer(in CustomerInput) *Customer {
	return &Customer{
		LicenseNumber:  in.LicenseNumber,
		Name:           in.Name,
		MonthYear:      in.MonthYear,
		Address:        in.Address,
		Mobile1:        in.Mobile1,
		Mobile2:        in.Mobile2,
		InstalledBy:    in.InstalledBy,
		ServiceType:    in.ServiceType,
		InstalledOn:    in.InstalledOn,
		ServiceHistory: []ServiceHistory{},
	}
}

// Clone returns a deep copy that shares no memory with c
func (c *Customer) Clone() Customer {
	out := *c
	if c.ServiceHistory != nil {
		out.ServiceHistory = make([]ServiceHistory, len(c.ServiceHistory))
		copy(out.ServiceHistory, c.ServiceHistory)
	}
	return out
}

// CloneCustomers deep-copies a customer slice
func CloneCustomers(customers []Customer) []Customer {
	out := make([]Customer, len(customers))
	for i := range customers {
		out[i] = customers[i].Clone()
	}
	return out
}

// Validate performs struct validation on customer input
func (in *CustomerInput) Validate() error {
	return Validate(in)
}

// Validate performs struct validation on a customer patch
func (p *CustomerPatch) Validate() error {
	return Validate(p)
}

func strPtr(s string) *string {
	return &s
}
