package dto

// AvailabilitySlotRequest declares one weekly opening window
// (0=Sunday..6=Saturday).
type AvailabilitySlotRequest struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// CreateLocationRequest registers a new lesson site.
type CreateLocationRequest struct {
	Name         string                    `json:"name" validate:"required"`
	Color        string                    `json:"color" validate:"required"`
	SupplierID   string                    `json:"supplierId"`
	SupplierName string                    `json:"supplierName"`
	Availability []AvailabilitySlotRequest `json:"availability" validate:"omitempty,dive"`
}

// UpdateLocationRequest mutates an existing location. Nil fields are left
// untouched.
type UpdateLocationRequest struct {
	Name         *string                   `json:"name" validate:"omitempty,min=1"`
	Color        *string                   `json:"color" validate:"omitempty,min=1"`
	SupplierID   *string                   `json:"supplierId"`
	SupplierName *string                   `json:"supplierName"`
	Availability []AvailabilitySlotRequest `json:"availability" validate:"omitempty,dive"`
	Active       *bool                     `json:"active"`
}

// ListLocationsQuery filters location listings.
type ListLocationsQuery struct {
	SupplierID string `form:"supplierId" json:"supplierId"`
	Active     *bool  `form:"active" json:"active"`
	Search     string `form:"search" json:"search"`
}
