package models

import "time"

// AvailabilitySlot declares a weekly opening of a location. DayOfWeek follows
// the 0=Sunday..6=Saturday convention used throughout the scheduling engine.
type AvailabilitySlot struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Location is a physical site where lessons take place, with its weekly
// availability windows. The scheduling UI uses availability to offer valid
// slot choices; the engine itself does not enforce it.
type Location struct {
	ID           string             `db:"id" json:"id"`
	Name         string             `db:"name" json:"name"`
	Color        string             `db:"color" json:"color"`
	SupplierID   string             `db:"supplier_id" json:"supplier_id"`
	SupplierName string             `db:"supplier_name" json:"supplier_name"`
	Availability []AvailabilitySlot `db:"-" json:"availability"`
	Active       bool               `db:"active" json:"active"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}

// Snapshot returns the denormalized identity copied onto appointments.
func (l *Location) Snapshot() LocationSnapshot {
	return LocationSnapshot{ID: l.ID, Name: l.Name, Color: l.Color}
}

// LocationFilter narrows down location listings.
type LocationFilter struct {
	SupplierID string
	Active     *bool
	Search     string
}
