package models

import (
	"sort"
	"time"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusPending   EnrollmentStatus = "PENDING"
	EnrollmentStatusActive    EnrollmentStatus = "ACTIVE"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusExpired   EnrollmentStatus = "EXPIRED"
)

// EnrollmentMode distinguishes package enrollments with a fixed weekly slot
// from institutional enrollments built appointment by appointment.
type EnrollmentMode string

const (
	EnrollmentModeStandard      EnrollmentMode = "STANDARD"
	EnrollmentModeInstitutional EnrollmentMode = "INSTITUTIONAL"
)

// MixedLocationSentinel marks the enrollment-level location fields when
// individual appointments carry differing locations (institutional mode).
const MixedLocationSentinel = "mixed"

// Enrollment is the aggregate root for one client's lesson package: the
// appointment list, the consumable credit counter and the current
// location/supplier assignment snapshot.
type Enrollment struct {
	ID               string           `json:"id"`
	ClientID         string           `json:"client_id"`
	ChildName        string           `json:"child_name"`
	Mode             EnrollmentMode   `json:"mode"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	LessonsTotal     int              `json:"lessons_total"`
	LessonsRemaining int              `json:"lessons_remaining"`
	LocationID       string           `json:"location_id"`
	LocationName     string           `json:"location_name"`
	LocationColor    string           `json:"location_color"`
	SupplierID       string           `json:"supplier_id"`
	SupplierName     string           `json:"supplier_name"`
	Status           EnrollmentStatus `json:"status"`
	Appointments     []Appointment    `json:"appointments"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// FindAppointment returns the index of the appointment with the given lesson
// ID, or -1 when absent.
func (e *Enrollment) FindAppointment(lessonID string) int {
	for i := range e.Appointments {
		if e.Appointments[i].LessonID == lessonID {
			return i
		}
	}
	return -1
}

// SortAppointments re-sorts the appointment list by ascending date.
func (e *Enrollment) SortAppointments() {
	sort.SliceStable(e.Appointments, func(i, j int) bool {
		return e.Appointments[i].Date.Before(e.Appointments[j].Date)
	})
}

// RecalculateBounds re-derives StartDate and EndDate from the min/max
// appointment dates. A no-op on an empty appointment list.
func (e *Enrollment) RecalculateBounds() {
	if len(e.Appointments) == 0 {
		return
	}
	min, max := e.Appointments[0].Date, e.Appointments[0].Date
	for _, a := range e.Appointments[1:] {
		if a.Date.Before(min) {
			min = a.Date
		}
		if a.Date.After(max) {
			max = a.Date
		}
	}
	e.StartDate = min
	e.EndDate = max
}

// CurrentLocation returns the enrollment's current assignment snapshot.
func (e *Enrollment) CurrentLocation() LocationSnapshot {
	return LocationSnapshot{ID: e.LocationID, Name: e.LocationName, Color: e.LocationColor}
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	ClientID   string
	LocationID string
	Status     EnrollmentStatus
	Mode       EnrollmentMode
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
