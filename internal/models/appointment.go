package models

import "time"

// AppointmentStatus represents the attendance state of a single lesson slot.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusPresent   AppointmentStatus = "PRESENT"
	AppointmentStatusAbsent    AppointmentStatus = "ABSENT"
)

// Valid returns true when the status is a supported value.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusPresent, AppointmentStatusAbsent:
		return true
	default:
		return false
	}
}

// Appointment is one scheduled occurrence of a lesson within an enrollment.
// Location fields are a snapshot taken at scheduling (or presence) time, never
// a live reference: historical attendance keeps the location identity that was
// true when the lesson happened.
type Appointment struct {
	LessonID      string            `json:"lesson_id"`
	Date          time.Time         `json:"date"`
	StartTime     string            `json:"start_time"`
	EndTime       string            `json:"end_time"`
	LocationID    string            `json:"location_id"`
	LocationName  string            `json:"location_name"`
	LocationColor string            `json:"location_color"`
	ChildName     string            `json:"child_name"`
	Status        AppointmentStatus `json:"status"`
}

// LocationSnapshot is the denormalized location identity copied onto
// appointments at creation time.
type LocationSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
