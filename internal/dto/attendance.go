package dto

import "github.com/corsia-app/corsia-api/internal/models"

// ManualSlotRequest names the replacement slot for a manually recovered
// absence. When LocationID is empty the enrollment's current location is used.
type ManualSlotRequest struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string `json:"startTime" validate:"required"`
	EndTime    string `json:"endTime" validate:"required"`
	LocationID string `json:"locationId"`
}

// MarkAbsentRequest records an absence together with the recovery decision.
type MarkAbsentRequest struct {
	Strategy string             `json:"strategy" validate:"required,oneof=lost recover_auto recover_manual"`
	Slot     *ManualSlotRequest `json:"slot" validate:"omitempty"`
}

// AttendanceResponse returns the updated enrollment plus any recovery slot the
// absence produced.
type AttendanceResponse struct {
	Enrollment        *models.Enrollment  `json:"enrollment"`
	Recovery          *models.Appointment `json:"recovery,omitempty"`
	RecoveryExhausted bool                `json:"recoveryExhausted"`
}

// BulkAbsenceItem identifies one lesson inside one enrollment.
type BulkAbsenceItem struct {
	EnrollmentID string `json:"enrollmentId" validate:"required"`
	LessonID     string `json:"lessonId" validate:"required"`
}

// BulkAbsenceRequest applies a single recovery decision to a group of lessons,
// typically the members of one shared session.
type BulkAbsenceRequest struct {
	Strategy string             `json:"strategy" validate:"required,oneof=lost recover_auto recover_manual"`
	Slot     *ManualSlotRequest `json:"slot" validate:"omitempty"`
	Items    []BulkAbsenceItem  `json:"items" validate:"required,min=1,dive"`
}

// BulkAbsenceResult reports the per-item outcome of a bulk absence.
type BulkAbsenceResult struct {
	EnrollmentID      string              `json:"enrollmentId"`
	LessonID          string              `json:"lessonId"`
	Error             string              `json:"error,omitempty"`
	Recovery          *models.Appointment `json:"recovery,omitempty"`
	RecoveryExhausted bool                `json:"recoveryExhausted"`
}
