package dto

import (
	"time"

	"github.com/corsia-app/corsia-api/internal/models"
)

// CreateEnrollmentRequest opens a standard lesson package with a fixed weekly
// slot. StartDate anchors the schedule; when Weekday is set the first lesson
// advances to that weekday (0=Sunday..6=Saturday).
type CreateEnrollmentRequest struct {
	ClientID    string `json:"clientId" validate:"required"`
	ChildName   string `json:"childName" validate:"required"`
	LocationID  string `json:"locationId" validate:"required"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	Weekday     *int   `json:"weekday" validate:"omitempty,min=0,max=6"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	LessonCount int    `json:"lessonCount" validate:"required,min=1"`
}

// PreviewScheduleRequest asks for the slots a package would produce without
// persisting anything.
type PreviewScheduleRequest struct {
	LocationID  string `json:"locationId" validate:"required"`
	ChildName   string `json:"childName"`
	StartDate   string `json:"startDate" validate:"required,datetime=2006-01-02"`
	Weekday     *int   `json:"weekday" validate:"omitempty,min=0,max=6"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime" validate:"required"`
	LessonCount int    `json:"lessonCount" validate:"required,min=1"`
}

// SchedulePreviewResponse reports the generated slots plus the requested and
// produced counts so callers can see when the generator came up short.
type SchedulePreviewResponse struct {
	Requested    int                  `json:"requested"`
	Produced     int                  `json:"produced"`
	Exhausted    bool                 `json:"exhausted"`
	Appointments []models.Appointment `json:"appointments"`
}

// ListEnrollmentsQuery filters enrollment listings.
type ListEnrollmentsQuery struct {
	ClientID   string `form:"clientId" json:"clientId"`
	LocationID string `form:"locationId" json:"locationId"`
	Status     string `form:"status" json:"status"`
	Mode       string `form:"mode" json:"mode"`
	Page       int    `form:"page" json:"page"`
	PageSize   int    `form:"pageSize" json:"pageSize"`
	SortBy     string `form:"sortBy" json:"sortBy"`
	SortOrder  string `form:"sortOrder" json:"sortOrder"`
}

// StartBuilderSessionRequest opens a custom schedule drafting session for an
// institutional enrollment.
type StartBuilderSessionRequest struct {
	ClientID  string `json:"clientId" validate:"required"`
	ChildName string `json:"childName" validate:"required"`
}

// AddSingleSlotRequest appends one explicit appointment to a builder session.
// The date is trusted as typed, holidays included.
type AddSingleSlotRequest struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string `json:"startTime" validate:"required"`
	EndTime    string `json:"endTime" validate:"required"`
	LocationID string `json:"locationId" validate:"required"`
}

// AddWeeklySlotsRequest bulk-appends a weekly series to a builder session,
// anchored on the current date.
type AddWeeklySlotsRequest struct {
	Weekday    int    `json:"weekday" validate:"min=0,max=6"`
	StartTime  string `json:"startTime" validate:"required"`
	EndTime    string `json:"endTime" validate:"required"`
	LocationID string `json:"locationId" validate:"required"`
	Count      int    `json:"count" validate:"required,min=1"`
}

// BuilderSessionResponse is the current draft state of a session.
type BuilderSessionResponse struct {
	SessionID    string               `json:"sessionId"`
	ClientID     string               `json:"clientId"`
	ChildName    string               `json:"childName"`
	Appointments []models.Appointment `json:"appointments"`
	Count        int                  `json:"count"`
	ExpiresAt    time.Time            `json:"expiresAt"`
}

// AddWeeklySlotsResponse couples the generation counters with the refreshed
// session state.
type AddWeeklySlotsResponse struct {
	Requested int                    `json:"requested"`
	Produced  int                    `json:"produced"`
	Exhausted bool                   `json:"exhausted"`
	Session   BuilderSessionResponse `json:"session"`
}
