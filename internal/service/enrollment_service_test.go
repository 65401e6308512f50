package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corsia-app/corsia-api/internal/dto"
	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
	"github.com/corsia-app/corsia-api/pkg/events"
)

type enrollmentStoreStub struct {
	items   map[string]*models.Enrollment
	err     error
	created int
	saved   int
}

func newEnrollmentStoreStub() *enrollmentStoreStub {
	return &enrollmentStoreStub{items: make(map[string]*models.Enrollment)}
}

func cloneEnrollment(e *models.Enrollment) *models.Enrollment {
	clone := *e
	clone.Appointments = append([]models.Appointment(nil), e.Appointments...)
	return &clone
}

func (s *enrollmentStoreStub) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if s.err != nil {
		return nil, s.err
	}
	e, ok := s.items[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	return cloneEnrollment(e), nil
}

func (s *enrollmentStoreStub) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	var out []models.Enrollment
	for _, e := range s.items {
		out = append(out, *cloneEnrollment(e))
	}
	return out, len(out), nil
}

func (s *enrollmentStoreStub) Create(ctx context.Context, e *models.Enrollment) error {
	if s.err != nil {
		return s.err
	}
	if e.ID == "" {
		e.ID = "enr-new"
	}
	s.items[e.ID] = cloneEnrollment(e)
	s.created++
	return nil
}

func (s *enrollmentStoreStub) Save(ctx context.Context, e *models.Enrollment) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.items[e.ID]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	s.items[e.ID] = cloneEnrollment(e)
	s.saved++
	return nil
}

func (s *enrollmentStoreStub) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.items[id]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	delete(s.items, id)
	return nil
}

type locationReaderStub struct {
	items map[string]*models.Location
	err   error
}

func (s *locationReaderStub) FindByID(ctx context.Context, id string) (*models.Location, error) {
	if s.err != nil {
		return nil, s.err
	}
	loc, ok := s.items[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
	}
	clone := *loc
	return &clone, nil
}

type busStub struct {
	published []events.Event
}

func (b *busStub) Publish(event events.Event) {
	b.published = append(b.published, event)
}

func testLocations() *locationReaderStub {
	return &locationReaderStub{items: map[string]*models.Location{
		"loc-1": {ID: "loc-1", Name: "Piscina Comunale", Color: "#1e88e5", SupplierID: "sup-1", SupplierName: "ASD Nuoto", Active: true},
		"loc-2": {ID: "loc-2", Name: "Palestra Nord", Color: "#43a047", Active: true},
		"loc-off": {ID: "loc-off", Name: "Sede Chiusa", Color: "#999999", Active: false},
	}}
}

func newTestEnrollmentService(store *enrollmentStoreStub, bus *busStub) *EnrollmentService {
	return NewEnrollmentService(store, testLocations(), bus, nil, nil, nil, EnrollmentConfig{})
}

func TestEnrollmentCreateGeneratesWeeklySchedule(t *testing.T) {
	store := newEnrollmentStoreStub()
	bus := &busStub{}
	svc := newTestEnrollmentService(store, bus)

	enrollment, err := svc.Create(context.Background(), dto.CreateEnrollmentRequest{
		ClientID:    "cli-1",
		ChildName:   "Giulia",
		LocationID:  "loc-1",
		StartDate:   "2025-01-13",
		StartTime:   "16:00",
		EndTime:     "17:00",
		LessonCount: 4,
	})
	require.NoError(t, err)
	require.Len(t, enrollment.Appointments, 4)
	assert.Equal(t, models.EnrollmentModeStandard, enrollment.Mode)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Equal(t, 4, enrollment.LessonsTotal)
	assert.Equal(t, 4, enrollment.LessonsRemaining)
	assert.Equal(t, "Piscina Comunale", enrollment.LocationName)
	assert.Equal(t, time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC), enrollment.StartDate)
	assert.Equal(t, time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC), enrollment.EndDate)
	assert.Equal(t, 1, store.created)
	require.Len(t, bus.published, 1)
	assert.Equal(t, events.TopicEnrollmentChanged, bus.published[0].Topic)
	assert.Equal(t, enrollment.ID, bus.published[0].EntityID)
}

func TestEnrollmentCreateRejectsInvalidPayload(t *testing.T) {
	svc := newTestEnrollmentService(newEnrollmentStoreStub(), &busStub{})

	_, err := svc.Create(context.Background(), dto.CreateEnrollmentRequest{
		ChildName:   "Giulia",
		LocationID:  "loc-1",
		StartDate:   "2025-01-13",
		StartTime:   "16:00",
		EndTime:     "17:00",
		LessonCount: 4,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentCreateRejectsInactiveLocation(t *testing.T) {
	svc := newTestEnrollmentService(newEnrollmentStoreStub(), &busStub{})

	_, err := svc.Create(context.Background(), dto.CreateEnrollmentRequest{
		ClientID:    "cli-1",
		ChildName:   "Giulia",
		LocationID:  "loc-off",
		StartDate:   "2025-01-13",
		StartTime:   "16:00",
		EndTime:     "17:00",
		LessonCount: 4,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentPreviewDoesNotPersist(t *testing.T) {
	store := newEnrollmentStoreStub()
	svc := newTestEnrollmentService(store, &busStub{})

	preview, err := svc.Preview(context.Background(), dto.PreviewScheduleRequest{
		LocationID:  "loc-1",
		ChildName:   "Giulia",
		StartDate:   "2025-01-13",
		StartTime:   "16:00",
		EndTime:     "17:00",
		LessonCount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, preview.Requested)
	assert.Equal(t, 5, preview.Produced)
	assert.False(t, preview.Exhausted)
	assert.Len(t, preview.Appointments, 5)
	assert.Zero(t, store.created)
}

func TestEnrollmentPreviewReportsExhaustion(t *testing.T) {
	svc := newTestEnrollmentService(newEnrollmentStoreStub(), &busStub{})

	preview, err := svc.Preview(context.Background(), dto.PreviewScheduleRequest{
		LocationID:  "loc-1",
		StartDate:   "2025-01-13",
		StartTime:   "16:00",
		EndTime:     "17:00",
		LessonCount: 150,
	})
	require.NoError(t, err)
	assert.True(t, preview.Exhausted)
	assert.Less(t, preview.Produced, preview.Requested)
}

func TestBuilderSessionLifecycle(t *testing.T) {
	store := newEnrollmentStoreStub()
	bus := &busStub{}
	svc := newTestEnrollmentService(store, bus)
	// Friday before Ognissanti.
	svc.now = func() time.Time {
		return time.Date(2025, time.October, 31, 9, 0, 0, 0, time.UTC)
	}

	session, err := svc.StartSession(dto.StartBuilderSessionRequest{ClientID: "cli-2", ChildName: "Marco"})
	require.NoError(t, err)
	assert.Zero(t, session.Count)

	// Immacolata: single insert trusts the typed date.
	session, err = svc.AddSingleSlot(context.Background(), session.SessionID, dto.AddSingleSlotRequest{
		Date:       "2025-12-08",
		StartTime:  "10:00",
		EndTime:    "11:00",
		LocationID: "loc-2",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, session.Count)

	weekly, err := svc.AddWeeklySlots(context.Background(), session.SessionID, dto.AddWeeklySlotsRequest{
		Weekday:    int(time.Saturday),
		StartTime:  "09:00",
		EndTime:    "10:00",
		LocationID: "loc-1",
		Count:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, weekly.Produced)
	assert.Equal(t, 3, weekly.Session.Count)
	// Nov 1 is Ognissanti, so the series starts on Nov 8.
	assert.Equal(t, time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC), weekly.Session.Appointments[0].Date)

	victim := weekly.Session.Appointments[0].LessonID
	session, err = svc.RemoveSlot(weekly.Session.SessionID, victim)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Count)

	enrollment, err := svc.FinalizeSession(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentModeInstitutional, enrollment.Mode)
	assert.Equal(t, "cli-2", enrollment.ClientID)
	assert.Equal(t, 2, enrollment.LessonsTotal)
	assert.Equal(t, 2, enrollment.LessonsRemaining)
	assert.Equal(t, 1, store.created)
	require.Len(t, bus.published, 1)

	// The session is gone once finalized.
	_, err = svc.FinalizeSession(context.Background(), session.SessionID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBuilderSessionFinalizeRequiresAppointments(t *testing.T) {
	svc := newTestEnrollmentService(newEnrollmentStoreStub(), &busStub{})

	session, err := svc.StartSession(dto.StartBuilderSessionRequest{ClientID: "cli-2", ChildName: "Marco"})
	require.NoError(t, err)

	_, err = svc.FinalizeSession(context.Background(), session.SessionID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestBuilderSessionExpires(t *testing.T) {
	svc := newTestEnrollmentService(newEnrollmentStoreStub(), &busStub{})

	session, err := svc.StartSession(dto.StartBuilderSessionRequest{ClientID: "cli-2", ChildName: "Marco"})
	require.NoError(t, err)

	svc.sessions.mu.Lock()
	svc.sessions.items[session.SessionID].TouchedAt = time.Now().Add(-time.Hour)
	svc.sessions.mu.Unlock()

	_, err = svc.FinalizeSession(context.Background(), session.SessionID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionExpired.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentListClampsPagination(t *testing.T) {
	store := newEnrollmentStoreStub()
	store.items["enr-1"] = &models.Enrollment{ID: "enr-1"}
	svc := newTestEnrollmentService(store, &busStub{})

	items, pagination, err := svc.List(context.Background(), dto.ListEnrollmentsQuery{Page: -3, PageSize: 9999})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}
