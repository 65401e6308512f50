package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corsia-app/corsia-api/internal/dto"
	"github.com/corsia-app/corsia-api/internal/models"
	"github.com/corsia-app/corsia-api/internal/scheduling"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
	"github.com/corsia-app/corsia-api/pkg/events"
)

type enrollmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error)
	Create(ctx context.Context, e *models.Enrollment) error
	Save(ctx context.Context, e *models.Enrollment) error
	Delete(ctx context.Context, id string) error
}

type locationReader interface {
	FindByID(ctx context.Context, id string) (*models.Location, error)
}

type eventPublisher interface {
	Publish(event events.Event)
}

// EnrollmentService owns the enrollment lifecycle: standard package creation,
// schedule previews and the custom-schedule builder sessions used for
// institutional enrollments.
type EnrollmentService struct {
	enrollments enrollmentStore
	locations   locationReader
	bus         eventPublisher
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	sessions    *builderSessionStore
	now         func() time.Time
}

// EnrollmentConfig governs builder session behaviour.
type EnrollmentConfig struct {
	SessionTTL time.Duration
}

// NewEnrollmentService wires enrollment dependencies.
func NewEnrollmentService(
	enrollments enrollmentStore,
	locations locationReader,
	bus eventPublisher,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg EnrollmentConfig,
) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	return &EnrollmentService{
		enrollments: enrollments,
		locations:   locations,
		bus:         bus,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		sessions:    newBuilderSessionStore(cfg.SessionTTL),
		now:         time.Now,
	}
}

// Create opens a standard weekly package: generates the appointment schedule,
// persists the enrollment and publishes a change event.
func (s *EnrollmentService) Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	location, err := s.loadLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	result := scheduling.GenerateWeekly(scheduling.SlotSpec{
		StartDate: startDate,
		Weekday:   toWeekday(req.Weekday),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  location.Snapshot(),
		ChildName: req.ChildName,
		Count:     req.LessonCount,
	})
	if s.metrics != nil {
		s.metrics.ObserveGeneration(result.Requested, result.Produced)
	}
	if result.Produced == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no schedulable dates found for the requested slot")
	}
	if result.Exhausted() {
		s.logger.Warn("weekly generation came up short",
			zap.Int("requested", result.Requested),
			zap.Int("produced", result.Produced))
	}

	enrollment := &models.Enrollment{
		ClientID:         req.ClientID,
		ChildName:        req.ChildName,
		Mode:             models.EnrollmentModeStandard,
		LessonsTotal:     req.LessonCount,
		LessonsRemaining: req.LessonCount,
		LocationID:       location.ID,
		LocationName:     location.Name,
		LocationColor:    location.Color,
		SupplierID:       location.SupplierID,
		SupplierName:     location.SupplierName,
		Status:           models.EnrollmentStatusActive,
		Appointments:     result.Appointments,
	}
	enrollment.RecalculateBounds()

	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist enrollment")
	}
	s.publishChange(enrollment.ID, "created")
	return enrollment, nil
}

// Preview runs the weekly generator without persisting anything.
func (s *EnrollmentService) Preview(ctx context.Context, req dto.PreviewScheduleRequest) (*dto.SchedulePreviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preview payload")
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	location, err := s.loadLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	result := scheduling.GenerateWeekly(scheduling.SlotSpec{
		StartDate: startDate,
		Weekday:   toWeekday(req.Weekday),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  location.Snapshot(),
		ChildName: req.ChildName,
		Count:     req.LessonCount,
	})
	return &dto.SchedulePreviewResponse{
		Requested:    result.Requested,
		Produced:     result.Produced,
		Exhausted:    result.Exhausted(),
		Appointments: result.Appointments,
	}, nil
}

// Get returns one enrollment by ID.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// List returns enrollments matching the query plus pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, query dto.ListEnrollmentsQuery) ([]models.Enrollment, *models.Pagination, error) {
	filter := models.EnrollmentFilter{
		ClientID:   query.ClientID,
		LocationID: query.LocationID,
		Status:     models.EnrollmentStatus(query.Status),
		Mode:       models.EnrollmentMode(query.Mode),
		Page:       query.Page,
		PageSize:   query.PageSize,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	items, total, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return items, pagination, nil
}

// Delete removes an enrollment entirely.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if err := s.enrollments.Delete(ctx, id); err != nil {
		return err
	}
	s.publishChange(id, "deleted")
	return nil
}

// StartSession opens a custom-schedule builder session.
func (s *EnrollmentService) StartSession(req dto.StartBuilderSessionRequest) (*dto.BuilderSessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	session := &builderSession{
		ID:        uuid.NewString(),
		ClientID:  req.ClientID,
		Builder:   scheduling.NewBuilder(req.ChildName, s.now),
		ChildName: req.ChildName,
		TouchedAt: s.now(),
	}
	s.sessions.Save(session)
	resp := s.sessionResponse(session)
	return &resp, nil
}

// AddSingleSlot appends one explicit appointment to a session. The date is
// trusted as typed: holidays are allowed.
func (s *EnrollmentService) AddSingleSlot(ctx context.Context, sessionID string, req dto.AddSingleSlotRequest) (*dto.BuilderSessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	location, err := s.loadLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(sessionID, s.now())
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	session.Builder.AddSingle(date, req.StartTime, req.EndTime, location.Snapshot())
	session.TouchedAt = s.now()
	session.mu.Unlock()
	resp := s.sessionResponse(session)
	return &resp, nil
}

// AddWeeklySlots bulk-appends a weekly series to a session, anchored on the
// current date and skipping holidays.
func (s *EnrollmentService) AddWeeklySlots(ctx context.Context, sessionID string, req dto.AddWeeklySlotsRequest) (*dto.AddWeeklySlotsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid weekly slots payload")
	}
	location, err := s.loadLocation(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(sessionID, s.now())
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	result := session.Builder.AddWeekly(time.Weekday(req.Weekday), req.StartTime, req.EndTime, location.Snapshot(), req.Count)
	session.TouchedAt = s.now()
	session.mu.Unlock()
	if s.metrics != nil {
		s.metrics.ObserveGeneration(result.Requested, result.Produced)
	}
	return &dto.AddWeeklySlotsResponse{
		Requested: result.Requested,
		Produced:  result.Produced,
		Exhausted: result.Exhausted(),
		Session:   s.sessionResponse(session),
	}, nil
}

// RemoveSlot drops one appointment from a session draft.
func (s *EnrollmentService) RemoveSlot(sessionID, lessonID string) (*dto.BuilderSessionResponse, error) {
	session, err := s.sessions.Get(sessionID, s.now())
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	removed := session.Builder.Remove(lessonID)
	session.TouchedAt = s.now()
	session.mu.Unlock()
	if !removed {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found in session")
	}
	resp := s.sessionResponse(session)
	return &resp, nil
}

// FinalizeSession turns the session draft into a persisted institutional
// enrollment. Totals, credit and date bounds all derive from the drafted list.
func (s *EnrollmentService) FinalizeSession(ctx context.Context, sessionID string) (*models.Enrollment, error) {
	session, err := s.sessions.Get(sessionID, s.now())
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.Builder.Len() == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "session holds no appointments")
	}

	enrollment := &models.Enrollment{
		ClientID:  session.ClientID,
		ChildName: session.ChildName,
		Status:    models.EnrollmentStatusActive,
	}
	session.Builder.Finalize(enrollment)

	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist enrollment")
	}
	s.sessions.Delete(sessionID)
	s.publishChange(enrollment.ID, "created")
	return enrollment, nil
}

func (s *EnrollmentService) sessionResponse(session *builderSession) dto.BuilderSessionResponse {
	session.mu.Lock()
	defer session.mu.Unlock()
	return dto.BuilderSessionResponse{
		SessionID:    session.ID,
		ClientID:     session.ClientID,
		ChildName:    session.ChildName,
		Appointments: session.Builder.Appointments(),
		Count:        session.Builder.Len(),
		ExpiresAt:    session.TouchedAt.Add(s.sessions.ttl),
	}
}

func (s *EnrollmentService) loadLocation(ctx context.Context, id string) (*models.Location, error) {
	location, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !location.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("location %s is not active", location.Name))
	}
	return location, nil
}

func (s *EnrollmentService) publishChange(enrollmentID, action string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Topic:      events.TopicEnrollmentChanged,
		EntityID:   enrollmentID,
		OccurredAt: time.Now().UTC(),
		Payload:    map[string]any{"action": action},
	})
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value))
	}
	return date.UTC(), nil
}

func toWeekday(value *int) *time.Weekday {
	if value == nil {
		return nil
	}
	weekday := time.Weekday(*value)
	return &weekday
}

// builderSession is one in-flight custom schedule draft.
type builderSession struct {
	ID        string
	ClientID  string
	ChildName string
	Builder   *scheduling.Builder
	TouchedAt time.Time
	mu        sync.Mutex
}

type builderSessionStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]*builderSession
}

func newBuilderSessionStore(ttl time.Duration) *builderSessionStore {
	return &builderSessionStore{
		ttl:   ttl,
		items: make(map[string]*builderSession),
	}
}

func (s *builderSessionStore) Save(session *builderSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[session.ID] = session
}

func (s *builderSessionStore) Get(id string, now time.Time) (*builderSession, error) {
	s.mu.RLock()
	session, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	session.mu.Lock()
	expired := now.Sub(session.TouchedAt) > s.ttl
	session.mu.Unlock()
	if expired {
		s.Delete(id)
		return nil, appErrors.Clone(appErrors.ErrSessionExpired, "session expired")
	}
	return session, nil
}

func (s *builderSessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
