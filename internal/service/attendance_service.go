package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/corsia-app/corsia-api/internal/dto"
	"github.com/corsia-app/corsia-api/internal/models"
	"github.com/corsia-app/corsia-api/internal/scheduling"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
	"github.com/corsia-app/corsia-api/pkg/events"
)

// AttendanceService applies attendance mutations to enrollments: presence,
// absence with recovery planning, reverts and appointment deletion. Mutations
// on the same enrollment are serialized through a per-enrollment lock so the
// read-modify-write against the appointment document stays consistent.
type AttendanceService struct {
	enrollments enrollmentStore
	locations   locationReader
	bus         eventPublisher
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	locks       sync.Map
}

// NewAttendanceService wires attendance dependencies.
func NewAttendanceService(
	enrollments enrollmentStore,
	locations locationReader,
	bus eventPublisher,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		enrollments: enrollments,
		locations:   locations,
		bus:         bus,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// MarkPresent consumes one lesson credit and stamps the current location onto
// the appointment. Idempotent when the lesson is already present.
func (s *AttendanceService) MarkPresent(ctx context.Context, enrollmentID, lessonID string) (*dto.AttendanceResponse, error) {
	enrollment, err := s.mutate(ctx, enrollmentID, func(e *models.Enrollment) error {
		return scheduling.MarkPresent(e, lessonID)
	})
	if err != nil {
		return nil, err
	}
	s.observe("present")
	return &dto.AttendanceResponse{Enrollment: enrollment}, nil
}

// MarkAbsent records an absence and applies the chosen recovery strategy.
// Credit is never touched: the absence either burns the slot, moves it to the
// next valid same-weekday date or moves it to an explicit replacement slot.
func (s *AttendanceService) MarkAbsent(ctx context.Context, enrollmentID, lessonID string, req dto.MarkAbsentRequest) (*dto.AttendanceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	manual, err := s.resolveManualSlot(ctx, req.Strategy, req.Slot)
	if err != nil {
		return nil, err
	}

	var outcome scheduling.Outcome
	enrollment, err := s.mutate(ctx, enrollmentID, func(e *models.Enrollment) error {
		var markErr error
		outcome, markErr = scheduling.MarkAbsent(e, lessonID, scheduling.Strategy(req.Strategy), manual)
		return markErr
	})
	if err != nil {
		return nil, err
	}
	s.observe("absent")
	if s.metrics != nil {
		s.metrics.ObserveRecovery(req.Strategy, outcome.Exhausted)
	}
	if outcome.Exhausted {
		s.logger.Warn("auto recovery found no slot within the scan window",
			zap.String("enrollment_id", enrollmentID),
			zap.String("lesson_id", lessonID))
	}
	return &dto.AttendanceResponse{
		Enrollment:        enrollment,
		Recovery:          outcome.Appended,
		RecoveryExhausted: outcome.Exhausted,
	}, nil
}

// MarkAbsentBulk applies one recovery decision to a group of lessons, e.g.
// every participant of a cancelled shared session. Items mutate their own
// enrollments independently and failures are reported per item.
func (s *AttendanceService) MarkAbsentBulk(ctx context.Context, req dto.BulkAbsenceRequest) ([]dto.BulkAbsenceResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk absence payload")
	}
	manual, err := s.resolveManualSlot(ctx, req.Strategy, req.Slot)
	if err != nil {
		return nil, err
	}

	results := make([]dto.BulkAbsenceResult, 0, len(req.Items))
	for _, item := range req.Items {
		result := dto.BulkAbsenceResult{EnrollmentID: item.EnrollmentID, LessonID: item.LessonID}
		var outcome scheduling.Outcome
		_, itemErr := s.mutate(ctx, item.EnrollmentID, func(e *models.Enrollment) error {
			var markErr error
			outcome, markErr = scheduling.MarkAbsent(e, item.LessonID, scheduling.Strategy(req.Strategy), manual)
			return markErr
		})
		if itemErr != nil {
			result.Error = appErrors.FromError(itemErr).Message
		} else {
			s.observe("absent")
			if s.metrics != nil {
				s.metrics.ObserveRecovery(req.Strategy, outcome.Exhausted)
			}
			result.Recovery = outcome.Appended
			result.RecoveryExhausted = outcome.Exhausted
		}
		results = append(results, result)
	}
	return results, nil
}

// Revert returns an appointment to the scheduled state, restoring the credit
// a presence consumed.
func (s *AttendanceService) Revert(ctx context.Context, enrollmentID, lessonID string) (*dto.AttendanceResponse, error) {
	enrollment, err := s.mutate(ctx, enrollmentID, func(e *models.Enrollment) error {
		return scheduling.Revert(e, lessonID)
	})
	if err != nil {
		return nil, err
	}
	s.observe("revert")
	return &dto.AttendanceResponse{Enrollment: enrollment}, nil
}

// DeleteAppointment removes one appointment, restoring credit if it had been
// marked present and re-deriving the package date bounds.
func (s *AttendanceService) DeleteAppointment(ctx context.Context, enrollmentID, lessonID string) (*dto.AttendanceResponse, error) {
	enrollment, err := s.mutate(ctx, enrollmentID, func(e *models.Enrollment) error {
		return scheduling.Delete(e, lessonID)
	})
	if err != nil {
		return nil, err
	}
	s.observe("delete")
	return &dto.AttendanceResponse{Enrollment: enrollment}, nil
}

// mutate loads the enrollment, applies fn and saves, holding the
// per-enrollment lock for the whole cycle.
func (s *AttendanceService) mutate(ctx context.Context, enrollmentID string, fn func(*models.Enrollment) error) (*models.Enrollment, error) {
	lock := s.lockFor(enrollmentID)
	lock.Lock()
	defer lock.Unlock()

	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if err := fn(enrollment); err != nil {
		return nil, err
	}
	if err := s.enrollments.Save(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist enrollment")
	}
	s.publishChange(enrollmentID)
	return enrollment, nil
}

func (s *AttendanceService) lockFor(enrollmentID string) *sync.Mutex {
	actual, _ := s.locks.LoadOrStore(enrollmentID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// resolveManualSlot validates the manual strategy's replacement slot and
// resolves its location snapshot. Returns nil for the other strategies.
func (s *AttendanceService) resolveManualSlot(ctx context.Context, strategy string, slot *dto.ManualSlotRequest) (*scheduling.ManualSlot, error) {
	if scheduling.Strategy(strategy) != scheduling.StrategyRecoverManual {
		return nil, nil
	}
	if slot == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "manual recovery requires a replacement slot")
	}
	date, err := parseDate(slot.Date)
	if err != nil {
		return nil, err
	}
	manual := &scheduling.ManualSlot{
		Date:      date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}
	if slot.LocationID != "" {
		location, err := s.locations.FindByID(ctx, slot.LocationID)
		if err != nil {
			return nil, err
		}
		manual.Location = location.Snapshot()
	}
	return manual, nil
}

func (s *AttendanceService) observe(action string) {
	if s.metrics != nil {
		s.metrics.ObserveAttendance(action)
	}
}

func (s *AttendanceService) publishChange(enrollmentID string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Topic:      events.TopicEnrollmentChanged,
		EntityID:   enrollmentID,
		OccurredAt: time.Now().UTC(),
		Payload:    map[string]any{"action": "attendance"},
	})
}
