package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
)

// EnrollmentRepository persists enrollments as single rows with the
// appointment list in a JSONB column. The engine mutates a fully loaded
// enrollment in memory and the repository writes the whole document back,
// mirroring the read-modify-write model the data was designed for.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

type enrollmentRow struct {
	ID               string         `db:"id"`
	ClientID         string         `db:"client_id"`
	ChildName        string         `db:"child_name"`
	Mode             string         `db:"mode"`
	StartDate        time.Time      `db:"start_date"`
	EndDate          time.Time      `db:"end_date"`
	LessonsTotal     int            `db:"lessons_total"`
	LessonsRemaining int            `db:"lessons_remaining"`
	LocationID       string         `db:"location_id"`
	LocationName     string         `db:"location_name"`
	LocationColor    string         `db:"location_color"`
	SupplierID       string         `db:"supplier_id"`
	SupplierName     string         `db:"supplier_name"`
	Status           string         `db:"status"`
	Appointments     types.JSONText `db:"appointments"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

const enrollmentColumns = `id, client_id, child_name, mode, start_date, end_date, lessons_total, lessons_remaining, location_id, location_name, location_color, supplier_id, supplier_name, status, appointments, created_at, updated_at`

func (r *enrollmentRow) toModel() (*models.Enrollment, error) {
	e := &models.Enrollment{
		ID:               r.ID,
		ClientID:         r.ClientID,
		ChildName:        r.ChildName,
		Mode:             models.EnrollmentMode(r.Mode),
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		LessonsTotal:     r.LessonsTotal,
		LessonsRemaining: r.LessonsRemaining,
		LocationID:       r.LocationID,
		LocationName:     r.LocationName,
		LocationColor:    r.LocationColor,
		SupplierID:       r.SupplierID,
		SupplierName:     r.SupplierName,
		Status:           models.EnrollmentStatus(r.Status),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if len(r.Appointments) > 0 {
		if err := json.Unmarshal(r.Appointments, &e.Appointments); err != nil {
			return nil, fmt.Errorf("decode appointments for enrollment %s: %w", r.ID, err)
		}
	}
	return e, nil
}

func encodeAppointments(appts []models.Appointment) (types.JSONText, error) {
	if appts == nil {
		appts = []models.Appointment{}
	}
	raw, err := json.Marshal(appts)
	if err != nil {
		return nil, fmt.Errorf("encode appointments: %w", err)
	}
	return types.JSONText(raw), nil
}

// FindByID loads one enrollment with its full appointment list.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var row enrollmentRow
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE id = $1", enrollmentColumns)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, err
	}
	return row.toModel()
}

// List returns enrollments filtered by the provided criteria.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	var conditions []string
	var args []interface{}

	if filter.ClientID != "" {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", len(args)+1))
		args = append(args, filter.ClientID)
	}
	if filter.LocationID != "" {
		conditions = append(conditions, fmt.Sprintf("location_id = $%d", len(args)+1))
		args = append(args, filter.LocationID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Mode != "" {
		conditions = append(conditions, fmt.Sprintf("mode = $%d", len(args)+1))
		args = append(args, filter.Mode)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM enrollments" + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	allowedSorts := map[string]string{
		"start_date": "start_date",
		"end_date":   "end_date",
		"child_name": "child_name",
		"created_at": "created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "start_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	query := fmt.Sprintf("SELECT %s FROM enrollments%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		enrollmentColumns, clause, orderBy, order, len(args)+1, len(args)+2)
	args = append(args, size, (page-1)*size)

	var rows []enrollmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	enrollments := make([]models.Enrollment, 0, len(rows))
	for i := range rows {
		e, err := rows[i].toModel()
		if err != nil {
			return nil, 0, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, total, nil
}

// Create inserts a new enrollment document.
func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	appts, err := encodeAppointments(e.Appointments)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO enrollments (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`, enrollmentColumns)
	_, err = r.db.ExecContext(ctx, query,
		e.ID, e.ClientID, e.ChildName, e.Mode, e.StartDate, e.EndDate,
		e.LessonsTotal, e.LessonsRemaining,
		e.LocationID, e.LocationName, e.LocationColor,
		e.SupplierID, e.SupplierName, e.Status, appts, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

// Save writes the whole mutated document back: appointment list, credit
// counter, bounds and status in one statement.
func (r *EnrollmentRepository) Save(ctx context.Context, e *models.Enrollment) error {
	e.UpdatedAt = time.Now().UTC()
	appts, err := encodeAppointments(e.Appointments)
	if err != nil {
		return err
	}
	query := `UPDATE enrollments
SET child_name = $2, mode = $3, start_date = $4, end_date = $5,
    lessons_total = $6, lessons_remaining = $7,
    location_id = $8, location_name = $9, location_color = $10,
    supplier_id = $11, supplier_name = $12, status = $13,
    appointments = $14, updated_at = $15
WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		e.ID, e.ChildName, e.Mode, e.StartDate, e.EndDate,
		e.LessonsTotal, e.LessonsRemaining,
		e.LocationID, e.LocationName, e.LocationColor,
		e.SupplierID, e.SupplierName, e.Status, appts, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	return nil
}

// Delete removes an enrollment document. Deleting an unknown ID is an error
// so callers never report success, or publish change events, for rows that
// were never there.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM enrollments WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	return nil
}
