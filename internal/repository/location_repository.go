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

// LocationRepository handles persistence of the location directory.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository constructs the repository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

type locationRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Color        string         `db:"color"`
	SupplierID   string         `db:"supplier_id"`
	SupplierName string         `db:"supplier_name"`
	Availability types.JSONText `db:"availability"`
	Active       bool           `db:"active"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

const locationColumns = `id, name, color, supplier_id, supplier_name, availability, active, created_at, updated_at`

func (r *locationRow) toModel() (*models.Location, error) {
	loc := &models.Location{
		ID:           r.ID,
		Name:         r.Name,
		Color:        r.Color,
		SupplierID:   r.SupplierID,
		SupplierName: r.SupplierName,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if len(r.Availability) > 0 {
		if err := json.Unmarshal(r.Availability, &loc.Availability); err != nil {
			return nil, fmt.Errorf("decode availability for location %s: %w", r.ID, err)
		}
	}
	return loc, nil
}

func encodeAvailability(slots []models.AvailabilitySlot) (types.JSONText, error) {
	if slots == nil {
		slots = []models.AvailabilitySlot{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return nil, fmt.Errorf("encode availability: %w", err)
	}
	return types.JSONText(raw), nil
}

// FindByID loads one location.
func (r *LocationRepository) FindByID(ctx context.Context, id string) (*models.Location, error) {
	var row locationRow
	query := fmt.Sprintf("SELECT %s FROM locations WHERE id = $1", locationColumns)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "location not found")
		}
		return nil, err
	}
	return row.toModel()
}

// List returns locations matching the filter, ordered by name.
func (r *LocationRepository) List(ctx context.Context, filter models.LocationFilter) ([]models.Location, error) {
	var conditions []string
	var args []interface{}

	if filter.SupplierID != "" {
		conditions = append(conditions, fmt.Sprintf("supplier_id = $%d", len(args)+1))
		args = append(args, filter.SupplierID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}
	query := fmt.Sprintf("SELECT %s FROM locations%s ORDER BY name ASC", locationColumns, clause)

	var rows []locationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	locations := make([]models.Location, 0, len(rows))
	for i := range rows {
		loc, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		locations = append(locations, *loc)
	}
	return locations, nil
}

// Create inserts a location.
func (r *LocationRepository) Create(ctx context.Context, loc *models.Location) error {
	if loc.ID == "" {
		loc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	loc.CreatedAt = now
	loc.UpdatedAt = now

	availability, err := encodeAvailability(loc.Availability)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO locations (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, locationColumns)
	_, err = r.db.ExecContext(ctx, query,
		loc.ID, loc.Name, loc.Color, loc.SupplierID, loc.SupplierName,
		availability, loc.Active, loc.CreatedAt, loc.UpdatedAt,
	)
	return err
}

// Update rewrites a location's mutable fields.
func (r *LocationRepository) Update(ctx context.Context, loc *models.Location) error {
	loc.UpdatedAt = time.Now().UTC()
	availability, err := encodeAvailability(loc.Availability)
	if err != nil {
		return err
	}
	query := `UPDATE locations
SET name = $2, color = $3, supplier_id = $4, supplier_name = $5,
    availability = $6, active = $7, updated_at = $8
WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		loc.ID, loc.Name, loc.Color, loc.SupplierID, loc.SupplierName,
		availability, loc.Active, loc.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "location not found")
	}
	return nil
}
