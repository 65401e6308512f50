package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/corsia-app/corsia-api/internal/dto"
	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
)

const locationCachePrefix = "locations:list:"

type locationStore interface {
	FindByID(ctx context.Context, id string) (*models.Location, error)
	List(ctx context.Context, filter models.LocationFilter) ([]models.Location, error)
	Create(ctx context.Context, loc *models.Location) error
	Update(ctx context.Context, loc *models.Location) error
}

type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LocationService manages the lesson site directory. Listings are cached in
// Redis and invalidated on every write.
type LocationService struct {
	locations locationStore
	cache     cacheClient
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLocationService wires location dependencies. A nil cache disables
// caching.
func NewLocationService(locations locationStore, cache cacheClient, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *LocationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &LocationService{
		locations: locations,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// Get returns one location by ID.
func (s *LocationService) Get(ctx context.Context, id string) (*models.Location, error) {
	return s.locations.FindByID(ctx, id)
}

// List returns locations matching the query, served from cache when possible.
func (s *LocationService) List(ctx context.Context, query dto.ListLocationsQuery) ([]models.Location, error) {
	filter := models.LocationFilter{
		SupplierID: query.SupplierID,
		Active:     query.Active,
		Search:     query.Search,
	}
	key := locationCacheKey(filter)
	if cached, ok := s.cachedList(ctx, key); ok {
		return cached, nil
	}

	items, err := s.locations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.storeList(ctx, key, items)
	return items, nil
}

// Create registers a new location.
func (s *LocationService) Create(ctx context.Context, req dto.CreateLocationRequest) (*models.Location, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location payload")
	}
	location := &models.Location{
		Name:         req.Name,
		Color:        req.Color,
		SupplierID:   req.SupplierID,
		SupplierName: req.SupplierName,
		Availability: toAvailability(req.Availability),
		Active:       true,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return location, nil
}

// Update mutates an existing location; nil request fields are left untouched.
func (s *LocationService) Update(ctx context.Context, id string, req dto.UpdateLocationRequest) (*models.Location, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid location payload")
	}
	location, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Color != nil {
		location.Color = *req.Color
	}
	if req.SupplierID != nil {
		location.SupplierID = *req.SupplierID
	}
	if req.SupplierName != nil {
		location.SupplierName = *req.SupplierName
	}
	if req.Availability != nil {
		location.Availability = toAvailability(req.Availability)
	}
	if req.Active != nil {
		location.Active = *req.Active
	}
	if err := s.locations.Update(ctx, location); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return location, nil
}

func (s *LocationService) cachedList(ctx context.Context, key string) ([]models.Location, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("location cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var items []models.Location
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("location cache payload corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return items, true
}

func (s *LocationService) storeList(ctx context.Context, key string, items []models.Location) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("location cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate drops every cached listing. Keys are walked with SCAN because
// KEYS blocks a shared Redis for the whole keyspace.
func (s *LocationService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	var cursor uint64
	for {
		keys, next, err := s.cache.Scan(ctx, cursor, locationCachePrefix+"*", 100).Result()
		if err != nil {
			s.logger.Warn("location cache invalidation failed", zap.Error(err))
			return
		}
		if len(keys) > 0 {
			if err := s.cache.Del(ctx, keys...).Err(); err != nil {
				s.logger.Warn("location cache invalidation failed", zap.Error(err))
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}

func locationCacheKey(filter models.LocationFilter) string {
	active := "any"
	if filter.Active != nil {
		active = fmt.Sprintf("%t", *filter.Active)
	}
	return fmt.Sprintf("%s%s:%s:%s", locationCachePrefix, filter.SupplierID, active, filter.Search)
}

func toAvailability(slots []dto.AvailabilitySlotRequest) []models.AvailabilitySlot {
	out := make([]models.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		out = append(out, models.AvailabilitySlot{
			DayOfWeek: slot.DayOfWeek,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}
	return out
}
