package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corsia-app/corsia-api/internal/dto"
	"github.com/corsia-app/corsia-api/internal/models"
	appErrors "github.com/corsia-app/corsia-api/pkg/errors"
)

type locationStoreStub struct {
	items map[string]*models.Location
	err   error
	lists int
}

func (s *locationStoreStub) FindByID(ctx context.Context, id string) (*models.Location, error) {
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

func (s *locationStoreStub) List(ctx context.Context, filter models.LocationFilter) ([]models.Location, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lists++
	var out []models.Location
	for _, loc := range s.items {
		out = append(out, *loc)
	}
	return out, nil
}

func (s *locationStoreStub) Create(ctx context.Context, loc *models.Location) error {
	if s.err != nil {
		return s.err
	}
	if loc.ID == "" {
		loc.ID = "loc-new"
	}
	clone := *loc
	s.items[loc.ID] = &clone
	return nil
}

func (s *locationStoreStub) Update(ctx context.Context, loc *models.Location) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.items[loc.ID]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "location not found")
	}
	clone := *loc
	s.items[loc.ID] = &clone
	return nil
}

type redisStub struct {
	store map[string]string
}

func newRedisStub() *redisStub {
	return &redisStub{store: make(map[string]string)}
}

func (c *redisStub) Get(ctx context.Context, key string) *redis.StringCmd {
	if value, ok := c.store[key]; ok {
		return redis.NewStringResult(value, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *redisStub) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.store[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (c *redisStub) Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd {
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for key := range c.store {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return redis.NewScanCmdResult(keys, 0, nil)
}

func (c *redisStub) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := c.store[key]; ok {
			delete(c.store, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func newLocationStoreStub() *locationStoreStub {
	return &locationStoreStub{items: map[string]*models.Location{
		"loc-1": {ID: "loc-1", Name: "Piscina Comunale", Color: "#1e88e5", Active: true},
	}}
}

func TestLocationListCachesResult(t *testing.T) {
	store := newLocationStoreStub()
	cache := newRedisStub()
	svc := NewLocationService(store, cache, time.Minute, nil, nil)

	first, err := svc.List(context.Background(), dto.ListLocationsQuery{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, store.lists)

	second, err := svc.List(context.Background(), dto.ListLocationsQuery{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// Served from cache, the repository was not hit again.
	assert.Equal(t, 1, store.lists)
}

func TestLocationCreateInvalidatesCache(t *testing.T) {
	store := newLocationStoreStub()
	cache := newRedisStub()
	svc := NewLocationService(store, cache, time.Minute, nil, nil)

	_, err := svc.List(context.Background(), dto.ListLocationsQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, cache.store)

	created, err := svc.Create(context.Background(), dto.CreateLocationRequest{
		Name:  "Palestra Nord",
		Color: "#43a047",
		Availability: []dto.AvailabilitySlotRequest{
			{DayOfWeek: 6, StartTime: "09:00", EndTime: "12:00"},
		},
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Empty(t, cache.store)

	items, err := svc.List(context.Background(), dto.ListLocationsQuery{})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestLocationUpdateInvalidatesEveryCachedFilter(t *testing.T) {
	store := newLocationStoreStub()
	cache := newRedisStub()
	svc := NewLocationService(store, cache, time.Minute, nil, nil)

	active := true
	_, err := svc.List(context.Background(), dto.ListLocationsQuery{})
	require.NoError(t, err)
	_, err = svc.List(context.Background(), dto.ListLocationsQuery{Active: &active})
	require.NoError(t, err)
	require.Len(t, cache.store, 2)

	name := "Piscina Olimpica"
	_, err = svc.Update(context.Background(), "loc-1", dto.UpdateLocationRequest{Name: &name})
	require.NoError(t, err)
	assert.Empty(t, cache.store)
}

func TestLocationCreateRejectsMissingName(t *testing.T) {
	svc := NewLocationService(newLocationStoreStub(), nil, 0, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateLocationRequest{Color: "#43a047"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLocationUpdatePatchesFields(t *testing.T) {
	store := newLocationStoreStub()
	svc := NewLocationService(store, nil, 0, nil, nil)

	name := "Piscina Olimpica"
	active := false
	updated, err := svc.Update(context.Background(), "loc-1", dto.UpdateLocationRequest{
		Name:   &name,
		Active: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "Piscina Olimpica", updated.Name)
	assert.False(t, updated.Active)
	// Untouched fields survive the patch.
	assert.Equal(t, "#1e88e5", updated.Color)
}

func TestLocationListWorksWithoutCache(t *testing.T) {
	store := newLocationStoreStub()
	svc := NewLocationService(store, nil, 0, nil, nil)

	items, err := svc.List(context.Background(), dto.ListLocationsQuery{Search: "piscina"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
