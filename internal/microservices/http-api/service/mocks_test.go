package service

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/mock"

	"mediahub/internal/cache"
	"mediahub/internal/microservices/http-api/models"
)

// --- MOCK REPOSITORIES ---

type MockMediaRepo struct {
	mock.Mock
}

func (m *MockMediaRepo) List(ctx context.Context) ([]models.Media, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Media), args.Error(1)
}

func (m *MockMediaRepo) GetByID(ctx context.Context, id int64) (*models.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

func (m *MockMediaRepo) Create(ctx context.Context, media *models.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockMediaRepo) Update(ctx context.Context, media *models.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockMediaRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) Update(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserMediaRepo struct {
	mock.Mock
}

func (m *MockUserMediaRepo) Create(ctx context.Context, userID, mediaID int64) (*models.UserMedia, error) {
	args := m.Called(ctx, userID, mediaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMedia), args.Error(1)
}

func (m *MockUserMediaRepo) GetByID(ctx context.Context, id int64) (*models.UserMedia, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMedia), args.Error(1)
}

func (m *MockUserMediaRepo) GetByPair(ctx context.Context, userID, mediaID int64) (*models.UserMedia, error) {
	args := m.Called(ctx, userID, mediaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMedia), args.Error(1)
}

func (m *MockUserMediaRepo) Exists(ctx context.Context, userID, mediaID int64) (bool, error) {
	args := m.Called(ctx, userID, mediaID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserMediaRepo) ListByUser(ctx context.Context, userID int64) ([]models.UserMedia, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.UserMedia), args.Error(1)
}

func (m *MockUserMediaRepo) ListByMedia(ctx context.Context, mediaID int64) ([]models.UserMedia, error) {
	args := m.Called(ctx, mediaID)
	return args.Get(0).([]models.UserMedia), args.Error(1)
}

func (m *MockUserMediaRepo) UserIDsByMedia(ctx context.Context, mediaID int64, limit int) ([]int64, error) {
	args := m.Called(ctx, mediaID, limit)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserMediaRepo) MediaIDsByUser(ctx context.Context, userID int64, limit int) ([]int64, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserMediaRepo) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// --- IN-MEMORY CACHE ---

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dst any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
