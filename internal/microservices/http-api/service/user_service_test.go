package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mediahub/internal/cache"
	"mediahub/internal/events"
	"mediahub/internal/microservices/http-api/models"
)

func TestUserService(t *testing.T) {
	repo := new(MockUserRepo)
	um := new(MockUserMediaRepo)
	c := newMemCache()
	rec := &events.Recorder{}
	svc := NewUserService(repo, um, c, rec)
	ctx := context.Background()

	ann := &models.User{ID: 1, Name: "ann", Age: 31, Gender: models.GenderFemale}
	missing := fmt.Errorf("get user 99: %w", gorm.ErrRecordNotFound)

	t.Run("GetByIDCaches", func(t *testing.T) {
		repo.On("GetByID", mock.Anything, int64(1)).Return(ann, nil).Once()

		u, err := svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "ann", u.Name)

		u, err = svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 31, u.Age)
		assert.True(t, c.has(cache.UserKey(1)))
	})

	t.Run("GetByIDMissing", func(t *testing.T) {
		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, missing).Once()
		_, err := svc.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("MediaIDs", func(t *testing.T) {
		um.On("MediaIDsByUser", mock.Anything, int64(1), 0).Return([]int64{3, 4}, nil).Once()
		ids, err := svc.MediaIDs(ctx, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 4}, ids)
	})

	t.Run("Create", func(t *testing.T) {
		u := &models.User{Name: "bob", Age: 40, Gender: models.GenderMale}
		repo.On("Create", mock.Anything, u).Return(nil).Once()
		require.NoError(t, svc.Create(ctx, u))
		assert.Equal(t, events.UserCreated, rec.Events()[0].Type)
	})

	t.Run("UpdateInvalidates", func(t *testing.T) {
		repo.On("GetByID", mock.Anything, int64(1)).Return(ann, nil).Once()
		repo.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

		updated, err := svc.Update(ctx, 1, &models.User{Name: "ann b", Age: 32, Gender: models.GenderFemale})
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.ID)
		assert.False(t, c.has(cache.UserKey(1)))
	})

	t.Run("Delete", func(t *testing.T) {
		repo.On("GetByID", mock.Anything, int64(1)).Return(ann, nil).Once()
		repo.On("Delete", mock.Anything, int64(1)).Return(nil).Once()

		deleted, err := svc.Delete(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "ann", deleted.Name)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, missing).Once()
		_, err := svc.Delete(ctx, 99)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
