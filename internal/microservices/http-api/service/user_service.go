package service

import (
	"context"

	"mediahub/internal/cache"
	"mediahub/internal/events"
	"mediahub/internal/logging"
	"mediahub/internal/microservices/http-api/models"
	"mediahub/internal/microservices/http-api/repository"
)

type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// MediaIDs returns up to limit subscribed media ids, all of them when limit <= 0.
	MediaIDs(ctx context.Context, id int64, limit int) ([]int64, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id int64, u *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}

type userService struct {
	repo      repository.UserRepository
	userMedia repository.UserMediaRepository
	cache     Cache
	events    events.Publisher
}

func NewUserService(r repository.UserRepository, um repository.UserMediaRepository, c Cache, p events.Publisher) UserService {
	return &userService{repo: r, userMedia: um, cache: c, events: p}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.cache.Get(ctx, cache.UserListKey, &users); err == nil {
		return users, nil
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.UserListKey, users); err != nil {
		logging.Debug().Err(err).Msg("cache set failed")
	}
	return users, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.cache.Get(ctx, cache.UserKey(id), &u); err == nil {
		return &u, nil
	}

	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	if err := s.cache.Set(ctx, cache.UserKey(id), found); err != nil {
		logging.Debug().Err(err).Msg("cache set failed")
	}
	return found, nil
}

func (s *userService) MediaIDs(ctx context.Context, id int64, limit int) ([]int64, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.userMedia.MediaIDsByUser(ctx, id, limit)
}

func (s *userService) Create(ctx context.Context, u *models.User) error {
	if err := s.repo.Create(ctx, u); err != nil {
		return translate(err, ErrUserNotFound)
	}
	s.invalidate(ctx, cache.UserListKey)
	s.events.Publish(ctx, events.New(events.UserCreated, u.ID, u))
	return nil
}

func (s *userService) Update(ctx context.Context, id int64, u *models.User) (*models.User, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}

	u.ID = id
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	s.invalidate(ctx, cache.UserListKey, cache.UserKey(id))
	s.events.Publish(ctx, events.New(events.UserUpdated, id, u))
	return u, nil
}

// Delete has the same read-then-delete shape as media deletion.
func (s *userService) Delete(ctx context.Context, id int64) (*models.User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.UserListKey, cache.UserKey(id))
	s.events.Publish(ctx, events.New(events.UserDeleted, id, existing))
	return existing, nil
}

func (s *userService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logging.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
