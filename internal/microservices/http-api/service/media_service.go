package service

import (
	"context"

	"mediahub/internal/cache"
	"mediahub/internal/events"
	"mediahub/internal/logging"
	"mediahub/internal/microservices/http-api/models"
	"mediahub/internal/microservices/http-api/repository"
)

type MediaService interface {
	List(ctx context.Context) ([]models.Media, error)
	GetByID(ctx context.Context, id int64) (*models.Media, error)
	// GetWithSubscribers returns the media and the ids of every subscribed user.
	GetWithSubscribers(ctx context.Context, id int64) (*models.Media, []int64, error)
	// SubscriberIDs returns up to limit subscriber ids, all of them when limit <= 0.
	SubscriberIDs(ctx context.Context, id int64, limit int) ([]int64, error)
	Create(ctx context.Context, m *models.Media) error
	Update(ctx context.Context, id int64, m *models.Media) (*models.Media, error)
	// Delete returns the entity as it was read just before removal.
	Delete(ctx context.Context, id int64) (*models.Media, error)
}

type mediaService struct {
	repo      repository.MediaRepository
	userMedia repository.UserMediaRepository
	cache     Cache
	events    events.Publisher
}

func NewMediaService(r repository.MediaRepository, um repository.UserMediaRepository, c Cache, p events.Publisher) MediaService {
	return &mediaService{repo: r, userMedia: um, cache: c, events: p}
}

func (s *mediaService) List(ctx context.Context) ([]models.Media, error) {
	var list []models.Media
	if err := s.cache.Get(ctx, cache.MediaListKey, &list); err == nil {
		return list, nil
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, cache.MediaListKey, list)
	return list, nil
}

func (s *mediaService) GetByID(ctx context.Context, id int64) (*models.Media, error) {
	var m models.Media
	if err := s.cache.Get(ctx, cache.MediaKey(id), &m); err == nil {
		return &m, nil
	}

	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrMediaNotFound)
	}
	s.store(ctx, cache.MediaKey(id), found)
	return found, nil
}

func (s *mediaService) GetWithSubscribers(ctx context.Context, id int64) (*models.Media, []int64, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ids, err := s.userMedia.UserIDsByMedia(ctx, id, 0)
	if err != nil {
		return nil, nil, err
	}
	return m, ids, nil
}

func (s *mediaService) SubscriberIDs(ctx context.Context, id int64, limit int) ([]int64, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.userMedia.UserIDsByMedia(ctx, id, limit)
}

func (s *mediaService) Create(ctx context.Context, m *models.Media) error {
	if err := s.repo.Create(ctx, m); err != nil {
		return translate(err, ErrMediaNotFound)
	}
	s.invalidate(ctx, cache.MediaListKey)
	s.events.Publish(ctx, events.New(events.MediaCreated, m.ID, m))
	return nil
}

// Update replaces every field of an existing media item.
func (s *mediaService) Update(ctx context.Context, id int64, m *models.Media) (*models.Media, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, translate(err, ErrMediaNotFound)
	}

	m.ID = id
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, translate(err, ErrMediaNotFound)
	}
	s.invalidate(ctx, cache.MediaListKey, cache.MediaKey(id))
	s.events.Publish(ctx, events.New(events.MediaUpdated, id, m))
	return m, nil
}

// Delete reads then deletes in two statements. A concurrent delete between
// them still returns the entity that was read.
func (s *mediaService) Delete(ctx context.Context, id int64) (*models.Media, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrMediaNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.MediaListKey, cache.MediaKey(id))
	s.events.Publish(ctx, events.New(events.MediaDeleted, id, existing))
	return existing, nil
}

func (s *mediaService) store(ctx context.Context, key string, v any) {
	if err := s.cache.Set(ctx, key, v); err != nil {
		logging.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (s *mediaService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logging.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
