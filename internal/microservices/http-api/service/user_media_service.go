package service

import (
	"context"

	"mediahub/internal/events"
	"mediahub/internal/microservices/http-api/models"
	"mediahub/internal/microservices/http-api/repository"
)

// SubscriptionService manages user <-> media links.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userID, mediaID int64) (*models.UserMedia, error)
	ListByUser(ctx context.Context, userID int64) ([]models.UserMedia, error)
	ListByMedia(ctx context.Context, mediaID int64) ([]models.UserMedia, error)
	Delete(ctx context.Context, id int64) error
	// Unsubscribe removes the link for the pair and returns it.
	Unsubscribe(ctx context.Context, mediaID, userID int64) (*models.UserMedia, error)
}

type subscriptionService struct {
	repo   repository.UserMediaRepository
	users  repository.UserRepository
	media  repository.MediaRepository
	events events.Publisher
}

func NewSubscriptionService(
	r repository.UserMediaRepository,
	users repository.UserRepository,
	media repository.MediaRepository,
	p events.Publisher,
) SubscriptionService {
	return &subscriptionService{repo: r, users: users, media: media, events: p}
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, mediaID int64) (*models.UserMedia, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	if _, err := s.media.GetByID(ctx, mediaID); err != nil {
		return nil, translate(err, ErrMediaNotFound)
	}

	exists, err := s.repo.Exists(ctx, userID, mediaID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	// the store constraints still catch a racing insert or delete
	link, err := s.repo.Create(ctx, userID, mediaID)
	if err != nil {
		return nil, translate(err, ErrSubscriptionNotFound)
	}
	s.events.Publish(ctx, events.New(events.SubscriptionCreated, link.ID, link))
	return link, nil
}

func (s *subscriptionService) ListByUser(ctx context.Context, userID int64) ([]models.UserMedia, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *subscriptionService) ListByMedia(ctx context.Context, mediaID int64) ([]models.UserMedia, error) {
	return s.repo.ListByMedia(ctx, mediaID)
}

func (s *subscriptionService) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSubscriptionNotFound
	}
	s.events.Publish(ctx, events.New(events.SubscriptionDeleted, id, nil))
	return nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, mediaID, userID int64) (*models.UserMedia, error) {
	link, err := s.repo.GetByPair(ctx, userID, mediaID)
	if err != nil {
		return nil, translate(err, ErrSubscriptionNotFound)
	}
	n, err := s.repo.Delete(ctx, link.ID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrSubscriptionNotFound
	}
	s.events.Publish(ctx, events.New(events.SubscriptionDeleted, link.ID, link))
	return link, nil
}
