package service

import (
	"context"
	"errors"

	"mediahub/internal/microservices/http-api/repository"
)

var (
	ErrMediaNotFound        = errors.New("media not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("user is already subscribed to this media")
	ErrConflict             = errors.New("write conflicts with existing data")
)

// Cache is the read-through cache used by the services. *cache.RedisCache
// implements it, including as a nil pointer.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
}

// translate maps repository errors onto the service sentinels.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case repository.IsNotFound(err):
		return notFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	default:
		return err
	}
}
