package repository

import (
	"context"
	"fmt"

	"mediahub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type UserMediaRepository interface {
	Create(ctx context.Context, userID, mediaID int64) (*models.UserMedia, error)
	GetByID(ctx context.Context, id int64) (*models.UserMedia, error)
	GetByPair(ctx context.Context, userID, mediaID int64) (*models.UserMedia, error)
	Exists(ctx context.Context, userID, mediaID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]models.UserMedia, error)
	ListByMedia(ctx context.Context, mediaID int64) ([]models.UserMedia, error)
	// UserIDsByMedia and MediaIDsByUser return at most limit ids when limit > 0.
	UserIDsByMedia(ctx context.Context, mediaID int64, limit int) ([]int64, error)
	MediaIDsByUser(ctx context.Context, userID int64, limit int) ([]int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type userMediaRepository struct {
	db *gorm.DB
}

func NewUserMediaRepository(db *gorm.DB) UserMediaRepository {
	return &userMediaRepository{db: db}
}

func (r *userMediaRepository) Create(ctx context.Context, userID, mediaID int64) (*models.UserMedia, error) {
	link := &models.UserMedia{
		UserID:  userID,
		MediaID: mediaID,
	}

	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, fmt.Errorf("create user media: %w", mapWriteError(err))
	}
	return link, nil
}

func (r *userMediaRepository) GetByID(ctx context.Context, id int64) (*models.UserMedia, error) {
	var link models.UserMedia
	if err := r.db.WithContext(ctx).First(&link, id).Error; err != nil {
		return nil, fmt.Errorf("get user media %d: %w", id, err)
	}
	return &link, nil
}

func (r *userMediaRepository) GetByPair(ctx context.Context, userID, mediaID int64) (*models.UserMedia, error) {
	var link models.UserMedia
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		First(&link).Error; err != nil {
		return nil, fmt.Errorf("get user media: %w", err)
	}
	return &link, nil
}

func (r *userMediaRepository) Exists(ctx context.Context, userID, mediaID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserMedia{}).
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userMediaRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserMedia, error) {
	links := []models.UserMedia{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list user media by user: %w", err)
	}
	return links, nil
}

func (r *userMediaRepository) ListByMedia(ctx context.Context, mediaID int64) ([]models.UserMedia, error) {
	links := []models.UserMedia{}
	if err := r.db.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("id asc").
		Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list user media by media: %w", err)
	}
	return links, nil
}

func (r *userMediaRepository) UserIDsByMedia(ctx context.Context, mediaID int64, limit int) ([]int64, error) {
	return r.pluckIDs(ctx, "user_id", "media_id = ?", mediaID, limit)
}

func (r *userMediaRepository) MediaIDsByUser(ctx context.Context, userID int64, limit int) ([]int64, error) {
	return r.pluckIDs(ctx, "media_id", "user_id = ?", userID, limit)
}

func (r *userMediaRepository) pluckIDs(ctx context.Context, column, where string, arg int64, limit int) ([]int64, error) {
	ids := []int64{}
	q := r.db.WithContext(ctx).Model(&models.UserMedia{}).Where(where, arg).Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck(column, &ids).Error; err != nil {
		return nil, fmt.Errorf("pluck %s: %w", column, err)
	}
	return ids, nil
}

// Delete removes the link and reports how many rows were affected.
func (r *userMediaRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.UserMedia{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("delete user media: %w", result.Error)
	}
	return result.RowsAffected, nil
}
