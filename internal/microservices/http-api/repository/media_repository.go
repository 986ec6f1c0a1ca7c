package repository

import (
	"context"
	"fmt"

	"mediahub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type MediaRepository interface {
	List(ctx context.Context) ([]models.Media, error)
	GetByID(ctx context.Context, id int64) (*models.Media, error)
	Create(ctx context.Context, m *models.Media) error
	Update(ctx context.Context, m *models.Media) error
	Delete(ctx context.Context, id int64) error
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

// List returns every media row ordered by id.
func (r *mediaRepository) List(ctx context.Context) ([]models.Media, error) {
	list := []models.Media{}
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return list, nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id int64) (*models.Media, error) {
	var m models.Media
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, fmt.Errorf("get media %d: %w", id, err)
	}
	return &m, nil
}

func (r *mediaRepository) Create(ctx context.Context, m *models.Media) error {
	// id is always server-assigned
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create media: %w", mapWriteError(err))
	}
	return nil
}

// Update replaces every column of the row identified by m.ID.
func (r *mediaRepository) Update(ctx context.Context, m *models.Media) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("update media: %w", mapWriteError(err))
	}
	return nil
}

func (r *mediaRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Media{}, id).Error; err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
