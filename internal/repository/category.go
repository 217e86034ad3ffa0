package repository

import (
	"context"
	"errors"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	// GetPublishedBySlug reports not-found for unpublished categories as
	// well as for unknown slugs; the category feed never 200s for either.
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", slug)
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("title ASC").Find(&categories).Error
	return categories, err
}
