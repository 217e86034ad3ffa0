package repository

import (
	"context"
	"errors"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// LocationRepository defines persistence operations for locations.
type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uint) (*models.Location, error)
	List(ctx context.Context) ([]*models.Location, error)
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository returns a new LocationRepository implementation.
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *locationRepository) GetByID(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	if err := r.db.WithContext(ctx).First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Location", id)
		}
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) List(ctx context.Context) ([]*models.Location, error) {
	var locations []*models.Location
	err := r.db.WithContext(ctx).Order("name ASC").Find(&locations).Error
	return locations, err
}
