package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hqnguyen/defense-eval-api/internal/models"
)

// MajorRepository defines read operations for majors.
type MajorRepository interface {
	GetByID(ctx context.Context, id uint) (models.Major, error)
}

type majorRepository struct {
	db *gorm.DB
}

// NewMajorRepository instantiates a GORM-backed repository.
func NewMajorRepository(db *gorm.DB) MajorRepository {
	return &majorRepository{db: db}
}

func (r *majorRepository) GetByID(ctx context.Context, id uint) (models.Major, error) {
	var major models.Major
	if err := r.db.WithContext(ctx).First(&major, id).Error; err != nil {
		return models.Major{}, err
	}

	return major, nil
}
