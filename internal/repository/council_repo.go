package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hqnguyen/defense-eval-api/internal/models"
)

// CouncilRepository defines read operations for councils.
type CouncilRepository interface {
	GetByID(ctx context.Context, id uint) (models.Council, error)
}

type councilRepository struct {
	db *gorm.DB
}

// NewCouncilRepository instantiates a GORM-backed repository.
func NewCouncilRepository(db *gorm.DB) CouncilRepository {
	return &councilRepository{db: db}
}

func (r *councilRepository) GetByID(ctx context.Context, id uint) (models.Council, error) {
	var council models.Council
	if err := r.db.WithContext(ctx).First(&council, id).Error; err != nil {
		return models.Council{}, err
	}

	return council, nil
}
