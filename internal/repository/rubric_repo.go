package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hqnguyen/defense-eval-api/internal/models"
)

// RubricRepository defines read operations for rubric configuration.
type RubricRepository interface {
	ListByMajor(ctx context.Context, majorID uint) ([]models.Rubric, error)
}

type rubricRepository struct {
	db *gorm.DB
}

// NewRubricRepository instantiates a GORM-backed repository.
func NewRubricRepository(db *gorm.DB) RubricRepository {
	return &rubricRepository{db: db}
}

func (r *rubricRepository) ListByMajor(ctx context.Context, majorID uint) ([]models.Rubric, error) {
	var rubrics []models.Rubric
	if err := r.db.WithContext(ctx).
		Where("major_id = ?", majorID).
		Order("name ASC").
		Find(&rubrics).Error; err != nil {
		return nil, err
	}

	return rubrics, nil
}
