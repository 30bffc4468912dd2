package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hqnguyen/defense-eval-api/internal/models"
)

// CommitteeRepository defines read operations for council member assignments.
type CommitteeRepository interface {
	ListActiveByCouncil(ctx context.Context, councilID uint) ([]models.CouncilMember, error)
}

type committeeRepository struct {
	db *gorm.DB
}

// NewCommitteeRepository instantiates a GORM-backed repository.
func NewCommitteeRepository(db *gorm.DB) CommitteeRepository {
	return &committeeRepository{db: db}
}

func (r *committeeRepository) ListActiveByCouncil(ctx context.Context, councilID uint) ([]models.CouncilMember, error) {
	var members []models.CouncilMember
	if err := r.db.WithContext(ctx).
		Preload("Lecturer").
		Where("council_id = ? AND is_active = ?", councilID, true).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}
