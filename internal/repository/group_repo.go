package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hqnguyen/defense-eval-api/internal/models"
)

// GroupRepository defines read operations for student groups and memberships.
type GroupRepository interface {
	GetByID(ctx context.Context, id uint) (models.StudentGroup, error)
	ListActiveMembers(ctx context.Context, groupID uint) ([]models.GroupMember, error)
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository instantiates a GORM-backed repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (models.StudentGroup, error) {
	var group models.StudentGroup
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return models.StudentGroup{}, err
	}

	return group, nil
}

func (r *groupRepository) ListActiveMembers(ctx context.Context, groupID uint) ([]models.GroupMember, error) {
	var members []models.GroupMember
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("group_id = ? AND is_active = ?", groupID, true).
		Order("id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}
