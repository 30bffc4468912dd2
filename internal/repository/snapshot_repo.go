package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hqnguyen/defense-eval-api/internal/models"
)

// SnapshotRepository persists analysis audit snapshots.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *models.AnalysisSnapshot) error
}

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository instantiates a GORM-backed repository.
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Save(ctx context.Context, snapshot *models.AnalysisSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}
