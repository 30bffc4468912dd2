package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hqnguyen/defense-eval-api/internal/models"
)

// SessionRepository defines read operations for defense sessions.
type SessionRepository interface {
	GetByID(ctx context.Context, id uint) (models.DefenseSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository instantiates a GORM-backed repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetByID(ctx context.Context, id uint) (models.DefenseSession, error) {
	var session models.DefenseSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return models.DefenseSession{}, err
	}

	return session, nil
}
