package postgres

import (
	"context"
	"errors"

	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/utils"
	"gorm.io/gorm"
)

type CVRepository interface {
	GetByID(ctx context.Context, id string) (*models.CV, error)
	ListByUser(ctx context.Context, userID string) ([]models.CV, error)
}

type cvRepo struct {
	db *gorm.DB
}

func NewCVRepo(db *gorm.DB) CVRepository {
	return &cvRepo{db: db}
}

func (r *cvRepo) GetByID(ctx context.Context, id string) (*models.CV, error) {
	var row models.CV
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *cvRepo) ListByUser(ctx context.Context, userID string) ([]models.CV, error) {
	var rows []models.CV
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_date DESC").
		Find(&rows).Error
	return rows, err
}
