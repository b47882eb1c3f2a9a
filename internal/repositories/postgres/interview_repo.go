package postgres

import (
	"context"
	"errors"

	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/utils"
	"gorm.io/gorm"
)

type InterviewRepository interface {
	GetByApplicationID(ctx context.Context, applicationID string) (*models.Interview, error)
	// Create relies on the unique index on application_id; a duplicate
	// insert surfaces as utils.ErrConflict so the caller can re-read.
	Create(ctx context.Context, iv *models.Interview) error
	ListByCompany(ctx context.Context, companyID string) ([]models.Interview, error)
}

type interviewRepo struct {
	db *gorm.DB
}

func NewInterviewRepo(db *gorm.DB) InterviewRepository {
	return &interviewRepo{db: db}
}

func (r *interviewRepo) GetByApplicationID(ctx context.Context, applicationID string) (*models.Interview, error) {
	var row models.Interview
	err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *interviewRepo) Create(ctx context.Context, iv *models.Interview) error {
	err := r.db.WithContext(ctx).Create(iv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrConflict
	}
	return err
}

func (r *interviewRepo) ListByCompany(ctx context.Context, companyID string) ([]models.Interview, error) {
	var rows []models.Interview
	err := r.db.WithContext(ctx).
		Joins("JOIN applications ON applications.id = interviews.application_id").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.company_id = ?", companyID).
		Order("interviews.scheduled_at ASC").
		Find(&rows).Error
	return rows, err
}
