package postgres

import (
	"context"
	"errors"

	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	GetByID(ctx context.Context, id string) (*models.Job, error)
	// OwnedBy is the explicit authorization query: does userID own the
	// company behind jobID?
	OwnedBy(ctx context.Context, jobID, userID string) (bool, error)
	// OwnerUserID resolves the recruiter user behind a job's company.
	OwnerUserID(ctx context.Context, jobID string) (string, error)
	List(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error)
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var row models.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *jobRepo) OwnedBy(ctx context.Context, jobID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Where("jobs.id = ? AND companies.user_id = ?", jobID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *jobRepo) OwnerUserID(ctx context.Context, jobID string) (string, error) {
	var userID string
	err := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Where("jobs.id = ?", jobID).
		Pluck("companies.user_id", &userID).Error
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", utils.ErrNotFound
	}
	return userID, nil
}

func (r *jobRepo) List(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Job{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Keyword != "" {
		q = q.Where("title ILIKE ?", "%"+f.Keyword+"%")
	}
	if f.Location != "" {
		q = q.Where("location ILIKE ?", "%"+f.Location+"%")
	}
	if f.EmploymentType != "" {
		q = q.Where("employment_type = ?", f.EmploymentType)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.CompanyID != "" {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	if f.MinSalary != nil {
		q = q.Where("salary >= ?", *f.MinSalary)
	}
	if f.MaxSalary != nil {
		q = q.Where("salary <= ?", *f.MaxSalary)
	}
	if f.ExcludeJobID != "" {
		q = q.Where("id <> ?", f.ExcludeJobID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 10
	}

	var rows []models.Job
	err := q.Order("created_date DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error
	return rows, total, err
}
