package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	// CreateWithNotifications inserts the application and its fan-out
	// notifications in one transaction: either all rows commit or none.
	CreateWithNotifications(ctx context.Context, app *models.Application, notifs []models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	// Transition moves the application from `from` to `to` and writes the
	// candidate notification atomically. The WHERE on the current status
	// makes the transition exactly-once: a concurrent transition that got
	// there first leaves zero affected rows and the call fails with
	// utils.ErrConflict.
	Transition(ctx context.Context, id string, from, to models.ApplicationStatus, feedback string, updatedAt time.Time, notif *models.Notification) error
	ListByCandidate(ctx context.Context, userID string, status models.ApplicationStatus, page, perPage int) ([]models.Application, int64, error)
	ListByCompany(ctx context.Context, companyID string, status models.ApplicationStatus, page, perPage int) ([]models.Application, int64, error)
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) CreateWithNotifications(ctx context.Context, app *models.Application, notifs []models.Notification) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		if len(notifs) > 0 {
			if err := tx.Create(&notifs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrConflict
	}
	return err
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var row models.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *applicationRepo) Transition(ctx context.Context, id string, from, to models.ApplicationStatus, feedback string, updatedAt time.Time, notif *models.Notification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":       to,
			"updated_date": updatedAt,
		}
		if feedback != "" {
			updates["feedback"] = feedback
		}
		res := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", id, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrConflict
		}
		if notif != nil {
			if err := tx.Create(notif).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, userID string, status models.ApplicationStatus, page, perPage int) ([]models.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Application{}).
		Joins("JOIN cvs ON cvs.id = applications.cv_id").
		Where("cvs.user_id = ?", userID)
	if status != "" {
		q = q.Where("applications.status = ?", status)
	}
	return paginateApplications(q, page, perPage)
}

func (r *applicationRepo) ListByCompany(ctx context.Context, companyID string, status models.ApplicationStatus, page, perPage int) ([]models.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.company_id = ?", companyID)
	if status != "" {
		q = q.Where("applications.status = ?", status)
	}
	return paginateApplications(q, page, perPage)
}

func paginateApplications(q *gorm.DB, page, perPage int) ([]models.Application, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	var rows []models.Application
	err := q.Order("applications.applied_date DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&rows).Error
	return rows, total, err
}
