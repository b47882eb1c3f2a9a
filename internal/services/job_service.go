package services

import (
	"context"
	"errors"

	"github.com/jobnest/backend/internal/models"
	pgrepo "github.com/jobnest/backend/internal/repositories/postgres"
	"github.com/jobnest/backend/internal/utils"
)

type JobService interface {
	Get(ctx context.Context, id string) (*models.Job, error)
	List(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error)
}

type jobService struct {
	jobs pgrepo.JobRepository
}

func NewJobService(jobs pgrepo.JobRepository) JobService {
	return &jobService{jobs: jobs}
}

func (s *jobService) Get(ctx context.Context, id string) (*models.Job, error) {
	const op = "JobService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	row, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	return row, nil
}

func (s *jobService) List(ctx context.Context, f models.JobFilter) ([]models.Job, int64, error) {
	const op = "JobService.List"

	rows, total, err := s.jobs.List(ctx, f)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return rows, total, nil
}
