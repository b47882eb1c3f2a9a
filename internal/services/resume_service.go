package services

import (
	"context"
	"errors"

	"github.com/jobnest/backend/internal/models"
	pgrepo "github.com/jobnest/backend/internal/repositories/postgres"
	"github.com/jobnest/backend/internal/utils"
)

type ResumeService interface {
	GetMe(ctx context.Context, userID string) (*models.Resume, error)
	Upsert(ctx context.Context, resume *models.Resume) error
	ListCVs(ctx context.Context, userID string) ([]models.CV, error)
}

type resumeService struct {
	resumes pgrepo.ResumeRepository
	cvs     pgrepo.CVRepository
}

func NewResumeService(resumes pgrepo.ResumeRepository, cvs pgrepo.CVRepository) ResumeService {
	return &resumeService{resumes: resumes, cvs: cvs}
}

func (s *resumeService) GetMe(ctx context.Context, userID string) (*models.Resume, error) {
	const op = "ResumeService.GetMe"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	row, err := s.resumes.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load resume", err)
	}
	return row, nil
}

func (s *resumeService) Upsert(ctx context.Context, resume *models.Resume) error {
	const op = "ResumeService.Upsert"

	if resume == nil || resume.UserID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if err := s.resumes.Upsert(ctx, resume); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to save resume", err)
	}
	return nil
}

func (s *resumeService) ListCVs(ctx context.Context, userID string) ([]models.CV, error) {
	const op = "ResumeService.ListCVs"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	rows, err := s.cvs.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list cvs", err)
	}
	return rows, nil
}
