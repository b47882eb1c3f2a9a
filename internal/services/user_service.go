package services

import (
	"context"
	"errors"

	"github.com/jobnest/backend/internal/models"
	pgrepo "github.com/jobnest/backend/internal/repositories/postgres"
	"github.com/jobnest/backend/internal/utils"
)

type UserService interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	CompanyOf(ctx context.Context, userID string) (*models.Company, error)
}

type userService struct {
	users pgrepo.UserRepository
}

func NewUserService(users pgrepo.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Get(ctx context.Context, userID string) (*models.User, error) {
	const op = "UserService.Get"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	row, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "user not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	return row, nil
}

func (s *userService) CompanyOf(ctx context.Context, userID string) (*models.Company, error) {
	const op = "UserService.CompanyOf"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	row, err := s.users.GetCompanyByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	return row, nil
}
