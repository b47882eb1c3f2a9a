package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jobnest/backend/internal/models"
	pgrepo "github.com/jobnest/backend/internal/repositories/postgres"
	"github.com/jobnest/backend/internal/utils"

	"github.com/google/uuid"
)

// ApplicationService drives the application lifecycle:
//
//	PENDING -> CONFIRMED -> ACCEPTED
//	PENDING | CONFIRMED -> REJECTED
//	any non-terminal    -> DELETED (candidate withdraw)
//
// Every decision transition writes exactly one candidate notification in
// the same transaction as the status change.
type ApplicationService interface {
	Submit(ctx context.Context, userID, jobID, cvID, coverLetter string) (*models.Application, error)
	Transition(ctx context.Context, callerID, applicationID string, action models.ApplicationAction, feedback string) (*models.Application, error)
	Withdraw(ctx context.Context, callerID, applicationID string) error
	ListForCandidate(ctx context.Context, userID string, status models.ApplicationStatus, page, perPage int) ([]models.Application, int64, error)
	ListForCompany(ctx context.Context, userID string, status models.ApplicationStatus, page, perPage int) ([]models.Application, int64, error)
}

type applicationService struct {
	apps   pgrepo.ApplicationRepository
	jobs   pgrepo.JobRepository
	cvs    pgrepo.CVRepository
	users  pgrepo.UserRepository
	notifs NotificationService
}

func NewApplicationService(apps pgrepo.ApplicationRepository, jobs pgrepo.JobRepository, cvs pgrepo.CVRepository, users pgrepo.UserRepository, notifs NotificationService) ApplicationService {
	return &applicationService{apps: apps, jobs: jobs, cvs: cvs, users: users, notifs: notifs}
}

func (s *applicationService) Submit(ctx context.Context, userID, jobID, cvID, coverLetter string) (*models.Application, error) {
	const op = "ApplicationService.Submit"

	if userID == "" || jobID == "" || cvID == "" || coverLetter == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id, job_id, cv_id, and cover_letter are required", nil)
	}

	cv, err := s.cvs.GetByID(ctx, cvID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "cv not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load cv", err)
	}
	if cv.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "cv does not belong to you", nil)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if job.Status != models.JobPosted {
		return nil, utils.E(utils.CodeConflict, op, "job is not open for applications", nil)
	}

	ownerID, err := s.jobs.OwnerUserID(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve job owner", err)
	}

	candidate, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:          uuid.NewString(),
		CVID:        cvID,
		JobID:       jobID,
		Status:      models.ApplicationPending,
		CoverLetter: coverLetter,
		AppliedDate: now,
		UpdatedDate: now,
	}

	content := fmt.Sprintf("%s has just applied for your job: %s", candidate.Username, job.Title)
	notifs := []models.Notification{
		{ID: uuid.NewString(), UserID: userID, Content: content, CreatedDate: now},
		{ID: uuid.NewString(), UserID: ownerID, Content: content, CreatedDate: now},
	}

	if err := s.apps.CreateWithNotifications(ctx, app, notifs); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "you have already applied for this job", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}

	s.notifs.InvalidateUnread(ctx, userID, ownerID)
	return app, nil
}

func (s *applicationService) Transition(ctx context.Context, callerID, applicationID string, action models.ApplicationAction, feedback string) (*models.Application, error) {
	const op = "ApplicationService.Transition"

	if callerID == "" || applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "caller_id and application_id are required", nil)
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	owned, err := s.jobs.OwnedBy(ctx, app.JobID, callerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check job ownership", err)
	}
	if !owned {
		return nil, utils.E(utils.CodeForbidden, op, "you are not the owner of this job posting", nil)
	}

	next, ok := models.NextStatus(app.Status, action)
	if !ok {
		return nil, utils.E(utils.CodeConflict, op,
			fmt.Sprintf("action %s is not allowed from status %s", action, app.Status), nil)
	}

	cv, err := s.cvs.GetByID(ctx, app.CVID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve candidate", err)
	}
	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	now := time.Now().UTC()
	notif := &models.Notification{
		ID:          uuid.NewString(),
		UserID:      cv.UserID,
		Content:     decisionContent(job.Title, next),
		CreatedDate: now,
	}

	if err := s.apps.Transition(ctx, applicationID, app.Status, next, feedback, now, notif); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "application status changed concurrently", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update application", err)
	}

	s.notifs.InvalidateUnread(ctx, cv.UserID)

	app.Status = next
	app.UpdatedDate = now
	if feedback != "" {
		app.Feedback = feedback
	}
	return app, nil
}

func decisionContent(jobTitle string, status models.ApplicationStatus) string {
	switch status {
	case models.ApplicationConfirmed:
		return fmt.Sprintf("Your application for %s has been confirmed.", jobTitle)
	case models.ApplicationRejected:
		return fmt.Sprintf("Your application for %s has been rejected.", jobTitle)
	case models.ApplicationAccepted:
		return fmt.Sprintf("Your application for %s has been accepted.", jobTitle)
	default:
		return fmt.Sprintf("Your application for %s has been updated.", jobTitle)
	}
}

// Withdraw soft-deletes the candidate's own application. No notification is
// emitted; DELETED is not a decision state.
func (s *applicationService) Withdraw(ctx context.Context, callerID, applicationID string) error {
	const op = "ApplicationService.Withdraw"

	if callerID == "" || applicationID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "caller_id and application_id are required", nil)
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	cv, err := s.cvs.GetByID(ctx, app.CVID)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to resolve candidate", err)
	}
	if cv.UserID != callerID {
		return utils.E(utils.CodeForbidden, op, "application does not belong to you", nil)
	}

	if app.Status.IsTerminal() {
		return utils.E(utils.CodeConflict, op,
			fmt.Sprintf("application in status %s cannot be withdrawn", app.Status), nil)
	}

	err = s.apps.Transition(ctx, applicationID, app.Status, models.ApplicationDeleted, "", time.Now().UTC(), nil)
	if err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return utils.E(utils.CodeConflict, op, "application status changed concurrently", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to withdraw application", err)
	}
	return nil
}

func (s *applicationService) ListForCandidate(ctx context.Context, userID string, status models.ApplicationStatus, page, perPage int) ([]models.Application, int64, error) {
	const op = "ApplicationService.ListForCandidate"

	if userID == "" {
		return nil, 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	rows, total, err := s.apps.ListByCandidate(ctx, userID, status, page, perPage)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, total, nil
}

func (s *applicationService) ListForCompany(ctx context.Context, userID string, status models.ApplicationStatus, page, perPage int) ([]models.Application, int64, error) {
	const op = "ApplicationService.ListForCompany"

	if userID == "" {
		return nil, 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	company, err := s.users.GetCompanyByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, 0, utils.E(utils.CodeNotFound, op, "you do not have a company", err)
		}
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	rows, total, err := s.apps.ListByCompany(ctx, company.ID, status, page, perPage)
	if err != nil {
		return nil, 0, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return rows, total, nil
}
