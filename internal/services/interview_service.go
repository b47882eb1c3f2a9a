package services

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/jobnest/backend/internal/models"
	pgrepo "github.com/jobnest/backend/internal/repositories/postgres"
	"github.com/jobnest/backend/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type InterviewService interface {
	// GetOrCreateLink returns the interview bound to the application,
	// creating it on first call. The boolean reports whether this call
	// created it. scheduledAt is only honored on creation; repeat calls
	// return the stored interview unchanged.
	GetOrCreateLink(ctx context.Context, callerID, applicationID string, scheduledAt time.Time) (*models.Interview, bool, error)
	ListForCompany(ctx context.Context, userID string) ([]models.Interview, error)
	// Candidate resolves the user an interview invitation should go to.
	Candidate(ctx context.Context, applicationID string) (*models.User, error)
}

type interviewService struct {
	interviews pgrepo.InterviewRepository
	apps       pgrepo.ApplicationRepository
	jobs       pgrepo.JobRepository
	cvs        pgrepo.CVRepository
	users      pgrepo.UserRepository
	baseURL    string

	// collapses concurrent first-time requests per application on this
	// instance; the unique index covers races across instances
	group singleflight.Group
}

func NewInterviewService(interviews pgrepo.InterviewRepository, apps pgrepo.ApplicationRepository, jobs pgrepo.JobRepository, cvs pgrepo.CVRepository, users pgrepo.UserRepository, meetBaseURL string) InterviewService {
	if meetBaseURL == "" {
		meetBaseURL = "https://meet.jit.si"
	}
	return &interviewService{
		interviews: interviews,
		apps:       apps,
		jobs:       jobs,
		cvs:        cvs,
		users:      users,
		baseURL:    meetBaseURL,
	}
}

type interviewResult struct {
	interview *models.Interview
	created   bool
}

func (s *interviewService) GetOrCreateLink(ctx context.Context, callerID, applicationID string, scheduledAt time.Time) (*models.Interview, bool, error) {
	const op = "InterviewService.GetOrCreateLink"

	if callerID == "" || applicationID == "" {
		return nil, false, utils.E(utils.CodeInvalidArgument, op, "caller_id and application_id are required", nil)
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, false, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, false, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	owned, err := s.jobs.OwnedBy(ctx, app.JobID, callerID)
	if err != nil {
		return nil, false, utils.E(utils.CodeInternal, op, "failed to check job ownership", err)
	}
	if !owned {
		return nil, false, utils.E(utils.CodeForbidden, op, "you are not the owner of this job posting", nil)
	}

	v, err, _ := s.group.Do(applicationID, func() (any, error) {
		return s.getOrCreate(ctx, applicationID, scheduledAt)
	})
	if err != nil {
		return nil, false, utils.E(utils.CodeInternal, op, "failed to create interview link", err)
	}
	res := v.(*interviewResult)
	return res.interview, res.created, nil
}

func (s *interviewService) getOrCreate(ctx context.Context, applicationID string, scheduledAt time.Time) (*interviewResult, error) {
	existing, err := s.interviews.GetByApplicationID(ctx, applicationID)
	if err == nil {
		return &interviewResult{interview: existing}, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, err
	}

	iv := &models.Interview{
		ID:            uuid.NewString(),
		ApplicationID: applicationID,
		ScheduledAt:   scheduledAt.UTC(),
		URL:           s.baseURL + "/" + roomToken(applicationID),
		CreatedDate:   time.Now().UTC(),
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			// another instance won the race; its row is the truth
			existing, rerr := s.interviews.GetByApplicationID(ctx, applicationID)
			if rerr != nil {
				return nil, rerr
			}
			return &interviewResult{interview: existing}, nil
		}
		return nil, err
	}
	return &interviewResult{interview: iv, created: true}, nil
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// roomToken builds the meeting room name: a fixed prefix, the application
// id, and a random alphanumeric suffix.
func roomToken(applicationID string) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = tokenAlphabet[int(b[i])%len(tokenAlphabet)]
	}
	return "application_" + applicationID + "_" + string(b)
}

func (s *interviewService) ListForCompany(ctx context.Context, userID string) ([]models.Interview, error) {
	const op = "InterviewService.ListForCompany"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	company, err := s.users.GetCompanyByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "you do not have a company", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	rows, err := s.interviews.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interviews", err)
	}
	return rows, nil
}

func (s *interviewService) Candidate(ctx context.Context, applicationID string) (*models.User, error) {
	const op = "InterviewService.Candidate"

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}
	cv, err := s.cvs.GetByID(ctx, app.CVID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve candidate cv", err)
	}
	user, err := s.users.GetByID(ctx, cv.UserID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}
	return user, nil
}
