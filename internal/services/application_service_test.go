package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/utils"
)

type appFixture struct {
	users  *fakeUserRepo
	jobs   *fakeJobRepo
	cvs    *fakeCVRepo
	apps   *fakeApplicationRepo
	notifs *fakeNotificationRepo
	svc    ApplicationService
}

const (
	candidateID = "11111111-1111-1111-1111-111111111111"
	recruiterID = "22222222-2222-2222-2222-222222222222"
	companyID   = "33333333-3333-3333-3333-333333333333"
	jobID       = "44444444-4444-4444-4444-444444444444"
	cvID        = "55555555-5555-5555-5555-555555555555"
)

func newAppFixture() *appFixture {
	users := newFakeUserRepo()
	jobs := newFakeJobRepo()
	cvs := newFakeCVRepo()
	notifs := newFakeNotificationRepo()
	apps := newFakeApplicationRepo(notifs)

	users.users[candidateID] = &models.User{ID: candidateID, Username: "alice", Role: models.RoleJobSeeker, IsActive: true}
	users.users[recruiterID] = &models.User{ID: recruiterID, Username: "bob", Role: models.RoleRecruiter, IsActive: true}
	users.companies[recruiterID] = &models.Company{ID: companyID, UserID: recruiterID, CompanyName: "Acme"}
	jobs.companies[companyID] = users.companies[recruiterID]
	jobs.jobs[jobID] = &models.Job{ID: jobID, Title: "Backend Engineer", Status: models.JobPosted, CompanyID: companyID}
	cvs.cvs[cvID] = &models.CV{ID: cvID, UserID: candidateID}

	return &appFixture{
		users:  users,
		jobs:   jobs,
		cvs:    cvs,
		apps:   apps,
		notifs: notifs,
		svc:    NewApplicationService(apps, jobs, cvs, users, NewNotificationService(notifs, nil)),
	}
}

func (f *appFixture) submit(t *testing.T) *models.Application {
	t.Helper()
	app, err := f.svc.Submit(context.Background(), candidateID, jobID, cvID, "please hire me")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return app
}

func TestSubmitCreatesPendingApplicationAndNotifiesBothSides(t *testing.T) {
	f := newAppFixture()

	app := f.submit(t)
	if app.Status != models.ApplicationPending {
		t.Fatalf("status = %s, want %s", app.Status, models.ApplicationPending)
	}

	want := "alice has just applied for your job: Backend Engineer"
	for _, userID := range []string{candidateID, recruiterID} {
		rows := f.notifs.forUser(userID)
		if len(rows) != 1 {
			t.Fatalf("notifications for %s = %d, want 1", userID, len(rows))
		}
		if rows[0].Content != want {
			t.Fatalf("notification content = %q, want %q", rows[0].Content, want)
		}
	}
}

func TestSubmitRejectsDuplicatePair(t *testing.T) {
	f := newAppFixture()
	f.submit(t)

	_, err := f.svc.Submit(context.Background(), candidateID, jobID, cvID, "second try")
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("duplicate submit error = %v, want CONFLICT", err)
	}
	if err == nil || !strings.Contains(err.Error(), "already applied") {
		t.Fatalf("duplicate submit error = %v, want already-applied message", err)
	}
}

func TestSubmitRejectsClosedJob(t *testing.T) {
	f := newAppFixture()
	f.jobs.jobs[jobID].Status = models.JobExpired

	_, err := f.svc.Submit(context.Background(), candidateID, jobID, cvID, "too late")
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("closed-job submit error = %v, want CONFLICT", err)
	}
}

func TestSubmitRejectsForeignCV(t *testing.T) {
	f := newAppFixture()
	f.cvs.cvs["other-cv"] = &models.CV{ID: "other-cv", UserID: recruiterID}

	_, err := f.svc.Submit(context.Background(), candidateID, jobID, "other-cv", "not mine")
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("foreign-cv submit error = %v, want FORBIDDEN", err)
	}
}

func TestSubmitFailureWritesNothing(t *testing.T) {
	f := newAppFixture()
	f.apps.createErr = context.DeadlineExceeded

	if _, err := f.svc.Submit(context.Background(), candidateID, jobID, cvID, "boom"); err == nil {
		t.Fatal("Submit succeeded, want error")
	}
	if got := len(f.notifs.forUser(recruiterID)) + len(f.notifs.forUser(candidateID)); got != 0 {
		t.Fatalf("notifications written on failed submit = %d, want 0", got)
	}
}

func TestTransitionConfirmRejectAccept(t *testing.T) {
	f := newAppFixture()
	app := f.submit(t)

	got, err := f.svc.Transition(context.Background(), recruiterID, app.ID, models.ActionConfirm, "")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if got.Status != models.ApplicationConfirmed {
		t.Fatalf("status after confirm = %s", got.Status)
	}

	got, err = f.svc.Transition(context.Background(), recruiterID, app.ID, models.ActionAccept, "welcome aboard")
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if got.Status != models.ApplicationAccepted {
		t.Fatalf("status after accept = %s", got.Status)
	}
	if got.Feedback != "welcome aboard" {
		t.Fatalf("feedback = %q", got.Feedback)
	}

	rows := f.notifs.forUser(candidateID)
	var contents []string
	for _, n := range rows {
		contents = append(contents, n.Content)
	}
	wantConfirmed := "Your application for Backend Engineer has been confirmed."
	wantAccepted := "Your application for Backend Engineer has been accepted."
	if len(contents) < 3 || contents[1] != wantConfirmed || contents[2] != wantAccepted {
		t.Fatalf("candidate notifications = %v", contents)
	}
}

func TestTransitionAcceptRequiresConfirm(t *testing.T) {
	f := newAppFixture()
	app := f.submit(t)

	_, err := f.svc.Transition(context.Background(), recruiterID, app.ID, models.ActionAccept, "")
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("accept from PENDING error = %v, want CONFLICT", err)
	}
}

func TestTransitionRejectIsFinal(t *testing.T) {
	f := newAppFixture()
	app := f.submit(t)

	if _, err := f.svc.Transition(context.Background(), recruiterID, app.ID, models.ActionReject, "not a fit"); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	_, err := f.svc.Transition(context.Background(), recruiterID, app.ID, models.ActionReject, "again")
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("second reject error = %v, want CONFLICT", err)
	}
	_, err = f.svc.Transition(context.Background(), recruiterID, app.ID, models.ActionConfirm, "")
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("confirm after reject error = %v, want CONFLICT", err)
	}
}

func TestTransitionRequiresJobOwnership(t *testing.T) {
	f := newAppFixture()
	app := f.submit(t)

	_, err := f.svc.Transition(context.Background(), candidateID, app.ID, models.ActionConfirm, "")
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("non-owner transition error = %v, want FORBIDDEN", err)
	}
}

func TestTransitionConcurrentDecisionsOneWins(t *testing.T) {
	f := newAppFixture()
	app := f.submit(t)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Transition(context.Background(), recruiterID, app.ID, models.ActionConfirm, "")
		}(i)
	}
	wg.Wait()

	var okCount int
	for _, err := range errs {
		if err == nil {
			okCount++
		} else if !utils.IsCode(err, utils.CodeConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 {
		t.Fatalf("successful confirms = %d, want exactly 1", okCount)
	}
}

func TestWithdrawSoftDeletesWithoutNotification(t *testing.T) {
	f := newAppFixture()
	app := f.submit(t)
	before := len(f.notifs.forUser(candidateID))

	if err := f.svc.Withdraw(context.Background(), candidateID, app.ID); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	stored, err := f.apps.GetByID(context.Background(), app.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != models.ApplicationDeleted {
		t.Fatalf("status after withdraw = %s", stored.Status)
	}
	if got := len(f.notifs.forUser(candidateID)); got != before {
		t.Fatalf("withdraw wrote %d notifications, want 0", got-before)
	}
}

func TestWithdrawRejectsTerminalApplication(t *testing.T) {
	f := newAppFixture()
	app := f.submit(t)

	if _, err := f.svc.Transition(context.Background(), recruiterID, app.ID, models.ActionReject, ""); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	err := f.svc.Withdraw(context.Background(), candidateID, app.ID)
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("withdraw of rejected application error = %v, want CONFLICT", err)
	}
}

func TestWithdrawRequiresOwnership(t *testing.T) {
	f := newAppFixture()
	app := f.submit(t)

	err := f.svc.Withdraw(context.Background(), recruiterID, app.ID)
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Fatalf("foreign withdraw error = %v, want FORBIDDEN", err)
	}
}

func TestTransitionUpdatesTimestamp(t *testing.T) {
	f := newAppFixture()
	app := f.submit(t)
	before := time.Now().UTC().Add(-time.Second)

	got, err := f.svc.Transition(context.Background(), recruiterID, app.ID, models.ActionConfirm, "")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if got.UpdatedDate.Before(before) {
		t.Fatalf("UpdatedDate = %v, want recent", got.UpdatedDate)
	}
}
