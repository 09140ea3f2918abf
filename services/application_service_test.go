package services

import (
	"context"
	"errors"
	"testing"

	"marinehub.app/models"
	"marinehub.app/pkg/mailer"
	"marinehub.app/pkg/queryparams"
)

type marketFixture struct {
	jobs          *fakeJobRepo
	users         *fakeUserRepo
	applications  *fakeApplicationRepo
	notifications *fakeNotificationRepo
	publisher     *fakePublisher
	mail          *fakeMailer
	jobSvc        IJobService
	appSvc        IApplicationService
	manager       Actor
	super         Actor
}

func newMarketFixture(t *testing.T) *marketFixture {
	t.Helper()
	f := &marketFixture{
		jobs:          newFakeJobRepo(),
		users:         newFakeUserRepo(),
		notifications: &fakeNotificationRepo{},
		publisher:     &fakePublisher{},
		mail:          &fakeMailer{},
	}
	f.applications = newFakeApplicationRepo(f.jobs, f.users)
	notifications := NewNotificationService(f.notifications, f.publisher)
	f.jobSvc = NewJobService(f.jobs)
	f.appSvc = NewApplicationService(f.applications, f.jobs, &fakeTx{}, notifications, f.mail, "https://marinehub.app/")

	ctx := context.Background()
	m := &models.User{Email: "m@example.com", FullName: "Manager", Role: models.RoleManager}
	s := &models.User{Email: "s@example.com", FullName: "Super", Role: models.RoleSuperintendent}
	_ = f.users.Create(ctx, m)
	_ = f.users.Create(ctx, s)
	f.manager = Actor{UserID: m.ID, Role: models.RoleManager}
	f.super = Actor{UserID: s.ID, Role: models.RoleSuperintendent}
	return f
}

func (f *marketFixture) job(t *testing.T, status models.JobStatus) *models.Job {
	t.Helper()
	job, err := f.jobSvc.Create(context.Background(), f.manager, JobInput{
		Title: "Pre-purchase inspection", Description: "Bulk carrier, Rotterdam", PortLocode: "nlrtm",
		DayRateMin: 500, DayRateMax: 800, Status: status,
	})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return job
}

func TestApplyToOpenJob(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	job := f.job(t, models.JobStatusOpen)

	app, err := f.appSvc.Apply(ctx, f.super, job.ID, ApplicationInput{CoverLetter: "Available next week", ProposedRate: 700})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.Status != models.ApplicationStatusPending {
		t.Errorf("status = %s", app.Status)
	}
	if f.jobs.rows[job.ID].ApplicationsCount != 1 {
		t.Errorf("applications_count = %d", f.jobs.rows[job.ID].ApplicationsCount)
	}
	owner := f.notifications.forUser(f.manager.UserID)
	if len(owner) != 1 || owner[0].Kind != models.NotificationApplicationReceived {
		t.Fatalf("owner notifications = %+v", owner)
	}
	if len(f.publisher.events) != 1 || f.publisher.events[0].Subject != NotificationSubject(f.manager.UserID) {
		t.Errorf("events = %+v", f.publisher.events)
	}
	if owner[0].Link != "https://marinehub.app/jobs/1" {
		t.Errorf("link = %q", owner[0].Link)
	}

	if _, err := f.appSvc.Apply(ctx, f.super, job.ID, ApplicationInput{}); !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("duplicate apply: got %v", err)
	}
	if f.jobs.rows[job.ID].ApplicationsCount != 1 {
		t.Error("duplicate must not bump the counter")
	}
}

func TestApplyRejectsClosedAndMissingJobs(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	draft := f.job(t, models.JobStatusDraft)

	if _, err := f.appSvc.Apply(ctx, f.super, draft.ID, ApplicationInput{}); !errors.Is(err, ErrJobNotOpen) {
		t.Errorf("draft job: got %v", err)
	}
	if _, err := f.appSvc.Apply(ctx, f.super, 404, ApplicationInput{}); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("missing job: got %v", err)
	}
}

func TestReviewAndWithdraw(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	job := f.job(t, models.JobStatusOpen)
	app, _ := f.appSvc.Apply(ctx, f.super, job.ID, ApplicationInput{})

	if _, err := f.appSvc.UpdateStatus(ctx, f.super, app.ID, ApplicationStatusInput{Status: models.ApplicationStatusAccepted}); !errors.Is(err, ErrApplicationForbidden) {
		t.Errorf("applicant reviewing own application: got %v", err)
	}
	if _, err := f.appSvc.UpdateStatus(ctx, f.manager, app.ID, ApplicationStatusInput{Status: models.ApplicationStatusWithdrawn}); !errors.Is(err, ErrInvalidApplicationStatus) {
		t.Errorf("owner setting withdrawn: got %v", err)
	}

	reviewed, err := f.appSvc.UpdateStatus(ctx, f.manager, app.ID, ApplicationStatusInput{Status: models.ApplicationStatusShortlisted})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if reviewed.Status != models.ApplicationStatusShortlisted {
		t.Errorf("status = %s", reviewed.Status)
	}
	if n := f.notifications.forUser(f.super.UserID); len(n) != 1 || n[0].Kind != models.NotificationApplicationStatus {
		t.Errorf("applicant notifications = %+v", n)
	}
	if m := f.mail.last(); m.Template != mailer.TemplateApplicationStatus || m.To != "s@example.com" {
		t.Errorf("status mail = %+v", m)
	}

	if _, err := f.appSvc.Withdraw(ctx, f.manager, app.ID); !errors.Is(err, ErrApplicationForbidden) {
		t.Errorf("owner withdrawing: got %v", err)
	}
	if _, err := f.appSvc.Withdraw(ctx, f.super, app.ID); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if f.jobs.rows[job.ID].ApplicationsCount != 0 {
		t.Errorf("applications_count = %d after withdraw", f.jobs.rows[job.ID].ApplicationsCount)
	}
	if _, err := f.appSvc.UpdateStatus(ctx, f.manager, app.ID, ApplicationStatusInput{Status: models.ApplicationStatusAccepted}); !errors.Is(err, ErrApplicationWithdrawn) {
		t.Errorf("reviewing withdrawn: got %v", err)
	}
	if _, err := f.appSvc.Withdraw(ctx, f.super, app.ID); !errors.Is(err, ErrApplicationWithdrawn) {
		t.Errorf("double withdraw: got %v", err)
	}
}

func TestListForJobRequiresOwner(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	job := f.job(t, models.JobStatusOpen)
	_, _ = f.appSvc.Apply(ctx, f.super, job.ID, ApplicationInput{})

	if _, err := f.appSvc.ListForJob(ctx, f.super, job.ID, "", queryparams.ListParams{}); !errors.Is(err, ErrJobForbidden) {
		t.Errorf("non-owner listing: got %v", err)
	}
	res, err := f.appSvc.ListForJob(ctx, admin, job.ID, "", queryparams.ListParams{})
	if err != nil {
		t.Fatalf("admin listing: %v", err)
	}
	if res.Meta.Total != 1 {
		t.Errorf("total = %d", res.Meta.Total)
	}
}

func TestJobOwnershipRules(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	draft := f.job(t, models.JobStatusDraft)
	other := Actor{UserID: 99, Role: models.RoleManager}

	if _, err := f.jobSvc.Get(ctx, Actor{}, draft.ID); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("draft visible to visitor: %v", err)
	}
	if _, err := f.jobSvc.Get(ctx, f.manager, draft.ID); err != nil {
		t.Errorf("owner cannot see draft: %v", err)
	}
	if _, err := f.jobSvc.Update(ctx, other, draft.ID, JobInput{Title: "x", Description: "y"}); !errors.Is(err, ErrJobForbidden) {
		t.Errorf("foreign update: got %v", err)
	}
	if err := f.jobSvc.Delete(ctx, other, draft.ID); !errors.Is(err, ErrJobForbidden) {
		t.Errorf("foreign delete: got %v", err)
	}

	if _, err := f.jobSvc.Close(ctx, f.manager, draft.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := f.jobSvc.Close(ctx, f.manager, draft.ID); !errors.Is(err, ErrJobAlreadyClosed) {
		t.Errorf("second close: got %v", err)
	}
	if err := f.jobSvc.Delete(ctx, admin, draft.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if f.jobs.deleted[draft.ID] != admin.UserID {
		t.Errorf("deleted_by = %d", f.jobs.deleted[draft.ID])
	}
}

func TestCreateJobValidation(t *testing.T) {
	f := newMarketFixture(t)
	_, err := f.jobSvc.Create(context.Background(), f.manager, JobInput{
		Title: "Survey", Description: "desc", DayRateMin: 900, DayRateMax: 500,
	})
	if err == nil {
		t.Fatal("min > max day rate accepted")
	}
	job, err := f.jobSvc.Create(context.Background(), f.manager, JobInput{Title: "Survey", Description: "desc", PortLocode: "sgsin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.Status != models.JobStatusOpen || job.PortLocode != "SGSIN" || job.Currency != "USD" {
		t.Errorf("defaults not applied: %+v", job)
	}
}

func TestWithdrawRacingAnotherWithdrawDecrementsOnce(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	job := f.job(t, models.JobStatusOpen)
	app, _ := f.appSvc.Apply(ctx, f.super, job.ID, ApplicationInput{})
	if _, err := f.appSvc.Apply(ctx, Actor{UserID: 99, Role: models.RoleSuperintendent}, job.ID, ApplicationInput{}); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	// The other request commits its withdrawal after our status read.
	f.applications.beforeSet = func(a *models.JobApplication) {
		if a.Status != models.ApplicationStatusWithdrawn {
			a.Status = models.ApplicationStatusWithdrawn
			f.jobs.rows[job.ID].ApplicationsCount--
		}
	}

	if _, err := f.appSvc.Withdraw(ctx, f.super, app.ID); !errors.Is(err, ErrApplicationWithdrawn) {
		t.Fatalf("racing withdraw: got %v", err)
	}
	if got := f.jobs.rows[job.ID].ApplicationsCount; got != 1 {
		t.Errorf("applications_count = %d, want 1", got)
	}
}

func TestReviewLosesToConcurrentWithdraw(t *testing.T) {
	f := newMarketFixture(t)
	ctx := context.Background()
	job := f.job(t, models.JobStatusOpen)
	app, _ := f.appSvc.Apply(ctx, f.super, job.ID, ApplicationInput{})
	notificationsBefore := len(f.notifications.forUser(f.super.UserID))

	f.applications.beforeSet = func(a *models.JobApplication) {
		a.Status = models.ApplicationStatusWithdrawn
	}

	_, err := f.appSvc.UpdateStatus(ctx, f.manager, app.ID, ApplicationStatusInput{Status: models.ApplicationStatusAccepted})
	if !errors.Is(err, ErrApplicationConflict) {
		t.Fatalf("got %v, want ErrApplicationConflict", err)
	}
	if got := f.applications.rows[app.ID].Status; got != models.ApplicationStatusWithdrawn {
		t.Errorf("withdrawal overwritten: status = %s", got)
	}
	if got := len(f.notifications.forUser(f.super.UserID)); got != notificationsBefore {
		t.Errorf("applicant notified about a review that did not happen")
	}
}
