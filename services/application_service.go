package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/mailer"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/pkg/validation"
	"marinehub.app/repositories"

	"go.uber.org/zap"
)

// ApplicationServiceError is returned by ApplicationService.
type ApplicationServiceError string

func (e ApplicationServiceError) Error() string { return string(e) }

const (
	ErrApplicationNotFound      ApplicationServiceError = "application not found"
	ErrAlreadyApplied           ApplicationServiceError = "you have already applied to this job"
	ErrApplicationForbidden     ApplicationServiceError = "you are not allowed to access this application"
	ErrApplicationWithdrawn     ApplicationServiceError = "application has been withdrawn"
	ErrInvalidApplicationStatus ApplicationServiceError = "status must be one of: shortlisted, accepted, rejected"
	ErrApplicationFailed        ApplicationServiceError = "application could not be saved"
	ErrApplicationConflict      ApplicationServiceError = "application was changed by another request, reload and retry"
)

// ApplicationInput is a superintendent applying to a job.
type ApplicationInput struct {
	CoverLetter  string  `json:"cover_letter" validate:"max=5000"`
	ProposedRate float64 `json:"proposed_rate" validate:"min=0"`
}

// ApplicationStatusInput is the reviewing manager's decision.
type ApplicationStatusInput struct {
	Status models.ApplicationStatus `json:"status" validate:"required"`
}

// IApplicationService is the interface for job applications.
type IApplicationService interface {
	Apply(ctx context.Context, actor Actor, jobID uint, in ApplicationInput) (*models.JobApplication, error)
	ListForJob(ctx context.Context, actor Actor, jobID uint, status models.ApplicationStatus, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ListMine(ctx context.Context, actor Actor, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateStatus(ctx context.Context, actor Actor, id uint, in ApplicationStatusInput) (*models.JobApplication, error)
	Withdraw(ctx context.Context, actor Actor, id uint) (*models.JobApplication, error)
}

// ApplicationService implements IApplicationService.
type ApplicationService struct {
	applications  repositories.IApplicationRepository
	jobs          repositories.IJobRepository
	tx            repositories.ITransactor
	notifications INotificationService
	mail          mailer.Mailer
	baseURL       string
}

// NewApplicationService creates an ApplicationService.
func NewApplicationService(
	applications repositories.IApplicationRepository,
	jobs repositories.IJobRepository,
	tx repositories.ITransactor,
	notifications INotificationService,
	mail mailer.Mailer,
	baseURL string,
) IApplicationService {
	return &ApplicationService{
		applications:  applications,
		jobs:          jobs,
		tx:            tx,
		notifications: notifications,
		mail:          mail,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

func (s *ApplicationService) jobLink(jobID uint) string {
	return fmt.Sprintf("%s/jobs/%d", s.baseURL, jobID)
}

// Apply locks the job row so the open check, the insert and the counter
// bump see the same job state.
func (s *ApplicationService) Apply(ctx context.Context, actor Actor, jobID uint, in ApplicationInput) (*models.JobApplication, error) {
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	ctx = actor.Context(ctx)

	application := &models.JobApplication{
		JobID:                jobID,
		SuperintendentUserID: actor.UserID,
		CoverLetter:          in.CoverLetter,
		ProposedRate:         in.ProposedRate,
		Status:               models.ApplicationStatusPending,
	}
	var notification *models.Notification

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		job, err := s.jobs.FindByIDForUpdate(ctx, jobID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrJobNotFound
			}
			return err
		}
		if job.Status != models.JobStatusOpen {
			return ErrJobNotOpen
		}
		if err := s.applications.Create(ctx, application); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return ErrAlreadyApplied
			}
			return err
		}
		if err := s.jobs.IncrementApplications(ctx, jobID, 1); err != nil {
			return err
		}
		notification = &models.Notification{
			UserID: job.ManagerUserID,
			Kind:   models.NotificationApplicationReceived,
			Title:  "New application for " + job.Title,
			Body:   "A superintendent applied to your job.",
			Link:   s.jobLink(jobID),
		}
		application.Job = job
		return s.notifications.Create(ctx, notification)
	})
	if err != nil {
		var serviceErr ApplicationServiceError
		var jobErr JobServiceError
		if errors.As(err, &serviceErr) || errors.As(err, &jobErr) {
			return nil, err
		}
		configslog.Log.Error("Application could not be created", zap.Uint("job_id", jobID), zap.Uint("user_id", actor.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrApplicationFailed, err)
	}

	s.notifications.Publish(ctx, notification)
	configslog.SLog.Infof("User %d applied to job %d", actor.UserID, jobID)
	return application, nil
}

// ListForJob lists the applications of a job the actor owns, optionally filtered
// by status. Admins see every job.
func (s *ApplicationService) ListForJob(ctx context.Context, actor Actor, jobID uint, status models.ApplicationStatus, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if !canManageJob(actor, job) {
		return nil, ErrJobForbidden
	}
	rows, total, err := s.applications.FindByJobPaginated(ctx, jobID, status, params)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(rows, total, params), nil
}

// ListMine lists the applications the actor has sent.
func (s *ApplicationService) ListMine(ctx context.Context, actor Actor, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	rows, total, err := s.applications.FindBySuperintendentPaginated(ctx, actor.UserID, params)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(rows, total, params), nil
}

func (s *ApplicationService) find(ctx context.Context, id uint) (*models.JobApplication, error) {
	application, err := s.applications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return application, nil
}

// UpdateStatus is the job owner's review decision. The status is re-checked
// under a row lock, so a withdrawal racing the review wins. The applicant is
// notified in-app and by email; the email is best effort.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor Actor, id uint, in ApplicationStatusInput) (*models.JobApplication, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if !in.Status.ReviewStatus() {
		return nil, ErrInvalidApplicationStatus
	}
	application, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if application.Job == nil || !canManageJob(actor, application.Job) {
		return nil, ErrApplicationForbidden
	}
	if application.Status == models.ApplicationStatusWithdrawn {
		return nil, ErrApplicationWithdrawn
	}
	if application.Status == in.Status {
		return application, nil
	}

	ctx = actor.Context(ctx)
	unchanged := false
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.applications.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}
		if locked.Status == models.ApplicationStatusWithdrawn {
			return ErrApplicationWithdrawn
		}
		if locked.Status == in.Status {
			unchanged = true
			return nil
		}
		changed, err := s.applications.SetStatus(ctx, id, locked.Status, in.Status)
		if err != nil {
			return err
		}
		if !changed {
			return ErrApplicationConflict
		}
		return nil
	})
	if err != nil {
		var serviceErr ApplicationServiceError
		if errors.As(err, &serviceErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrApplicationFailed, err)
	}
	application.Status = in.Status
	if unchanged {
		return application, nil
	}

	link := s.jobLink(application.JobID)
	err = s.notifications.Notify(ctx, &models.Notification{
		UserID: application.SuperintendentUserID,
		Kind:   models.NotificationApplicationStatus,
		Title:  fmt.Sprintf("Your application for %s is %s", application.Job.Title, in.Status),
		Link:   link,
	})
	if err != nil {
		configslog.Log.Warn("Status notification could not be created", zap.Uint("application_id", id), zap.Error(err))
	}
	if applicant := application.Superintendent; applicant != nil && applicant.Email != "" {
		err := s.mail.Send(ctx, applicant.Email, "Application update: "+application.Job.Title, mailer.TemplateApplicationStatus, map[string]any{
			"Name":     applicant.FullName,
			"JobTitle": application.Job.Title,
			"Status":   string(in.Status),
			"Link":     link,
		})
		if err != nil {
			configslog.Log.Warn("Status email could not be sent", zap.Uint("application_id", id), zap.Error(err))
		}
	}
	configslog.SLog.Infof("Application %d set to %s by user %d", id, in.Status, actor.UserID)
	return application, nil
}

// Withdraw is only open to the applicant and frees a slot in the job counter.
// The status is re-read under a row lock so the counter drops at most once.
func (s *ApplicationService) Withdraw(ctx context.Context, actor Actor, id uint) (*models.JobApplication, error) {
	application, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if application.SuperintendentUserID != actor.UserID {
		return nil, ErrApplicationForbidden
	}
	if application.Status == models.ApplicationStatusWithdrawn {
		return nil, ErrApplicationWithdrawn
	}

	ctx = actor.Context(ctx)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.applications.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}
		if locked.Status == models.ApplicationStatusWithdrawn {
			return ErrApplicationWithdrawn
		}
		changed, err := s.applications.SetStatus(ctx, id, locked.Status, models.ApplicationStatusWithdrawn)
		if err != nil {
			return err
		}
		if !changed {
			return ErrApplicationWithdrawn
		}
		return s.jobs.IncrementApplications(ctx, application.JobID, -1)
	})
	if err != nil {
		var serviceErr ApplicationServiceError
		if errors.As(err, &serviceErr) {
			return nil, err
		}
		configslog.Log.Error("Application could not be withdrawn", zap.Uint("application_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrApplicationFailed, err)
	}
	application.Status = models.ApplicationStatusWithdrawn
	return application, nil
}

var _ IApplicationService = (*ApplicationService)(nil)
