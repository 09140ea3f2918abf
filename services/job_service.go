package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/pkg/validation"
	"marinehub.app/repositories"

	"go.uber.org/zap"
)

// JobServiceError is returned by JobService.
type JobServiceError string

func (e JobServiceError) Error() string { return string(e) }

const (
	ErrJobNotFound       JobServiceError = "job not found"
	ErrJobForbidden      JobServiceError = "you are not allowed to manage this job"
	ErrJobNotOpen        JobServiceError = "job is not open for applications"
	ErrJobAlreadyClosed  JobServiceError = "job is already closed"
	ErrJobCreationFailed JobServiceError = "job could not be created"
	ErrJobUpdateFailed   JobServiceError = "job could not be updated"
	ErrJobDeletionFailed JobServiceError = "job could not be deleted"
)

// JobInput is the body for creating and updating a job posting.
type JobInput struct {
	Title        string           `json:"title" validate:"required,max=200"`
	Description  string           `json:"description" validate:"required,max=20000"`
	VesselType   string           `json:"vessel_type" validate:"max=100"`
	PortLocode   string           `json:"port_locode" validate:"locode"`
	StartDate    *time.Time       `json:"start_date"`
	DurationDays int              `json:"duration_days" validate:"min=0,max=365"`
	DayRateMin   float64          `json:"day_rate_min" validate:"min=0"`
	DayRateMax   float64          `json:"day_rate_max" validate:"min=0,gtefield=DayRateMin"`
	Currency     string           `json:"currency" validate:"omitempty,len=3,alpha"`
	Status       models.JobStatus `json:"status" validate:"omitempty,oneof=draft open closed"`
}

// JobQuery filters job listings.
type JobQuery struct {
	queryparams.ListParams
	VesselType string `query:"vessel_type"`
	Port       string `query:"port"`
	Status     string `query:"status"`
}

// IJobService is the interface for job postings.
type IJobService interface {
	ListOpen(ctx context.Context, q JobQuery) (*queryparams.PaginatedResult, error)
	ListForManager(ctx context.Context, managerID uint, q JobQuery) (*queryparams.PaginatedResult, error)
	Get(ctx context.Context, actor Actor, id uint) (*models.Job, error)
	Create(ctx context.Context, actor Actor, in JobInput) (*models.Job, error)
	Update(ctx context.Context, actor Actor, id uint, in JobInput) (*models.Job, error)
	Close(ctx context.Context, actor Actor, id uint) (*models.Job, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

// JobService implements IJobService.
type JobService struct {
	repo repositories.IJobRepository
}

// NewJobService creates a JobService.
func NewJobService(repo repositories.IJobRepository) IJobService {
	return &JobService{repo: repo}
}

func normalizeJobInput(in *JobInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.VesselType = strings.TrimSpace(in.VesselType)
	in.PortLocode = strings.ToUpper(strings.TrimSpace(in.PortLocode))
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
}

// ListOpen is the public board: open jobs only.
func (s *JobService) ListOpen(ctx context.Context, q JobQuery) (*queryparams.PaginatedResult, error) {
	q.ListParams.Validate()
	filter := repositories.JobFilter{
		Status:     models.JobStatusOpen,
		VesselType: strings.TrimSpace(q.VesselType),
		Port:       strings.TrimSpace(q.Port),
	}
	jobs, total, err := s.repo.FindAllPaginated(ctx, filter, q.ListParams)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		hidePrivateUserFields(jobs[i].Manager)
	}
	return queryparams.NewPaginatedResult(jobs, total, q.ListParams), nil
}

// ListForManager lists every job of one manager whatever its status.
func (s *JobService) ListForManager(ctx context.Context, managerID uint, q JobQuery) (*queryparams.PaginatedResult, error) {
	q.ListParams.Validate()
	filter := repositories.JobFilter{ManagerUserID: managerID}
	if status := models.JobStatus(q.Status); status.Valid() {
		filter.Status = status
	}
	jobs, total, err := s.repo.FindAllPaginated(ctx, filter, q.ListParams)
	if err != nil {
		return nil, err
	}
	return queryparams.NewPaginatedResult(jobs, total, q.ListParams), nil
}

func (s *JobService) find(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func canManageJob(actor Actor, job *models.Job) bool {
	return actor.IsAdmin() || (actor.UserID != 0 && job.ManagerUserID == actor.UserID)
}

// Get hides drafts from everyone but their owner and admins.
func (s *JobService) Get(ctx context.Context, actor Actor, id uint) (*models.Job, error) {
	job, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusDraft && !canManageJob(actor, job) {
		return nil, ErrJobNotFound
	}
	if !canManageJob(actor, job) {
		hidePrivateUserFields(job.Manager)
	}
	return job, nil
}

// Create opens a new job owned by actor.
func (s *JobService) Create(ctx context.Context, actor Actor, in JobInput) (*models.Job, error) {
	normalizeJobInput(&in)
	if in.Status == models.JobStatusClosed {
		in.Status = ""
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	job := &models.Job{ManagerUserID: actor.UserID, Currency: "USD", Status: models.JobStatusOpen}
	applyJobInput(job, in)

	if err := s.repo.Create(actor.Context(ctx), job); err != nil {
		configslog.Log.Error("Job could not be created", zap.Uint("manager_user_id", actor.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrJobCreationFailed, err)
	}
	configslog.SLog.Infof("Job %d created by user %d", job.ID, actor.UserID)
	return job, nil
}

func applyJobInput(job *models.Job, in JobInput) {
	job.Title = in.Title
	job.Description = in.Description
	job.VesselType = in.VesselType
	job.PortLocode = in.PortLocode
	job.StartDate = in.StartDate
	job.DurationDays = in.DurationDays
	job.DayRateMin = in.DayRateMin
	job.DayRateMax = in.DayRateMax
	if in.Currency != "" {
		job.Currency = in.Currency
	}
	if in.Status != "" {
		job.Status = in.Status
	}
}

// Update replaces the editable fields. Only the owner or an admin may edit.
func (s *JobService) Update(ctx context.Context, actor Actor, id uint, in JobInput) (*models.Job, error) {
	normalizeJobInput(&in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	job, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageJob(actor, job) {
		return nil, ErrJobForbidden
	}
	applyJobInput(job, in)
	// Column list excludes applications_count, which applications bump concurrently.
	data := map[string]interface{}{
		"title":         job.Title,
		"description":   job.Description,
		"vessel_type":   job.VesselType,
		"port_locode":   job.PortLocode,
		"start_date":    job.StartDate,
		"duration_days": job.DurationDays,
		"day_rate_min":  job.DayRateMin,
		"day_rate_max":  job.DayRateMax,
		"currency":      job.Currency,
		"status":        job.Status,
	}
	if err := s.repo.UpdateColumns(actor.Context(ctx), id, data); err != nil {
		configslog.Log.Error("Job could not be updated", zap.Uint("job_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrJobUpdateFailed, err)
	}
	return job, nil
}

// Close stops a job from taking applications.
func (s *JobService) Close(ctx context.Context, actor Actor, id uint) (*models.Job, error) {
	job, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageJob(actor, job) {
		return nil, ErrJobForbidden
	}
	if job.Status == models.JobStatusClosed {
		return nil, ErrJobAlreadyClosed
	}
	if err := s.repo.UpdateColumns(actor.Context(ctx), id, map[string]interface{}{"status": models.JobStatusClosed}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJobUpdateFailed, err)
	}
	job.Status = models.JobStatusClosed
	configslog.SLog.Infof("Job %d closed by user %d", id, actor.UserID)
	return job, nil
}

func (s *JobService) Delete(ctx context.Context, actor Actor, id uint) error {
	job, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !canManageJob(actor, job) {
		return ErrJobForbidden
	}
	if err := s.repo.SoftDelete(actor.Context(ctx), id, actor.UserID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrJobNotFound
		}
		return fmt.Errorf("%w: %v", ErrJobDeletionFailed, err)
	}
	configslog.SLog.Infof("Job %d deleted by user %d", id, actor.UserID)
	return nil
}

var _ IJobService = (*JobService)(nil)
