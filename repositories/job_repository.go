package repositories

import (
	"context"
	"strings"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JobFilter narrows a job listing. Empty fields do not filter.
type JobFilter struct {
	Status        models.JobStatus
	VesselType    string
	Port          string
	ManagerUserID uint
}

// IJobRepository is the interface for job persistence.
type IJobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id uint) (*models.Job, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Job, error)
	Save(ctx context.Context, job *models.Job) error
	UpdateColumns(ctx context.Context, id uint, data map[string]interface{}) error
	SoftDelete(ctx context.Context, id uint, deletedByUserID uint) error
	FindAllPaginated(ctx context.Context, filter JobFilter, params queryparams.ListParams) ([]models.Job, int64, error)
	IncrementApplications(ctx context.Context, id uint, delta int) error
	CountByStatus(ctx context.Context, status models.JobStatus) (int64, error)
	ListOpenForSitemap(ctx context.Context) ([]models.Job, error)
}

// JobRepository implements IJobRepository with GORM.
type JobRepository struct {
	*BaseRepository[models.Job]
}

// NewJobRepository creates a JobRepository.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{BaseRepository: NewBaseRepository[models.Job](db)}
}

var jobSortColumns = map[string]string{
	"created_at":   "jobs.created_at",
	"start_date":   "jobs.start_date",
	"day_rate_max": "jobs.day_rate_max",
	"title":        "jobs.title",
}

func (r *JobRepository) FindByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.getDB(ctx).Preload("Manager").First(&job, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &job, nil
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *JobRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.getDB(ctx).Clauses(lockingForUpdate()).First(&job, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &job, nil
}

func applyJobFilters(query *gorm.DB, filter JobFilter, search string) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("jobs.status = ?", filter.Status)
	}
	if filter.ManagerUserID != 0 {
		query = query.Where("jobs.manager_user_id = ?", filter.ManagerUserID)
	}
	if filter.VesselType != "" {
		query = query.Where("LOWER(jobs.vessel_type) = ?", strings.ToLower(filter.VesselType))
	}
	if filter.Port != "" {
		query = query.Where("jobs.port_locode = ?", strings.ToUpper(filter.Port))
	}
	if search != "" {
		pattern := likePattern(strings.ToLower(search))
		query = query.Where("(LOWER(jobs.title) LIKE ? OR LOWER(jobs.description) LIKE ?)", pattern, pattern)
	}
	return query
}

func (r *JobRepository) FindAllPaginated(ctx context.Context, filter JobFilter, params queryparams.ListParams) ([]models.Job, int64, error) {
	query := applyJobFilters(r.getDB(ctx).Model(&models.Job{}), filter, params.Search)
	order := params.SortColumn(jobSortColumns, "jobs.created_at") + " " + direction(params)

	var jobs []models.Job
	total, err := paginate(query, params.CalculateOffset(), params.Limit, order, &jobs, "Manager")
	if err != nil {
		configslog.Log.Error("JobRepository.FindAllPaginated: DB error", zap.Any("filter", filter), zap.Error(err))
		return nil, 0, err
	}
	return jobs, total, nil
}

// IncrementApplications adjusts the denormalised counter without a read.
func (r *JobRepository) IncrementApplications(ctx context.Context, id uint, delta int) error {
	result := r.getDB(ctx).Model(&models.Job{}).Where("id = ?", id).
		UpdateColumn("applications_count", gorm.Expr("GREATEST(applications_count + ?, 0)", delta))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *JobRepository) CountByStatus(ctx context.Context, status models.JobStatus) (int64, error) {
	return r.Count(ctx, "status = ?", status)
}

// ListOpenForSitemap returns ids and timestamps of open jobs.
func (r *JobRepository) ListOpenForSitemap(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := r.getDB(ctx).Select("id", "updated_at").
		Where("status = ?", models.JobStatusOpen).
		Order("updated_at desc").Limit(sitemapMaxRows).
		Find(&jobs).Error
	return jobs, translateError(err)
}

var _ IJobRepository = (*JobRepository)(nil)
