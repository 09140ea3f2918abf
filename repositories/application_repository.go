package repositories

import (
	"context"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IApplicationRepository is the interface for job application persistence.
type IApplicationRepository interface {
	Create(ctx context.Context, application *models.JobApplication) error
	FindByID(ctx context.Context, id uint) (*models.JobApplication, error)
	UpdateColumns(ctx context.Context, id uint, data map[string]interface{}) error
	FindByIDForUpdate(ctx context.Context, id uint) (*models.JobApplication, error)
	SetStatus(ctx context.Context, id uint, from, to models.ApplicationStatus) (bool, error)
	FindByJobPaginated(ctx context.Context, jobID uint, status models.ApplicationStatus, params queryparams.ListParams) ([]models.JobApplication, int64, error)
	FindBySuperintendentPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.JobApplication, int64, error)
	Count(ctx context.Context, where string, args ...interface{}) (int64, error)
}

// ApplicationRepository implements IApplicationRepository with GORM.
type ApplicationRepository struct {
	*BaseRepository[models.JobApplication]
}

// NewApplicationRepository creates an ApplicationRepository.
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{BaseRepository: NewBaseRepository[models.JobApplication](db)}
}

// FindByID loads the application with its job and superintendent.
func (r *ApplicationRepository) FindByID(ctx context.Context, id uint) (*models.JobApplication, error) {
	var application models.JobApplication
	if err := r.getDB(ctx).Preload("Job").Preload("Superintendent").First(&application, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &application, nil
}

// FindByIDForUpdate row-locks the application without its associations; call
// it inside a transaction.
func (r *ApplicationRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.JobApplication, error) {
	var application models.JobApplication
	if err := r.getDB(ctx).Clauses(lockingForUpdate()).First(&application, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &application, nil
}

func statusTransition(db *gorm.DB, id uint, from, to models.ApplicationStatus) *gorm.DB {
	return db.Model(&models.JobApplication{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
}

// SetStatus moves the application from one status to another and reports
// whether the row was still in the expected status.
func (r *ApplicationRepository) SetStatus(ctx context.Context, id uint, from, to models.ApplicationStatus) (bool, error) {
	result := statusTransition(r.getDB(ctx), id, from, to)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected == 1, nil
}

// FindByJobPaginated lists applicants of one job; an empty status lists all.
func (r *ApplicationRepository) FindByJobPaginated(ctx context.Context, jobID uint, status models.ApplicationStatus, params queryparams.ListParams) ([]models.JobApplication, int64, error) {
	query := r.getDB(ctx).Model(&models.JobApplication{}).Where("job_id = ?", jobID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var applications []models.JobApplication
	total, err := paginate(query, params.CalculateOffset(), params.Limit, "created_at "+direction(params), &applications, "Superintendent")
	if err != nil {
		configslog.Log.Error("ApplicationRepository.FindByJobPaginated: DB error", zap.Uint("job_id", jobID), zap.Error(err))
		return nil, 0, err
	}
	return applications, total, nil
}

func (r *ApplicationRepository) FindBySuperintendentPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.JobApplication, int64, error) {
	query := r.getDB(ctx).Model(&models.JobApplication{}).Where("superintendent_user_id = ?", userID)
	var applications []models.JobApplication
	total, err := paginate(query, params.CalculateOffset(), params.Limit, "created_at "+direction(params), &applications, "Job")
	if err != nil {
		configslog.Log.Error("ApplicationRepository.FindBySuperintendentPaginated: DB error", zap.Uint("user_id", userID), zap.Error(err))
		return nil, 0, err
	}
	return applications, total, nil
}

var _ IApplicationRepository = (*ApplicationRepository)(nil)
