package repositories

import (
	"context"
	"strings"
	"time"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuperintendentFilter narrows directory and admin listings. Nil pointers
// mean "do not filter".
type SuperintendentFilter struct {
	VesselType string
	Port       string
	Available  *bool
	Verified   *bool
	Premium    *bool
	// ActiveOnly hides profiles of deactivated or unverified-email users.
	ActiveOnly bool
	Now        time.Time
}

// ISuperintendentRepository is the interface for superintendent profile persistence.
type ISuperintendentRepository interface {
	Create(ctx context.Context, profile *models.SuperintendentProfile) error
	FindByID(ctx context.Context, id uint) (*models.SuperintendentProfile, error)
	FindByUserID(ctx context.Context, userID uint) (*models.SuperintendentProfile, error)
	Save(ctx context.Context, profile *models.SuperintendentProfile) error
	UpdateColumns(ctx context.Context, id uint, data map[string]interface{}) error
	FindByIDForUpdate(ctx context.Context, id uint) (*models.SuperintendentProfile, error)
	FindAllPaginated(ctx context.Context, filter SuperintendentFilter, params queryparams.ListParams) ([]models.SuperintendentProfile, int64, error)
	CountVerified(ctx context.Context) (int64, error)
	CountPremium(ctx context.Context, now time.Time) (int64, error)
}

// SuperintendentRepository implements ISuperintendentRepository with GORM.
type SuperintendentRepository struct {
	*BaseRepository[models.SuperintendentProfile]
}

// NewSuperintendentRepository creates a SuperintendentRepository.
func NewSuperintendentRepository(db *gorm.DB) *SuperintendentRepository {
	return &SuperintendentRepository{BaseRepository: NewBaseRepository[models.SuperintendentProfile](db)}
}

var superintendentSortColumns = map[string]string{
	"created_at":       "superintendent_profiles.created_at",
	"day_rate":         "superintendent_profiles.day_rate",
	"years_experience": "superintendent_profiles.years_experience",
}

// FindByID preloads the owning user.
func (r *SuperintendentRepository) FindByID(ctx context.Context, id uint) (*models.SuperintendentProfile, error) {
	var profile models.SuperintendentProfile
	if err := r.getDB(ctx).Preload("User").First(&profile, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

func (r *SuperintendentRepository) FindByUserID(ctx context.Context, userID uint) (*models.SuperintendentProfile, error) {
	var profile models.SuperintendentProfile
	if err := r.getDB(ctx).Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

// FindByIDForUpdate row-locks the profile; call it inside a transaction.
func (r *SuperintendentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.SuperintendentProfile, error) {
	var profile models.SuperintendentProfile
	err := r.getDB(ctx).Clauses(lockingForUpdate()).First(&profile, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

func applySuperintendentFilters(query *gorm.DB, filter SuperintendentFilter, search string) *gorm.DB {
	query = query.Joins("User")
	if filter.ActiveOnly {
		query = query.Where(`"User".is_active = ? AND "User".email_verified_at IS NOT NULL`, true)
	}
	if search != "" {
		pattern := likePattern(strings.ToLower(search))
		query = query.Where(`(LOWER("User".full_name) LIKE ? OR LOWER("User".email) LIKE ? OR LOWER(superintendent_profiles.headline) LIKE ?)`,
			pattern, pattern, pattern)
	}
	if filter.VesselType != "" {
		query = query.Where("LOWER(superintendent_profiles.vessel_types) LIKE ?", likePattern(strings.ToLower(filter.VesselType)))
	}
	if filter.Port != "" {
		query = query.Where("superintendent_profiles.home_port_locode = ?", strings.ToUpper(filter.Port))
	}
	if filter.Available != nil {
		query = query.Where("superintendent_profiles.available = ?", *filter.Available)
	}
	if filter.Verified != nil {
		query = query.Where("superintendent_profiles.verified = ?", *filter.Verified)
	}
	if filter.Premium != nil {
		if *filter.Premium {
			query = query.Where("superintendent_profiles.premium_until > ?", filter.Now)
		} else {
			query = query.Where("(superintendent_profiles.premium_until IS NULL OR superintendent_profiles.premium_until <= ?)", filter.Now)
		}
	}
	return query
}

// FindAllPaginated lists profiles with active premium members first.
func (r *SuperintendentRepository) FindAllPaginated(ctx context.Context, filter SuperintendentFilter, params queryparams.ListParams) ([]models.SuperintendentProfile, int64, error) {
	if filter.Now.IsZero() {
		filter.Now = time.Now().UTC()
	}
	query := applySuperintendentFilters(r.getDB(ctx).Model(&models.SuperintendentProfile{}), filter, params.Search)

	order := clause.OrderBy{Expression: clause.Expr{
		SQL: "CASE WHEN superintendent_profiles.premium_until > ? THEN 0 ELSE 1 END, " +
			params.SortColumn(superintendentSortColumns, "superintendent_profiles.created_at") + " " + direction(params),
		Vars:               []interface{}{filter.Now},
		WithoutParentheses: true,
	}}

	var profiles []models.SuperintendentProfile
	total, err := paginate(query, params.CalculateOffset(), params.Limit, order, &profiles)
	if err != nil {
		configslog.Log.Error("SuperintendentRepository.FindAllPaginated: DB error", zap.Error(err))
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *SuperintendentRepository) CountVerified(ctx context.Context) (int64, error) {
	return r.Count(ctx, "verified = ?", true)
}

// CountPremium counts profiles whose premium is still running at now.
func (r *SuperintendentRepository) CountPremium(ctx context.Context, now time.Time) (int64, error) {
	return r.Count(ctx, "premium_until > ?", now)
}

var _ ISuperintendentRepository = (*SuperintendentRepository)(nil)
