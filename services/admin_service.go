package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/premium"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/repositories"

	"go.uber.org/zap"
)

// AdminServiceError is returned by AdminService.
type AdminServiceError string

func (e AdminServiceError) Error() string { return string(e) }

const (
	ErrSuperintendentNotFound AdminServiceError = "superintendent not found"
	ErrInvalidPremiumMonths   AdminServiceError = "months must be between 1 and 24"
	ErrAdminUpdateFailed      AdminServiceError = "superintendent could not be updated"
)

// AdminSuperintendentQuery is the admin listing: search covers name and email.
type AdminSuperintendentQuery struct {
	queryparams.ListParams
	Search   string `query:"search"`
	Verified *bool  `query:"-"`
	Premium  *bool  `query:"-"`
}

// VerifyInput toggles the verified badge.
type VerifyInput struct {
	Verified bool `json:"verified"`
}

// PremiumInput extends the premium badge by Months.
type PremiumInput struct {
	Months int `json:"months" validate:"required"`
}

// Stats is the admin dashboard snapshot.
type Stats struct {
	UsersByRole      map[models.UserRole]int64 `json:"users_by_role"`
	TotalUsers       int64                     `json:"total_users"`
	OpenJobs         int64                     `json:"open_jobs"`
	Applications     int64                     `json:"applications"`
	PublishedPosts   int64                     `json:"published_posts"`
	VerifiedProfiles int64                     `json:"verified_superintendents"`
	PremiumProfiles  int64                     `json:"premium_superintendents"`
	PortsInReference int64                     `json:"ports"`
	GeneratedAt      time.Time                 `json:"generated_at"`
}

// IAdminService is the interface for back office operations.
type IAdminService interface {
	ListSuperintendents(ctx context.Context, q AdminSuperintendentQuery) (*queryparams.PaginatedResult, error)
	SetVerified(ctx context.Context, actor Actor, id uint, verified bool) (*models.SuperintendentProfile, error)
	GrantPremium(ctx context.Context, actor Actor, id uint, months int) (*models.SuperintendentProfile, error)
	Stats(ctx context.Context) (*Stats, error)
}

// AdminService implements IAdminService.
type AdminService struct {
	users           repositories.IUserRepository
	superintendents repositories.ISuperintendentRepository
	jobs            repositories.IJobRepository
	applications    repositories.IApplicationRepository
	blog            repositories.IBlogRepository
	ports           repositories.IPortRepository
	tx              repositories.ITransactor
	notifications   INotificationService
	now             func() time.Time
}

// NewAdminService creates an AdminService.
func NewAdminService(
	users repositories.IUserRepository,
	superintendents repositories.ISuperintendentRepository,
	jobs repositories.IJobRepository,
	applications repositories.IApplicationRepository,
	blog repositories.IBlogRepository,
	ports repositories.IPortRepository,
	tx repositories.ITransactor,
	notifications INotificationService,
) IAdminService {
	return &AdminService{
		users:           users,
		superintendents: superintendents,
		jobs:            jobs,
		applications:    applications,
		blog:            blog,
		ports:           ports,
		tx:              tx,
		notifications:   notifications,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// ListSuperintendents is one filtered, paginated SELECT joined with users.
func (s *AdminService) ListSuperintendents(ctx context.Context, q AdminSuperintendentQuery) (*queryparams.PaginatedResult, error) {
	if q.Search != "" {
		q.ListParams.Search = q.Search
	}
	q.ListParams.Validate()
	now := s.now()
	filter := repositories.SuperintendentFilter{Verified: q.Verified, Premium: q.Premium, Now: now}
	profiles, total, err := s.superintendents.FindAllPaginated(ctx, filter, q.ListParams)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].RefreshPremium(now)
	}
	return queryparams.NewPaginatedResult(profiles, total, q.ListParams), nil
}

// SetVerified sets or clears the verification badge of a superintendent profile.
func (s *AdminService) SetVerified(ctx context.Context, actor Actor, id uint, verified bool) (*models.SuperintendentProfile, error) {
	ctx = actor.Context(ctx)
	profile, err := s.superintendents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSuperintendentNotFound
		}
		return nil, err
	}
	if profile.Verified == verified {
		return profile, nil
	}
	if err := s.superintendents.UpdateColumns(ctx, id, map[string]interface{}{"verified": verified}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdminUpdateFailed, err)
	}
	profile.Verified = verified

	if verified {
		err := s.notifications.Notify(ctx, &models.Notification{
			UserID: profile.UserID,
			Kind:   models.NotificationProfileVerified,
			Title:  "Your profile has been verified",
			Body:   "A verified badge is now shown on your public profile.",
		})
		if err != nil {
			configslog.Log.Warn("Verification notification failed", zap.Uint("profile_id", id), zap.Error(err))
		}
	}
	configslog.SLog.Infof("Superintendent %d verified=%t by admin %d", id, verified, actor.UserID)
	return profile, nil
}

// GrantPremium extends from the current expiry when still active, so unused
// premium time is never lost.
func (s *AdminService) GrantPremium(ctx context.Context, actor Actor, id uint, months int) (*models.SuperintendentProfile, error) {
	if months < premium.MinMonths || months > premium.MaxMonths {
		return nil, ErrInvalidPremiumMonths
	}
	ctx = actor.Context(ctx)
	now := s.now()

	var profile *models.SuperintendentProfile
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		profile, err = s.superintendents.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrSuperintendentNotFound
			}
			return err
		}
		since, until, err := premium.Extend(profile.PremiumSince, profile.PremiumUntil, now, months)
		if err != nil {
			return ErrInvalidPremiumMonths
		}
		if err := s.superintendents.UpdateColumns(ctx, id, map[string]interface{}{
			"premium_since": since,
			"premium_until": until,
		}); err != nil {
			return err
		}
		profile.PremiumSince, profile.PremiumUntil = &since, &until
		return nil
	})
	if err != nil {
		var adminErr AdminServiceError
		if errors.As(err, &adminErr) {
			return nil, err
		}
		configslog.Log.Error("Premium could not be granted", zap.Uint("profile_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAdminUpdateFailed, err)
	}
	profile.RefreshPremium(now)

	err = s.notifications.Notify(ctx, &models.Notification{
		UserID: profile.UserID,
		Kind:   models.NotificationPremiumGranted,
		Title:  "Premium membership active",
		Body:   fmt.Sprintf("Your premium badge is active until %s.", profile.PremiumUntil.Format("2 Jan 2006")),
	})
	if err != nil {
		configslog.Log.Warn("Premium notification failed", zap.Uint("profile_id", id), zap.Error(err))
	}
	configslog.SLog.Infof("Premium for superintendent %d extended by %d months until %s", id, months, profile.PremiumUntil.Format(time.RFC3339))
	return profile, nil
}

// Stats counts users, jobs, applications, posts and ports.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	stats := &Stats{GeneratedAt: now}
	var err error

	if stats.UsersByRole, err = s.users.CountByRole(ctx); err != nil {
		return nil, err
	}
	for _, n := range stats.UsersByRole {
		stats.TotalUsers += n
	}
	if stats.OpenJobs, err = s.jobs.CountByStatus(ctx, models.JobStatusOpen); err != nil {
		return nil, err
	}
	if stats.Applications, err = s.applications.Count(ctx, ""); err != nil {
		return nil, err
	}
	if stats.PublishedPosts, err = s.blog.CountByStatus(ctx, models.PostStatusPublished); err != nil {
		return nil, err
	}
	if stats.VerifiedProfiles, err = s.superintendents.CountVerified(ctx); err != nil {
		return nil, err
	}
	if stats.PremiumProfiles, err = s.superintendents.CountPremium(ctx, now); err != nil {
		return nil, err
	}
	if stats.PortsInReference, err = s.ports.CountAll(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

var _ IAdminService = (*AdminService)(nil)
