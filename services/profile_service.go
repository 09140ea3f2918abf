package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/queryparams"
	"marinehub.app/pkg/validation"
	"marinehub.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileServiceError is returned by ProfileService.
type ProfileServiceError string

func (e ProfileServiceError) Error() string { return string(e) }

const (
	ErrProfileNotFound     ProfileServiceError = "profile not found"
	ErrProfileUpdateFailed ProfileServiceError = "profile could not be updated"
	ErrAvatarTooLarge      ProfileServiceError = "avatar must be at most 2MB"
	ErrAvatarType          ProfileServiceError = "avatar must be a JPEG, PNG or WebP image"
	ErrAvatarUploadFailed  ProfileServiceError = "avatar could not be stored"
)

// MaxAvatarBytes caps avatar uploads.
const MaxAvatarBytes = 2 << 20

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// SuperintendentProfileInput updates a superintendent profile.
type SuperintendentProfileInput struct {
	FullName        string   `json:"full_name" validate:"omitempty,max=150"`
	Headline        string   `json:"headline" validate:"max=200"`
	Bio             string   `json:"bio" validate:"max=5000"`
	YearsExperience int      `json:"years_experience" validate:"min=0,max=70"`
	VesselTypes     []string `json:"vessel_types" validate:"max=20,dive,max=50"`
	Certifications  string   `json:"certifications" validate:"max=5000"`
	HomePortLocode  string   `json:"home_port_locode" validate:"locode"`
	DayRate         float64  `json:"day_rate" validate:"min=0"`
	Currency        string   `json:"currency" validate:"omitempty,len=3,alpha"`
	Available       *bool    `json:"available"`
}

// ManagerProfileInput updates a manager profile.
type ManagerProfileInput struct {
	FullName       string `json:"full_name" validate:"omitempty,max=150"`
	CompanyName    string `json:"company_name" validate:"required,max=200"`
	CompanyWebsite string `json:"company_website" validate:"omitempty,url,max=255"`
	Position       string `json:"position" validate:"max=100"`
	Phone          string `json:"phone" validate:"max=30"`
	CountryCode    string `json:"country_code" validate:"omitempty,len=2,alpha"`
}

// DirectoryQuery is the public superintendent search.
type DirectoryQuery struct {
	queryparams.ListParams
	VesselType string `query:"vessel_type"`
	Port       string `query:"port"`
	Available  *bool  `query:"-"` // Parsed by the handler
}

// IProfileService is the interface for profiles and the public directory.
type IProfileService interface {
	GetSuperintendentProfile(ctx context.Context, userID uint) (*models.SuperintendentProfile, error)
	UpdateSuperintendentProfile(ctx context.Context, userID uint, in SuperintendentProfileInput) (*models.SuperintendentProfile, error)
	GetManagerProfile(ctx context.Context, userID uint) (*models.ManagerProfile, error)
	UpdateManagerProfile(ctx context.Context, userID uint, in ManagerProfileInput) (*models.ManagerProfile, error)
	UpdateAvatar(ctx context.Context, userID uint, size int64, file io.Reader) (*models.User, error)
	ListSuperintendents(ctx context.Context, q DirectoryQuery) (*queryparams.PaginatedResult, error)
	GetPublicSuperintendent(ctx context.Context, id uint) (*models.SuperintendentProfile, error)
}

// ProfileService implements IProfileService.
type ProfileService struct {
	users           repositories.IUserRepository
	superintendents repositories.ISuperintendentRepository
	managers        repositories.IManagerRepository
	uploadDir       string
	baseURL         string
}

// NewProfileService stores avatars under uploadDir and serves them from
// baseURL + "/uploads/".
func NewProfileService(
	users repositories.IUserRepository,
	superintendents repositories.ISuperintendentRepository,
	managers repositories.IManagerRepository,
	uploadDir, baseURL string,
) IProfileService {
	return &ProfileService{
		users:           users,
		superintendents: superintendents,
		managers:        managers,
		uploadDir:       uploadDir,
		baseURL:         strings.TrimRight(baseURL, "/"),
	}
}

func (s *ProfileService) GetSuperintendentProfile(ctx context.Context, userID uint) (*models.SuperintendentProfile, error) {
	profile, err := s.superintendents.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateSuperintendentProfile replaces the editable fields of the caller's profile.
func (s *ProfileService) UpdateSuperintendentProfile(ctx context.Context, userID uint, in SuperintendentProfileInput) (*models.SuperintendentProfile, error) {
	in.HomePortLocode = strings.ToUpper(strings.TrimSpace(in.HomePortLocode))
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	profile, err := s.GetSuperintendentProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx = models.ContextWithUserID(ctx, userID)
	profile.Headline = strings.TrimSpace(in.Headline)
	profile.Bio = strings.TrimSpace(in.Bio)
	profile.YearsExperience = in.YearsExperience
	profile.VesselTypes = joinList(in.VesselTypes)
	profile.Certifications = strings.TrimSpace(in.Certifications)
	profile.HomePortLocode = in.HomePortLocode
	profile.DayRate = in.DayRate
	if in.Currency != "" {
		profile.Currency = in.Currency
	}
	if in.Available != nil {
		profile.Available = *in.Available
	}
	if err := s.superintendents.Save(ctx, profile); err != nil {
		configslog.Log.Error("Superintendent profile could not be saved", zap.Uint("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProfileUpdateFailed, err)
	}
	if err := s.renameUser(ctx, profile.User, userID, in.FullName); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetManagerProfile(ctx context.Context, userID uint) (*models.ManagerProfile, error) {
	profile, err := s.managers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) UpdateManagerProfile(ctx context.Context, userID uint, in ManagerProfileInput) (*models.ManagerProfile, error) {
	in.CountryCode = strings.ToUpper(strings.TrimSpace(in.CountryCode))
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	profile, err := s.GetManagerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx = models.ContextWithUserID(ctx, userID)
	profile.CompanyName = in.CompanyName
	profile.CompanyWebsite = strings.TrimSpace(in.CompanyWebsite)
	profile.Position = strings.TrimSpace(in.Position)
	profile.Phone = strings.TrimSpace(in.Phone)
	profile.CountryCode = in.CountryCode
	if err := s.managers.Save(ctx, profile); err != nil {
		configslog.Log.Error("Manager profile could not be saved", zap.Uint("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProfileUpdateFailed, err)
	}
	if err := s.renameUser(ctx, profile.User, userID, in.FullName); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) renameUser(ctx context.Context, user *models.User, userID uint, fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" || (user != nil && user.FullName == fullName) {
		return nil
	}
	if err := s.users.UpdateColumns(ctx, userID, map[string]interface{}{"full_name": fullName}); err != nil {
		return fmt.Errorf("%w: %v", ErrProfileUpdateFailed, err)
	}
	if user != nil {
		user.FullName = fullName
	}
	return nil
}

// UpdateAvatar sniffs the content type from the bytes, not the client header.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID uint, size int64, file io.Reader) (*models.User, error) {
	if size > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvatarUploadFailed, err)
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}
	ext, ok := avatarExtensions[sniffImageType(data)]
	if !ok {
		return nil, ErrAvatarType
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	dir := filepath.Join(s.uploadDir, "avatars")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvatarUploadFailed, err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		configslog.Log.Error("Avatar could not be written", zap.String("dir", dir), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAvatarUploadFailed, err)
	}

	previous := user.AvatarURL
	user.AvatarURL = s.baseURL + "/uploads/avatars/" + name
	if err := s.users.UpdateColumns(models.ContextWithUserID(ctx, userID), userID, map[string]interface{}{"avatar_url": user.AvatarURL}); err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return nil, fmt.Errorf("%w: %v", ErrAvatarUploadFailed, err)
	}
	s.removeOldAvatar(previous)
	return user, nil
}

func (s *ProfileService) removeOldAvatar(url string) {
	prefix := s.baseURL + "/uploads/avatars/"
	if !strings.HasPrefix(url, prefix) {
		return
	}
	name := filepath.Base(strings.TrimPrefix(url, prefix))
	if err := os.Remove(filepath.Join(s.uploadDir, "avatars", name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		configslog.Log.Warn("Old avatar could not be removed", zap.String("file", name), zap.Error(err))
	}
}

// sniffImageType adds WebP, which http.DetectContentType only reports for
// the full RIFF/WEBPVP8 header.
func sniffImageType(data []byte) string {
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	return http.DetectContentType(data)
}

// ListSuperintendents is the public directory. Premium profiles come first.
func (s *ProfileService) ListSuperintendents(ctx context.Context, q DirectoryQuery) (*queryparams.PaginatedResult, error) {
	q.ListParams.Validate()
	filter := repositories.SuperintendentFilter{
		VesselType: strings.TrimSpace(q.VesselType),
		Port:       strings.TrimSpace(q.Port),
		Available:  q.Available,
		ActiveOnly: true,
	}
	profiles, total, err := s.superintendents.FindAllPaginated(ctx, filter, q.ListParams)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		hidePrivateUserFields(profiles[i].User)
	}
	return queryparams.NewPaginatedResult(profiles, total, q.ListParams), nil
}

// GetPublicSuperintendent hides profiles of inactive or unverified users.
func (s *ProfileService) GetPublicSuperintendent(ctx context.Context, id uint) (*models.SuperintendentProfile, error) {
	profile, err := s.superintendents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	if profile.User == nil || !profile.User.IsActive || !profile.User.IsVerified() {
		return nil, ErrProfileNotFound
	}
	hidePrivateUserFields(profile.User)
	return profile, nil
}

// hidePrivateUserFields blanks account data not meant for public listings.
func hidePrivateUserFields(u *models.User) {
	if u == nil {
		return
	}
	u.Email = ""
	u.LastLoginAt = nil
}

func joinList(items []string) string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return strings.Join(out, ",")
}

var _ IProfileService = (*ProfileService)(nil)
