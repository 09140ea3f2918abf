package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marinehub.app/configs/configslog"
	"marinehub.app/models"
	"marinehub.app/pkg/kvstore"
	"marinehub.app/pkg/mailer"
	"marinehub.app/pkg/otp"
	"marinehub.app/pkg/tokens"
	"marinehub.app/pkg/validation"
	"marinehub.app/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceError is returned by AuthService.
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrInvalidCredentials AuthServiceError = "invalid email or password"
	ErrEmailTaken         AuthServiceError = "email is already registered"
	ErrEmailNotVerified   AuthServiceError = "email address is not verified"
	ErrAccountDisabled    AuthServiceError = "account is disabled"
	ErrInvalidOTP         AuthServiceError = "verification code is invalid or expired"
	ErrOTPCooldown        AuthServiceError = "please wait before requesting another code"
	ErrAlreadyVerified    AuthServiceError = "email is already verified"
	ErrWrongPassword      AuthServiceError = "current password is incorrect"
	ErrUnauthenticated    AuthServiceError = "authentication required"
	ErrTokenRevoked       AuthServiceError = "token has been revoked"
	ErrUserNotFound       AuthServiceError = "user not found"
	ErrAuthFailed         AuthServiceError = "authentication service failure"
)

const (
	otpPurposeVerify = "verify"
	otpPurposeReset  = "reset"
)

func otpKey(purpose, email string) string      { return "otp:" + purpose + ":" + email }
func cooldownKey(purpose, email string) string { return "otp:cooldown:" + purpose + ":" + email }
func attemptsKey(purpose, email string) string { return "otp:attempts:" + purpose + ":" + email }
func revokedKey(jti string) string             { return "auth:revoked:" + jti }

// MaxOTPAttempts wrong guesses burn the code; a new one must be requested.
const MaxOTPAttempts = 5

// RegisterInput is the sign-up body.
type RegisterInput struct {
	Email    string          `json:"email" validate:"required,email,max=255"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
	FullName string          `json:"full_name" validate:"required,max=150"`
	Role     models.UserRole `json:"role" validate:"required,oneof=manager superintendent"`
}

// LoginInput is the password login body.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyOTPInput confirms an email address with the code sent on sign-up.
type VerifyOTPInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// EmailInput carries a single address, for resend and forgot-password.
type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput sets a new password with a reset code.
type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// ChangePasswordInput is used by a signed in user.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// TokenResponse is the body returned by login and OTP verification.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

// MeResponse is the current user with the profile matching their role.
type MeResponse struct {
	User           *models.User                  `json:"user"`
	Superintendent *models.SuperintendentProfile `json:"superintendent_profile,omitempty"`
	Manager        *models.ManagerProfile        `json:"manager_profile,omitempty"`
}

// AuthConfig holds the OTP timings.
type AuthConfig struct {
	OTPTTL         time.Duration
	ResendCooldown time.Duration
	BcryptCost     int
}

// IAuthService is the interface for registration, login and token checks.
type IAuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	VerifyOTP(ctx context.Context, in VerifyOTPInput) (*TokenResponse, error)
	ResendOTP(ctx context.Context, in EmailInput) error
	Login(ctx context.Context, in LoginInput) (*TokenResponse, error)
	Logout(ctx context.Context, claims *tokens.Claims) error
	Authenticate(ctx context.Context, bearer string) (*tokens.Claims, error)
	Me(ctx context.Context, userID uint) (*MeResponse, error)
	ForgotPassword(ctx context.Context, in EmailInput) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
	ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error
}

// AuthService implements IAuthService on top of the user repository and the
// key/value store holding OTP codes.
type AuthService struct {
	users           repositories.IUserRepository
	superintendents repositories.ISuperintendentRepository
	managers        repositories.IManagerRepository
	tx              repositories.ITransactor
	store           kvstore.Store
	mail            mailer.Mailer
	tokens          *tokens.Manager
	cfg             AuthConfig
	now             func() time.Time
}

// NewAuthService creates an AuthService. Zero AuthConfig fields fall back to the
// defaults.
func NewAuthService(
	users repositories.IUserRepository,
	superintendents repositories.ISuperintendentRepository,
	managers repositories.IManagerRepository,
	tx repositories.ITransactor,
	store kvstore.Store,
	mail mailer.Mailer,
	tokenManager *tokens.Manager,
	cfg AuthConfig,
) IAuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.OTPTTL == 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	return &AuthService{
		users:           users,
		superintendents: superintendents,
		managers:        managers,
		tx:              tx,
		store:           store,
		mail:            mail,
		tokens:          tokenManager,
		cfg:             cfg,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and its empty role profile in one transaction,
// then mails a verification code. A mail failure does not undo the sign up;
// the user can ask for a new code.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		configslog.Log.Error("Password could not be hashed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         in.Role,
		IsActive:     true,
	}
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		switch user.Role {
		case models.RoleSuperintendent:
			return s.superintendents.Create(ctx, &models.SuperintendentProfile{UserID: user.ID, Currency: "USD", Available: true})
		case models.RoleManager:
			return s.managers.Create(ctx, &models.ManagerProfile{UserID: user.ID})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		configslog.Log.Error("User could not be registered", zap.String("email", in.Email), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	if err := s.issueOTP(ctx, otpPurposeVerify, user); err != nil && !errors.Is(err, ErrOTPCooldown) {
		configslog.Log.Warn("Verification code could not be sent after sign up", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	configslog.SLog.Infof("User registered: %s (%s)", user.Email, user.Role)
	return user, nil
}

// issueOTP stores a fresh code and mails it. The cooldown key guards resends.
func (s *AuthService) issueOTP(ctx context.Context, purpose string, user *models.User) error {
	if s.cfg.ResendCooldown > 0 {
		ok, err := s.store.SetNX(ctx, cooldownKey(purpose, user.Email), "1", s.cfg.ResendCooldown)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
		if !ok {
			return ErrOTPCooldown
		}
	}

	code, err := otp.Generate()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if err := s.store.Set(ctx, otpKey(purpose, user.Email), code, s.cfg.OTPTTL); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if err := s.store.Delete(ctx, attemptsKey(purpose, user.Email)); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	template, subject := mailer.TemplateVerifyEmail, "Verify your MarineHub email"
	if purpose == otpPurposeReset {
		template, subject = mailer.TemplateResetPassword, "Reset your MarineHub password"
	}
	return s.mail.Send(ctx, user.Email, subject, template, map[string]any{
		"Name":           user.FullName,
		"Code":           code,
		"ExpiresMinutes": int(s.cfg.OTPTTL.Minutes()),
	})
}

// consumeOTP checks the code and deletes it on success so it works once.
// Failed guesses are counted per code; after MaxOTPAttempts the code is burned.
func (s *AuthService) consumeOTP(ctx context.Context, purpose, email, code string) error {
	expected, err := s.store.Get(ctx, otpKey(purpose, email))
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if !otp.Equal(expected, code) {
		attempts, err := s.store.Incr(ctx, attemptsKey(purpose, email), s.cfg.OTPTTL)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
		if attempts >= MaxOTPAttempts {
			if err := s.store.Delete(ctx, otpKey(purpose, email)); err != nil {
				return fmt.Errorf("%w: %v", ErrAuthFailed, err)
			}
			configslog.Log.Warn("Code burned after too many wrong attempts",
				zap.String("purpose", purpose), zap.String("email", email), zap.Int64("attempts", attempts))
		}
		return ErrInvalidOTP
	}
	if err := s.store.Delete(ctx, otpKey(purpose, email)); err != nil {
		configslog.Log.Warn("Used code could not be deleted", zap.String("email", email), zap.Error(err))
	}
	if err := s.store.Delete(ctx, attemptsKey(purpose, email)); err != nil {
		configslog.Log.Warn("Code attempt counter could not be deleted", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// VerifyOTP marks the email verified and signs the user in.
func (s *AuthService) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*TokenResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if user.IsVerified() {
		return nil, ErrAlreadyVerified
	}
	if err := s.consumeOTP(ctx, otpPurposeVerify, user.Email, in.Code); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.MarkEmailVerified(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	user.EmailVerifiedAt = &now
	configslog.SLog.Infof("Email verified: %s", user.Email)
	return s.issueToken(ctx, user)
}

// ResendOTP sends a fresh verification code. Unknown or verified addresses
// succeed silently.
func (s *AuthService) ResendOTP(ctx context.Context, in EmailInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if user.IsVerified() {
		return ErrAlreadyVerified
	}
	return s.issueOTP(ctx, otpPurposeVerify, user)
}

// Login checks the password and issues an access token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		configslog.Log.Info("Failed login attempt", zap.String("email", in.Email))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if !user.IsVerified() {
		return nil, ErrEmailNotVerified
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		configslog.Log.Warn("last_login_at could not be updated", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now
	return s.issueToken(ctx, user)
}

func (s *AuthService) issueToken(_ context.Context, user *models.User) (*TokenResponse, error) {
	signed, _, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	return &TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        user,
	}, nil
}

// Logout revokes the token id until the token would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *tokens.Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrUnauthenticated
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.store.Set(ctx, revokedKey(claims.ID), "1", ttl); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	return nil
}

// Authenticate validates a raw bearer token and rejects revoked ones. The
// owner is reloaded so a deactivated account loses access before the token
// expires.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*tokens.Claims, error) {
	if bearer == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.tokens.Parse(bearer)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	revoked, err := s.store.Exists(ctx, revokedKey(claims.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return claims, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*MeResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	out := &MeResponse{User: user}
	switch user.Role {
	case models.RoleSuperintendent:
		if profile, err := s.superintendents.FindByUserID(ctx, user.ID); err == nil {
			profile.User = nil
			out.Superintendent = profile
		}
	case models.RoleManager:
		if profile, err := s.managers.FindByUserID(ctx, user.ID); err == nil {
			profile.User = nil
			out.Manager = profile
		}
	}
	return out, nil
}

// ForgotPassword never reveals whether the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, in EmailInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			configslog.Log.Error("Password reset lookup failed", zap.Error(err))
		}
		return nil
	}
	if !user.IsActive {
		return nil
	}
	if err := s.issueOTP(ctx, otpPurposeReset, user); err != nil && !errors.Is(err, ErrOTPCooldown) {
		configslog.Log.Error("Password reset code could not be sent", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// ResetPassword also verifies the email: receiving the code proves ownership.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if err := s.consumeOTP(ctx, otpPurposeReset, user.Email, in.Code); err != nil {
		return err
	}
	if err := s.setPassword(ctx, user.ID, in.NewPassword); err != nil {
		return err
	}
	if !user.IsVerified() {
		if err := s.users.MarkEmailVerified(ctx, user.ID, s.now()); err != nil {
			configslog.Log.Warn("Email could not be marked verified after reset", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	}
	configslog.SLog.Infof("Password reset for user %d", user.ID)
	return nil
}

// ChangePassword requires the current password.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return ErrWrongPassword
	}
	return s.setPassword(models.ContextWithUserID(ctx, userID), userID, in.NewPassword)
}

func (s *AuthService) setPassword(ctx context.Context, userID uint, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	return nil
}

var _ IAuthService = (*AuthService)(nil)
