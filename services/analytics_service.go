package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"marinehub.app/models"
	"marinehub.app/pkg/validation"
	"marinehub.app/repositories"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// AnalyticsServiceError is returned by AnalyticsService.
type AnalyticsServiceError string

func (e AnalyticsServiceError) Error() string { return string(e) }

const (
	ErrPropertiesTooLarge AnalyticsServiceError = "properties must encode to at most 4KB of JSON"
	ErrEventFailed        AnalyticsServiceError = "event could not be recorded"
)

const (
	maxPropertiesBytes = 4 << 10
	DefaultSummaryDays = 7
	MaxSummaryDays     = 90
	summaryTopN        = 10
	maxUserAgentRunes  = 500
)

// EventInput is the beacon body sent by the frontend.
type EventInput struct {
	Name       string         `json:"name" validate:"required,max=100"`
	Path       string         `json:"path" validate:"max=500"`
	Referrer   string         `json:"referrer" validate:"max=500"`
	SessionID  string         `json:"session_id" validate:"max=64"`
	Properties map[string]any `json:"properties"`
}

// EventMeta is request data the browser does not send in the body.
type EventMeta struct {
	UserID    *uint
	UserAgent string
}

// IAnalyticsService records beacons and summarises them.
type IAnalyticsService interface {
	// Record stores a beacon and returns the session id it was filed under.
	Record(ctx context.Context, in EventInput, meta EventMeta) (string, error)
	Summary(ctx context.Context, days int) (*repositories.AnalyticsSummary, error)
}

// AnalyticsService implements IAnalyticsService.
type AnalyticsService struct {
	repo repositories.IAnalyticsRepository
	now  func() time.Time
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(repo repositories.IAnalyticsRepository) IAnalyticsService {
	return &AnalyticsService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Record stores one event and returns its session id, minting one when the
// client sent none.
func (s *AnalyticsService) Record(ctx context.Context, in EventInput, meta EventMeta) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SessionID = strings.TrimSpace(in.SessionID)
	if err := validation.Struct(in); err != nil {
		return "", err
	}
	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}

	properties := ""
	if len(in.Properties) > 0 {
		data, err := json.Marshal(in.Properties)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrEventFailed, err)
		}
		if len(data) > maxPropertiesBytes {
			return "", ErrPropertiesTooLarge
		}
		properties = string(data)
	}

	event := &models.AnalyticsEvent{
		Name:       in.Name,
		Path:       in.Path,
		Referrer:   in.Referrer,
		SessionID:  in.SessionID,
		UserID:     meta.UserID,
		UserAgent:  truncateRunes(meta.UserAgent, maxUserAgentRunes),
		Properties: properties,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEventFailed, err)
	}
	return in.SessionID, nil
}

// Summary clamps days into 1..90.
func (s *AnalyticsService) Summary(ctx context.Context, days int) (*repositories.AnalyticsSummary, error) {
	if days <= 0 {
		days = DefaultSummaryDays
	}
	if days > MaxSummaryDays {
		days = MaxSummaryDays
	}
	since := s.now().AddDate(0, 0, -days)
	return s.repo.Summary(ctx, since, summaryTopN)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var _ IAnalyticsService = (*AnalyticsService)(nil)
