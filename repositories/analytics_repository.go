package repositories

import (
	"context"
	"time"

	"marinehub.app/models"

	"gorm.io/gorm"
)

// NameCount is one row of a top-N breakdown.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DayCount is the number of events on one UTC day (YYYY-MM-DD).
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// AnalyticsSummary aggregates beacons since a point in time.
type AnalyticsSummary struct {
	Since          time.Time   `json:"since"`
	TotalEvents    int64       `json:"total_events"`
	UniqueSessions int64       `json:"unique_sessions"`
	ByName         []NameCount `json:"by_name"`
	TopPaths       []NameCount `json:"top_paths"`
	ByDay          []DayCount  `json:"by_day"`
}

// IAnalyticsRepository stores beacons and aggregates them.
type IAnalyticsRepository interface {
	Create(ctx context.Context, event *models.AnalyticsEvent) error
	Summary(ctx context.Context, since time.Time, topN int) (*AnalyticsSummary, error)
}

// AnalyticsRepository implements IAnalyticsRepository with GORM.
type AnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates an AnalyticsRepository.
func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Create(ctx context.Context, event *models.AnalyticsEvent) error {
	return translateError(dbFromContext(ctx, r.db).Create(event).Error)
}

// Summary counts events since the given time, grouped by name, path and day.
func (r *AnalyticsRepository) Summary(ctx context.Context, since time.Time, topN int) (*AnalyticsSummary, error) {
	db := dbFromContext(ctx, r.db)
	base := func() *gorm.DB {
		return db.Model(&models.AnalyticsEvent{}).Where("created_at >= ?", since)
	}
	summary := &AnalyticsSummary{Since: since, ByName: []NameCount{}, TopPaths: []NameCount{}, ByDay: []DayCount{}}

	if err := base().Count(&summary.TotalEvents).Error; err != nil {
		return nil, translateError(err)
	}
	if err := base().Where("session_id <> ''").Distinct("session_id").Count(&summary.UniqueSessions).Error; err != nil {
		return nil, translateError(err)
	}
	if err := base().Select("name, COUNT(*) AS count").Group("name").Order("count desc").Limit(topN).Scan(&summary.ByName).Error; err != nil {
		return nil, translateError(err)
	}
	if err := base().Select("path AS name, COUNT(*) AS count").Where("path <> ''").Group("path").Order("count desc").Limit(topN).Scan(&summary.TopPaths).Error; err != nil {
		return nil, translateError(err)
	}
	err := base().Select("TO_CHAR(DATE_TRUNC('day', created_at), 'YYYY-MM-DD') AS day, COUNT(*) AS count").
		Group("day").Order("day asc").Scan(&summary.ByDay).Error
	if err != nil {
		return nil, translateError(err)
	}
	return summary, nil
}

var _ IAnalyticsRepository = (*AnalyticsRepository)(nil)
