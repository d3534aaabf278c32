package services

import (
	"context"
	"fmt"
	"time"

	"github.com/revisionpro/api/model"
	"github.com/revisionpro/api/utils/cache"
	"gorm.io/gorm"
)

// dashboardCacheTTL bounds how stale a cached dashboard can get even if
// an invalidation is missed
const dashboardCacheTTL = 60 * time.Second

// AnalyticsService rolls the hierarchy and the derived performance
// state into dashboard counters
type AnalyticsService struct {
	db    *gorm.DB
	cache *cache.RedisCache
	now   func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *gorm.DB, redisCache *cache.RedisCache) *AnalyticsService {
	return &AnalyticsService{
		db:    db,
		cache: redisCache,
		now:   time.Now,
	}
}

// DashboardStats represents overall study statistics. The three status
// counts always sum to TotalSubtopics.
type DashboardStats struct {
	TotalSubjects   int64 `json:"total_subjects"`
	TotalTopics     int64 `json:"total_topics"`
	TotalSubtopics  int64 `json:"total_subtopics"`
	OverdueCount    int64 `json:"overdue_count"`
	MasteredCount   int64 `json:"mastered_count"`
	StruggledCount  int64 `json:"struggled_count"`
	NotStartedCount int64 `json:"not_started_count"`
}

// GetDashboardStats computes the dashboard counters. Results are served
// from redis when available; every mutation drops the cached entry, and
// a short TTL bounds staleness besides.
func (s *AnalyticsService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		if err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats := &DashboardStats{}

	// Total subjects
	if err := s.db.WithContext(ctx).Model(&model.Subject{}).Count(&stats.TotalSubjects).Error; err != nil {
		return nil, fmt.Errorf("failed to count subjects: %w", err)
	}

	// Total topics
	if err := s.db.WithContext(ctx).Model(&model.Topic{}).Count(&stats.TotalTopics).Error; err != nil {
		return nil, fmt.Errorf("failed to count topics: %w", err)
	}

	// Status and overdue counts need the ledger, so derive them in one
	// pass over the subtopics instead of per-status count queries
	var subtopics []model.Subtopic
	err := s.db.WithContext(ctx).
		Preload("Revisions", func(db *gorm.DB) *gorm.DB {
			return db.Order("revised_at ASC, id ASC")
		}).
		Find(&subtopics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subtopics: %w", err)
	}

	now := s.now().UTC()
	stats.TotalSubtopics = int64(len(subtopics))

	for _, st := range subtopics {
		status := model.DerivePerformanceStatus(st.Revisions)
		switch status {
		case model.StatusMastered:
			stats.MasteredCount++
		case model.StatusStruggled:
			stats.StruggledCount++
		default:
			stats.NotStartedCount++
		}

		if IsOverdue(now, st, status) {
			stats.OverdueCount++
		}
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, dashboardCacheKey, stats, dashboardCacheTTL)
	}
	return stats, nil
}
