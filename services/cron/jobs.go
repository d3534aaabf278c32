package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/revisionpro/api/model"
)

// WarmDashboardCache recomputes the dashboard stats so the next UI load
// hits a fresh cache entry. Recomputing through the analytics service
// also repopulates redis when it is configured.
func (m *CronManager) WarmDashboardCache(runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stats, err := m.analytics.GetDashboardStats(ctx)
	if err != nil {
		m.logJobError(runID, fmt.Errorf("failed to compute dashboard stats: %w", err))
		return
	}

	m.logJobComplete(runID, fmt.Sprintf("Warmed dashboard cache (%d subtopics)", stats.TotalSubtopics))
}

// SnapshotStudyStats records an hourly summary of the study state in
// the job log, giving a cheap history of how the tracker evolves
func (m *CronManager) SnapshotStudyStats(runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stats, err := m.analytics.GetDashboardStats(ctx)
	if err != nil {
		m.logJobError(runID, fmt.Errorf("failed to compute dashboard stats: %w", err))
		return
	}

	summary := fmt.Sprintf(
		"subjects=%d topics=%d subtopics=%d overdue=%d mastered=%d struggled=%d not_started=%d",
		stats.TotalSubjects, stats.TotalTopics, stats.TotalSubtopics,
		stats.OverdueCount, stats.MasteredCount, stats.StruggledCount, stats.NotStartedCount,
	)
	m.logJobComplete(runID, summary)
}

// CleanupCronLogs deletes job log rows older than 30 days
func (m *CronManager) CleanupCronLogs(runID string) {
	cutoff := time.Now().AddDate(0, 0, -30)

	result := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(runID, fmt.Errorf("failed to delete old cron logs: %w", result.Error))
		return
	}

	m.logJobComplete(runID, fmt.Sprintf("Deleted %d old cron log entries", result.RowsAffected))
}
