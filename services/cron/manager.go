package cron

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/revisionpro/api/model"
	"github.com/revisionpro/api/services"
	"github.com/revisionpro/api/utils/cache"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	db        *gorm.DB
	analytics *services.AnalyticsService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, redisCache *cache.RedisCache) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:      c,
		db:        db,
		analytics: services.NewAnalyticsService(db, redisCache),
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	// Register all jobs
	if err := m.registerJobs(); err != nil {
		return err
	}

	// Start the cron scheduler
	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Every 15 minutes: warm the dashboard cache
	_, err := m.cron.AddFunc("0 */15 * * * *", func() {
		runID := m.logJobStart("warm_dashboard_cache")
		m.WarmDashboardCache(runID)
	})
	if err != nil {
		return err
	}

	// 2. Every hour: snapshot study statistics into the job log
	_, err = m.cron.AddFunc("0 0 * * * *", func() {
		runID := m.logJobStart("snapshot_study_stats")
		m.SnapshotStudyStats(runID)
	})
	if err != nil {
		return err
	}

	// 3. Daily at 2 AM: cleanup old cron job logs
	_, err = m.cron.AddFunc("0 0 2 * * *", func() {
		runID := m.logJobStart("cleanup_cron_logs")
		m.CleanupCronLogs(runID)
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job and returns the run id
func (m *CronManager) logJobStart(jobName string) string {
	runID := uuid.New().String()
	log.Printf("[CRON] Starting job: %s (run %s) at %s", jobName, runID, time.Now().Format(time.RFC3339))

	// Log to database
	cronLog := model.CronJobLog{
		RunID:     runID,
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
	}
	m.db.Create(&cronLog)

	return runID
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(runID, message string) {
	now := time.Now()

	var cronLog model.CronJobLog
	if err := m.db.Where("run_id = ?", runID).First(&cronLog).Error; err != nil {
		log.Printf("[CRON] Failed to find job log for run %s: %v", runID, err)
		return
	}

	cronLog.Status = "completed"
	cronLog.CompletedAt = &now
	cronLog.Duration = int(now.Sub(cronLog.StartedAt).Milliseconds())
	cronLog.Message = message
	m.db.Save(&cronLog)

	log.Printf("[CRON] Completed job: %s (run %s): %s", cronLog.JobName, runID, message)
}

// logJobError logs a failed cron job
func (m *CronManager) logJobError(runID string, jobErr error) {
	now := time.Now()

	var cronLog model.CronJobLog
	if err := m.db.Where("run_id = ?", runID).First(&cronLog).Error; err != nil {
		log.Printf("[CRON] Failed to find job log for run %s: %v", runID, err)
		return
	}

	cronLog.Status = "failed"
	cronLog.CompletedAt = &now
	cronLog.Duration = int(now.Sub(cronLog.StartedAt).Milliseconds())
	cronLog.ErrorMsg = jobErr.Error()
	m.db.Save(&cronLog)

	log.Printf("[CRON] Failed job: %s (run %s): %v", cronLog.JobName, runID, jobErr)
}
