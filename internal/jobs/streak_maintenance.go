package jobs

import (
	"errors"
	"time"

	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Users in repos mode may protect a lapsed streak at most this many times per
// calendar month.
const maxReposDaysPerMonth = 3

// MaintenanceResult reports what one run changed.
type MaintenanceResult struct {
	StreaksReset         int64 `json:"streaksReset"`
	ReposProtected       int64 `json:"reposProtected"`
	ReposCountersCleared int64 `json:"reposCountersCleared"`
}

// StreakMaintenanceJob resets or protects streaks once a day. Every step is a
// bulk conditional UPDATE, so a scheduler retry re-running the job the same
// day finds nothing left to change.
type StreakMaintenanceJob struct {
	db       *gorm.DB
	logger   *zap.Logger
	schedule string
	cron     *cron.Cron

	// now is swappable in tests.
	now func() time.Time
}

func NewStreakMaintenanceJob(db *gorm.DB, logger *zap.Logger, schedule string) *StreakMaintenanceJob {
	return &StreakMaintenanceJob{
		db:       db,
		logger:   logger,
		schedule: schedule,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start schedules the nightly run.
func (j *StreakMaintenanceJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.Run(); err != nil {
			j.logger.Error("streak maintenance failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("streak maintenance scheduled", zap.String("schedule", j.schedule))
	return nil
}

func (j *StreakMaintenanceJob) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// Run executes one maintenance pass. Steps are independent statements: a
// failure in one is logged and does not roll back the others.
func (j *StreakMaintenanceJob) Run() (MaintenanceResult, error) {
	today := utils.ParisDay(j.now())
	yesterday := today.AddDate(0, 0, -1)

	var result MaintenanceResult
	var errs []error

	// Monthly allowance reset on the first day of the month.
	if today.Day() == 1 {
		cleared := j.db.Model(&models.User{}).
			Where("repos_days_used_this_month > 0").
			Update("repos_days_used_this_month", 0)
		if cleared.Error != nil {
			errs = append(errs, cleared.Error)
			j.logger.Error("repos counter reset failed", zap.Error(cleared.Error))
		} else {
			result.ReposCountersCleared = cleared.RowsAffected
		}
	}

	// Repos-mode users with allowance left spend a repos day instead of
	// losing the streak. Advancing lastActiveDate to yesterday both preserves
	// continuity for the next award and makes a same-day rerun a no-op.
	protected := j.db.Model(&models.User{}).
		Where("daily_goal = 0 AND current_streak > 0 AND repos_days_used_this_month < ?", maxReposDaysPerMonth).
		Where("last_active_date IS NOT NULL AND last_active_date < ?", yesterday).
		Updates(map[string]any{
			"repos_days_used_this_month": gorm.Expr("repos_days_used_this_month + 1"),
			"last_active_date":           yesterday,
		})
	if protected.Error != nil {
		errs = append(errs, protected.Error)
		j.logger.Error("repos protection failed", zap.Error(protected.Error))
	} else {
		result.ReposProtected = protected.RowsAffected
	}

	// Everyone else with a lapsed streak and no freeze token loses it.
	// Freeze consumption happens inline in the award engine, never here.
	reset := j.db.Model(&models.User{}).
		Where("current_streak > 0 AND streak_freeze_count = 0").
		Where("last_active_date IS NOT NULL AND last_active_date < ?", yesterday).
		Where("daily_goal <> 0 OR repos_days_used_this_month >= ?", maxReposDaysPerMonth).
		Update("current_streak", 0)
	if reset.Error != nil {
		errs = append(errs, reset.Error)
		j.logger.Error("streak reset failed", zap.Error(reset.Error))
	} else {
		result.StreaksReset = reset.RowsAffected
	}

	j.logger.Info("streak maintenance run",
		zap.Int64("streaksReset", result.StreaksReset),
		zap.Int64("reposProtected", result.ReposProtected),
		zap.Int64("reposCountersCleared", result.ReposCountersCleared))
	return result, errors.Join(errs...)
}
