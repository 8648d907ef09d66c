package jobs

import (
	"testing"
	"time"

	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/testhelpers"
	"nicolaspaye/gamification/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestJob(t *testing.T, now time.Time) (*StreakMaintenanceJob, *gorm.DB) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	job := NewStreakMaintenanceJob(db, zap.NewNop(), "10 0 * * *")
	job.now = func() time.Time { return now }
	return job, db
}

func seedUser(t *testing.T, db *gorm.DB, anonymousID string, user models.User) *models.User {
	t.Helper()
	user.AnonymousID = anonymousID
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", anonymousID, err)
	}
	return &user
}

func datePtr(t time.Time) *time.Time { return &t }

func reload(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", id, err)
	}
	return &user
}

func TestRun_ResetsLapsedStreaks(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 30, 0, 0, time.UTC)
	today := utils.ParisDay(now)
	job, db := newTestJob(t, now)

	lapsed := seedUser(t, db, "lapsed", models.User{
		CurrentStreak: 5, DailyGoal: 20,
		LastActiveDate: datePtr(today.AddDate(0, 0, -3)),
	})
	activeYesterday := seedUser(t, db, "active-yesterday", models.User{
		CurrentStreak: 5, DailyGoal: 20,
		LastActiveDate: datePtr(today.AddDate(0, 0, -1)),
	})
	frozen := seedUser(t, db, "frozen", models.User{
		CurrentStreak: 5, DailyGoal: 20, StreakFreezeCount: 1,
		LastActiveDate: datePtr(today.AddDate(0, 0, -3)),
	})

	result, err := job.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StreaksReset != 1 {
		t.Fatalf("expected 1 reset, got %d", result.StreaksReset)
	}

	if got := reload(t, db, lapsed.ID); got.CurrentStreak != 0 {
		t.Fatalf("lapsed streak not reset: %d", got.CurrentStreak)
	}
	if got := reload(t, db, activeYesterday.ID); got.CurrentStreak != 5 {
		t.Fatalf("yesterday-active streak must survive: %d", got.CurrentStreak)
	}
	// Freeze holders are skipped here; their token is consumed inline on the
	// next award, never by the batch.
	got := reload(t, db, frozen.ID)
	if got.CurrentStreak != 5 || got.StreakFreezeCount != 1 {
		t.Fatalf("freeze holder must be left alone: %+v", got)
	}
}

func TestRun_ReposProtection(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 30, 0, 0, time.UTC)
	today := utils.ParisDay(now)
	job, db := newTestJob(t, now)

	resting := seedUser(t, db, "resting", models.User{
		CurrentStreak: 10, DailyGoal: 0, ReposDaysUsedThisMonth: 1,
		LastActiveDate: datePtr(today.AddDate(0, 0, -2)),
	})
	exhausted := seedUser(t, db, "exhausted", models.User{
		CurrentStreak: 10, DailyGoal: 0, ReposDaysUsedThisMonth: 3,
		LastActiveDate: datePtr(today.AddDate(0, 0, -2)),
	})

	result, err := job.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.ReposProtected != 1 {
		t.Fatalf("expected 1 protection, got %d", result.ReposProtected)
	}
	if result.StreaksReset != 1 {
		t.Fatalf("expected 1 reset, got %d", result.StreaksReset)
	}

	got := reload(t, db, resting.ID)
	if got.CurrentStreak != 10 {
		t.Fatalf("protected streak was reset: %d", got.CurrentStreak)
	}
	if got.ReposDaysUsedThisMonth != 2 {
		t.Fatalf("expected repos counter at 2, got %d", got.ReposDaysUsedThisMonth)
	}

	if got := reload(t, db, exhausted.ID); got.CurrentStreak != 0 {
		t.Fatalf("exhausted allowance must not protect: %d", got.CurrentStreak)
	}
}

func TestRun_IdempotentSameDay(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 30, 0, 0, time.UTC)
	today := utils.ParisDay(now)
	job, db := newTestJob(t, now)

	resting := seedUser(t, db, "resting", models.User{
		CurrentStreak: 10, DailyGoal: 0, ReposDaysUsedThisMonth: 0,
		LastActiveDate: datePtr(today.AddDate(0, 0, -2)),
	})
	lapsed := seedUser(t, db, "lapsed", models.User{
		CurrentStreak: 5, DailyGoal: 20,
		LastActiveDate: datePtr(today.AddDate(0, 0, -3)),
	})

	if _, err := job.Run(); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := job.Run()
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if second.ReposProtected != 0 || second.StreaksReset != 0 {
		t.Fatalf("scheduler retry double-penalized: %+v", second)
	}
	if got := reload(t, db, resting.ID); got.ReposDaysUsedThisMonth != 1 {
		t.Fatalf("repos counter incremented twice: %d", got.ReposDaysUsedThisMonth)
	}
	if got := reload(t, db, lapsed.ID); got.CurrentStreak != 0 {
		t.Fatalf("lapsed streak not reset: %d", got.CurrentStreak)
	}
}

func TestRun_MonthlyReposReset(t *testing.T) {
	now := time.Date(2026, 7, 1, 0, 30, 0, 0, time.UTC)
	job, db := newTestJob(t, now)

	spent := seedUser(t, db, "spent", models.User{
		DailyGoal: 0, ReposDaysUsedThisMonth: 3,
	})

	result, err := job.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.ReposCountersCleared != 1 {
		t.Fatalf("expected 1 counter cleared, got %d", result.ReposCountersCleared)
	}
	if got := reload(t, db, spent.ID); got.ReposDaysUsedThisMonth != 0 {
		t.Fatalf("repos counter not cleared: %d", got.ReposDaysUsedThisMonth)
	}
}

func TestStartStop(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	job := NewStreakMaintenanceJob(db, zap.NewNop(), "10 0 * * *")
	if err := job.Start(); err != nil {
		t.Fatalf("failed to start job: %v", err)
	}
	job.Stop()
}

func TestStart_BadSchedule(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	job := NewStreakMaintenanceJob(db, zap.NewNop(), "not a schedule")
	if err := job.Start(); err == nil {
		t.Fatalf("expected error for invalid cron expression")
	}
}
