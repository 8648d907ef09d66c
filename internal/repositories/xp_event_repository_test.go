package repositories

import (
	"errors"
	"testing"
	"time"

	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/testhelpers"
)

func newEventRepo(t *testing.T) *XPEventRepository {
	t.Helper()
	return &XPEventRepository{DB: testhelpers.SetupTestDB(t)}
}

func TestXPEventRepository_Insert(t *testing.T) {
	repo := newEventRepo(t)

	event := &models.XPEvent{
		UserID:     1,
		ActionType: models.ActionSubmissionPublished,
		Amount:     50,
		SubjectID:  "sub-1",
		OneTime:    true,
	}
	if err := repo.Insert(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.ID == 0 {
		t.Fatalf("expected event ID to be set")
	}

	t.Run("one-time conflict surfaces as duplicate", func(t *testing.T) {
		dup := &models.XPEvent{
			UserID:     1,
			ActionType: models.ActionSubmissionPublished,
			Amount:     50,
			SubjectID:  "sub-1",
			OneTime:    true,
		}
		if err := repo.Insert(dup); !errors.Is(err, ErrDuplicateAward) {
			t.Fatalf("expected ErrDuplicateAward, got %v", err)
		}
	})

	t.Run("repeatable actions may repeat", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			grant := &models.XPEvent{
				UserID:     1,
				ActionType: models.ActionAdminManual,
				Amount:     10,
				SubjectID:  "manual",
			}
			if err := repo.Insert(grant); err != nil {
				t.Fatalf("repeat %d rejected: %v", i, err)
			}
		}
	})

	t.Run("same subject for another user is fine", func(t *testing.T) {
		other := &models.XPEvent{
			UserID:     2,
			ActionType: models.ActionSubmissionPublished,
			Amount:     50,
			SubjectID:  "sub-1",
			OneTime:    true,
		}
		if err := repo.Insert(other); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestXPEventRepository_FindOriginalAward(t *testing.T) {
	repo := newEventRepo(t)

	original := &models.XPEvent{
		UserID:      1,
		ActionType:  models.ActionSubmissionPublished,
		Amount:      50,
		SubjectID:   "sub-1",
		SubjectKind: "submission",
		OneTime:     true,
	}
	if err := repo.Insert(original); err != nil {
		t.Fatalf("failed to seed award: %v", err)
	}

	t.Run("finds un-reversed award", func(t *testing.T) {
		got, err := repo.FindOriginalAward(1, "sub-1", "submission")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.ID != original.ID {
			t.Fatalf("expected the seeded award, got %+v", got)
		}
	})

	t.Run("none for other subject kind", func(t *testing.T) {
		got, err := repo.FindOriginalAward(1, "sub-1", "note")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("reversed awards are skipped", func(t *testing.T) {
		if err := repo.MarkReversed(original.ID); err != nil {
			t.Fatalf("failed to mark reversed: %v", err)
		}
		got, err := repo.FindOriginalAward(1, "sub-1", "submission")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil after reversal, got %+v", got)
		}
	})
}

func TestXPEventRepository_SumAwardedSince(t *testing.T) {
	repo := newEventRepo(t)
	now := time.Now()

	seed := []models.XPEvent{
		{UserID: 1, ActionType: models.ActionShare, Amount: 5, SubjectID: "s:1", CreatedAt: now.Add(-time.Hour)},
		{UserID: 1, ActionType: models.ActionCommunityNote, Amount: 15, SubjectID: "n:1", CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: 1, ActionType: models.ActionClawback, Amount: -15, SubjectID: "n:1", CreatedAt: now.Add(-time.Hour)},
		{UserID: 1, ActionType: models.ActionShare, Amount: 5, SubjectID: "s:2", CreatedAt: now.Add(-6 * time.Hour)},
		{UserID: 2, ActionType: models.ActionShare, Amount: 5, SubjectID: "s:3", CreatedAt: now.Add(-time.Hour)},
	}
	for i := range seed {
		if err := repo.Insert(&seed[i]); err != nil {
			t.Fatalf("failed to seed event %d: %v", i, err)
		}
	}

	sum, err := repo.SumAwardedSince(1, now.Add(-4*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Negative entries and events outside the window don't count.
	if sum != 20 {
		t.Fatalf("expected 20, got %d", sum)
	}
}

func TestXPEventRepository_Recent(t *testing.T) {
	repo := newEventRepo(t)
	now := time.Now()

	for i := 0; i < 5; i++ {
		event := &models.XPEvent{
			UserID:     1,
			ActionType: models.ActionAdminManual,
			Amount:     i + 1,
			CreatedAt:  now.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Insert(event); err != nil {
			t.Fatalf("failed to seed event %d: %v", i, err)
		}
	}

	recent, err := repo.Recent(1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 events, got %d", len(recent))
	}
	if recent[0].Amount != 5 {
		t.Fatalf("expected newest first, got amount %d", recent[0].Amount)
	}
}
