package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/repositories"
	"nicolaspaye/gamification/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrValidation marks malformed or out-of-range input, rejected before any
// write. Surface it to callers verbatim.
var ErrValidation = errors.New("validation error")

const (
	// Informational session cooldown: awards past this sum inside the window
	// still land, but the result flags the client to show a pacing notice.
	sessionWindow = 4 * time.Hour
	sessionXPCap  = 500
)

// Engine applies XP awards and clawbacks against the ledger and the
// denormalized user aggregates. It does not authenticate; callers are
// expected to have resolved and authorized the user already.
type Engine struct {
	db      *gorm.DB
	logger  *zap.Logger
	actions map[models.ActionType]ActionConfig

	// now is swappable for streak and cooldown tests.
	now func() time.Time
}

func NewEngine(db *gorm.DB, logger *zap.Logger) *Engine {
	return &Engine{
		db:      db,
		logger:  logger,
		actions: DefaultActionTable(),
		now:     time.Now,
	}
}

// AwardRequest identifies one XP-affecting action.
type AwardRequest struct {
	UserID      uint
	Action      models.ActionType
	SubjectID   string
	SubjectKind string

	// Amount is only honored for admin manual grants.
	Amount int
	Reason string
	// ActorID records the admin who issued a manual grant.
	ActorID string
}

// XPResult is relayed to the client for toasts and level-up banners.
type XPResult struct {
	Amount          int      `json:"amount"`
	NewTotal        int      `json:"newTotal"`
	LeveledUp       bool     `json:"leveledUp"`
	NewLevel        int      `json:"newLevel,omitempty"`
	NewLevelTitle   string   `json:"newLevelTitle,omitempty"`
	Streak          int      `json:"streak"`
	SessionCooldown bool     `json:"sessionCooldown"`
	NewBadges       []string `json:"newBadges,omitempty"`
}

// AwardXP computes and persists the XP delta for one action: duplicate guard,
// cooldown flag, streak update with inline freeze consumption, ledger insert
// and aggregate update in a single transaction, then level-up detection.
//
// A duplicate one-time award is a successful no-op returning the current
// state with Amount 0, so retried client requests never double-credit.
func (e *Engine) AwardXP(ctx context.Context, req AwardRequest) (*XPResult, error) {
	cfg, ok := e.actions[req.Action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action type %q", ErrValidation, req.Action)
	}

	amount := cfg.BaseXP
	if req.Action == models.ActionAdminManual {
		if req.Amount < adminAmountMin || req.Amount > adminAmountMax {
			return nil, fmt.Errorf("%w: admin amount %d outside [%d, %d]",
				ErrValidation, req.Amount, adminAmountMin, adminAmountMax)
		}
		amount = req.Amount
	}

	var result *XPResult
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := &repositories.UserRepository{DB: tx}
		events := &repositories.XPEventRepository{DB: tx}

		user, err := users.GetByID(req.UserID)
		if err != nil {
			return err
		}

		if cfg.OneTime {
			existing, err := events.FindAward(req.UserID, req.Action, req.SubjectID)
			if err != nil {
				return err
			}
			if existing != nil {
				result = e.noopResult(user)
				return nil
			}
		}

		cooldown := false
		if amount > 0 {
			windowSum, err := events.SumAwardedSince(req.UserID, e.now().Add(-sessionWindow))
			if err != nil {
				return err
			}
			// Flag only on the award that crosses the cap, so the client
			// shows the notice once per rolling window.
			cooldown = windowSum <= sessionXPCap && windowSum+amount > sessionXPCap
		}

		today := utils.ParisDay(e.now())
		streak, longest, freezes := e.advanceStreak(user, today)

		event := &models.XPEvent{
			UserID:      req.UserID,
			ActionType:  req.Action,
			Amount:      amount,
			SubjectID:   req.SubjectID,
			SubjectKind: req.SubjectKind,
			OneTime:     cfg.OneTime,
			Reason:      req.Reason,
			ActorID:     req.ActorID,
		}
		if err := events.Insert(event); err != nil {
			if errors.Is(err, repositories.ErrDuplicateAward) {
				// Lost the race to a concurrent duplicate; same no-op.
				result = e.noopResult(user)
				return nil
			}
			return err
		}

		if err := users.ApplyAward(req.UserID, amount, map[string]any{
			"current_streak":      streak,
			"longest_streak":      longest,
			"streak_freeze_count": freezes,
			"last_active_date":    today,
		}); err != nil {
			return err
		}

		updated, err := users.GetByID(req.UserID)
		if err != nil {
			return err
		}

		before := LevelFromXP(user.TotalXP)
		after := LevelFromXP(updated.TotalXP)

		result = &XPResult{
			Amount:          amount,
			NewTotal:        updated.TotalXP,
			Streak:          streak,
			SessionCooldown: cooldown,
		}
		if after.Level > before.Level {
			result.LeveledUp = true
			result.NewLevel = after.Level
			result.NewLevelTitle = after.Title
		}

		result.NewBadges, err = awardBadges(tx, updated)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("xp awarded",
		zap.Uint("userId", req.UserID),
		zap.String("action", string(req.Action)),
		zap.Int("amount", result.Amount),
		zap.Bool("leveledUp", result.LeveledUp))
	return result, nil
}

// ClawbackXP reverses a previously granted award when its subject is later
// invalidated, e.g. a submission rejected by moderation. Best-effort and
// idempotent: without a matching un-reversed award it is a no-op, and the
// user's total never drops below zero.
func (e *Engine) ClawbackXP(ctx context.Context, userID uint, subjectID, subjectKind string) error {
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := &repositories.UserRepository{DB: tx}
		events := &repositories.XPEventRepository{DB: tx}

		original, err := events.FindOriginalAward(userID, subjectID, subjectKind)
		if err != nil {
			return err
		}
		if original == nil {
			return nil
		}

		reversal := &models.XPEvent{
			UserID:          userID,
			ActionType:      models.ActionClawback,
			Amount:          -original.Amount,
			SubjectID:       subjectID,
			SubjectKind:     subjectKind,
			ReversesEventID: &original.ID,
			Reason:          fmt.Sprintf("reversal of %s", original.ActionType),
		}
		if err := events.Insert(reversal); err != nil {
			return err
		}
		if err := events.MarkReversed(original.ID); err != nil {
			return err
		}
		return users.ApplyXPDelta(userID, -original.Amount)
	})
	if err != nil {
		return err
	}

	e.logger.Info("xp clawed back",
		zap.Uint("userId", userID),
		zap.String("subjectId", subjectID),
		zap.String("subjectKind", subjectKind))
	return nil
}

func (e *Engine) noopResult(user *models.User) *XPResult {
	return &XPResult{
		Amount:   0,
		NewTotal: user.TotalXP,
		Streak:   user.CurrentStreak,
	}
}

// advanceStreak derives the post-award streak state from the user's last
// active Paris date. Freeze tokens are consumed here and only here; the
// nightly maintenance job reads the count but never decrements it.
func (e *Engine) advanceStreak(user *models.User, today time.Time) (streak, longest, freezes int) {
	streak = user.CurrentStreak
	longest = user.LongestStreak
	freezes = user.StreakFreezeCount

	switch {
	case user.LastActiveDate == nil:
		streak = 1
	default:
		switch gap := utils.DaysBetween(*user.LastActiveDate, today); {
		case gap <= 0:
			// Already active today.
		case gap == 1:
			streak++
		case freezes > 0:
			// Gap forgiven, not counted as progress.
			freezes--
		default:
			streak = 1
		}
	}

	if streak > longest {
		longest = streak
	}
	return streak, longest, freezes
}
