package repositories

import (
	"errors"
	"strings"
	"time"

	"nicolaspaye/gamification/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateAward signals that a one-time award for the same subject
// already exists. Callers treat it as a successful no-op so client retries
// stay safe.
var ErrDuplicateAward = errors.New("duplicate one-time award")

type XPEventRepository struct {
	DB *gorm.DB
}

// Insert appends one immutable ledger entry. A unique-index conflict on a
// one-time award is translated to ErrDuplicateAward.
func (r *XPEventRepository) Insert(event *models.XPEvent) error {
	err := r.DB.Create(event).Error
	if err != nil && isDuplicateKey(err) {
		return ErrDuplicateAward
	}
	return err
}

// FindAward returns the positive award for (user, action, subject), or nil
// when none was ever granted.
func (r *XPEventRepository) FindAward(userID uint, action models.ActionType, subjectID string) (*models.XPEvent, error) {
	var event models.XPEvent
	err := r.DB.
		Where("user_id = ? AND action_type = ? AND subject_id = ? AND amount > 0",
			userID, action, subjectID).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// FindOriginalAward locates the positive, not-yet-reversed award tied to a
// subject entity, for clawback.
func (r *XPEventRepository) FindOriginalAward(userID uint, subjectID, subjectKind string) (*models.XPEvent, error) {
	var event models.XPEvent
	err := r.DB.
		Where("user_id = ? AND subject_id = ? AND subject_kind = ? AND amount > 0 AND reversed = ? AND action_type <> ?",
			userID, subjectID, subjectKind, false, models.ActionClawback).
		Order("created_at ASC").
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// MarkReversed flags an original award as cancelled so a second clawback for
// the same subject becomes a no-op.
func (r *XPEventRepository) MarkReversed(eventID uint) error {
	return r.DB.Model(&models.XPEvent{}).
		Where("id = ?", eventID).
		Update("reversed", true).Error
}

// SumAwardedSince totals positive awards in a trailing window, for the
// session cooldown check. Bounded by the (user_id, created_at) index.
func (r *XPEventRepository) SumAwardedSince(userID uint, since time.Time) (int, error) {
	var total int64
	err := r.DB.Model(&models.XPEvent{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND created_at > ? AND amount > 0", userID, since).
		Scan(&total).Error
	return int(total), err
}

// Recent returns a user's latest ledger entries, newest first.
func (r *XPEventRepository) Recent(userID uint, limit int) ([]models.XPEvent, error) {
	events := []models.XPEvent{}
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// isDuplicateKey matches unique-constraint violations across the postgres and
// sqlite drivers; the string fallback covers drivers opened without
// TranslateError.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
