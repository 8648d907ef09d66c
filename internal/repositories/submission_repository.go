package repositories

import (
	"errors"

	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/ranking"
	"nicolaspaye/gamification/internal/validation"

	"gorm.io/gorm"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository struct {
	DB *gorm.DB
}

func (r *SubmissionRepository) Create(submission *models.Submission) error {
	if err := r.DB.Create(submission).Error; err != nil {
		return err
	}
	// Seed the denormalized score at creation time.
	return r.refreshHotScore(submission.ID)
}

func (r *SubmissionRepository) GetByID(id uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.DB.First(&submission, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) refreshHotScore(id uint) error {
	var submission models.Submission
	if err := r.DB.First(&submission, "id = ?", id).Error; err != nil {
		return err
	}
	score := ranking.HotScore(submission.UpvoteCount, submission.DownvoteCount, submission.CreatedAt)
	return r.DB.Model(&models.Submission{}).Where("id = ?", id).Update("hot_score", score).Error
}

// ApplyVote adjusts vote counters atomically and refreshes the denormalized
// hot score, all within one transaction. Deltas may be negative for
// retractions; counters are floored at zero.
func (r *SubmissionRepository) ApplyVote(id uint, upDelta, downDelta int) (*models.Submission, error) {
	var submission models.Submission

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Submission{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"upvote_count": gorm.Expr(
					"CASE WHEN upvote_count + ? < 0 THEN 0 ELSE upvote_count + ? END", upDelta, upDelta),
				"downvote_count": gorm.Expr(
					"CASE WHEN downvote_count + ? < 0 THEN 0 ELSE downvote_count + ? END", downDelta, downDelta),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSubmissionNotFound
		}

		if err := tx.First(&submission, "id = ?", id).Error; err != nil {
			return err
		}

		submission.HotScore = ranking.HotScore(
			submission.UpvoteCount, submission.DownvoteCount, submission.CreatedAt)
		return tx.Model(&models.Submission{}).
			Where("id = ?", id).
			Update("hot_score", submission.HotScore).Error
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ApplyValidationVote accumulates a validator's weight on a pending
// submission and auto-resolves it once a threshold condition holds. The
// weight update is guarded by the pending status so a vote landing after
// resolution is a no-op, and the status transition itself is conditional, so
// two concurrent validators cannot both trigger it.
func (r *SubmissionRepository) ApplyValidationVote(id uint, approveDelta, rejectDelta int) (*models.Submission, bool, error) {
	var submission models.Submission
	resolved := false

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Submission{}).
			Where("id = ? AND moderation_status = ?", id, models.StatusPending).
			Updates(map[string]any{
				"approve_weight": gorm.Expr("approve_weight + ?", approveDelta),
				"reject_weight":  gorm.Expr("reject_weight + ?", rejectDelta),
			})
		if result.Error != nil {
			return result.Error
		}

		if err := tx.First(&submission, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if result.RowsAffected == 0 {
			// Already resolved; further accumulation is a no-op.
			return nil
		}

		outcome := validation.Outcome(submission.ApproveWeight, submission.RejectWeight)
		if outcome == models.StatusPending {
			return nil
		}

		transition := tx.Model(&models.Submission{}).
			Where("id = ? AND moderation_status = ?", id, models.StatusPending).
			Update("moderation_status", outcome)
		if transition.Error != nil {
			return transition.Error
		}
		if transition.RowsAffected > 0 {
			submission.ModerationStatus = outcome
			resolved = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &submission, resolved, nil
}
