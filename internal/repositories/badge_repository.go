package repositories

import (
	"nicolaspaye/gamification/internal/models"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

// ListByUser returns the badges a user has earned, newest first.
func (r *BadgeRepository) ListByUser(userID uint) ([]models.UserBadge, error) {
	badges := []models.UserBadge{}
	err := r.DB.
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&badges).Error
	return badges, err
}
