package repositories

import (
	"errors"

	"nicolaspaye/gamification/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *models.User) error {
	return r.DB.Create(user).Error
}

// GetByID returns a non-deleted user. Soft-deleted rows are filtered by
// gorm.Model's DeletedAt.
func (r *UserRepository) GetByID(userID uint) (*models.User, error) {
	var user models.User
	err := r.DB.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ApplyXPDelta adjusts a user's denormalized total in a single atomic UPDATE,
// floored at zero so concurrent clawbacks can never drive it negative.
func (r *UserRepository) ApplyXPDelta(userID uint, delta int) error {
	result := r.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("total_xp", gorm.Expr(
			"CASE WHEN total_xp + ? < 0 THEN 0 ELSE total_xp + ? END", delta, delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ApplyAward writes every aggregate touched by one XP award in a single
// UPDATE scoped to the user row: the total increments in place (no
// read-then-write round trip) while the streak fields are set to the values
// the engine derived.
func (r *UserRepository) ApplyAward(userID uint, amount int, updates map[string]any) error {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["total_xp"] = gorm.Expr(
		"CASE WHEN total_xp + ? < 0 THEN 0 ELSE total_xp + ? END", amount, amount)

	result := r.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Top returns the leaderboard slice ordered by total XP.
func (r *UserRepository) Top(limit int) ([]models.User, error) {
	users := []models.User{}
	err := r.DB.Order("total_xp DESC").Limit(limit).Find(&users).Error
	return users, err
}
