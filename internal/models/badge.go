package models

import "time"

// BadgeCategory groups badges on the profile page.
type BadgeCategory string

const (
	BadgeContribution BadgeCategory = "contribution"
	BadgeQuality      BadgeCategory = "quality"
	BadgeStreak       BadgeCategory = "streak"
	BadgeSocial       BadgeCategory = "social"
	BadgeModeration   BadgeCategory = "moderation"
	BadgeCode         BadgeCategory = "code"
	BadgeSpecial      BadgeCategory = "special"
)

// BadgeDefinition is a static catalog entry. The catalog is compiled in and
// never persisted; only earned badges are stored.
type BadgeDefinition struct {
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    BadgeCategory `json:"category"`
}

// UserBadge records a badge earned by a user.
type UserBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badges_once,priority:1" json:"userId"`
	BadgeSlug string    `gorm:"size:64;not null;uniqueIndex:idx_user_badges_once,priority:2" json:"badgeSlug"`
	EarnedAt  time.Time `gorm:"autoCreateTime" json:"earnedAt"`
}
