package models

import (
	"time"

	"gorm.io/gorm"
)

// User holds the gamification slice of a citizen account. Authentication,
// profile data and submission content live in the main web application; this
// service owns the XP and streak aggregates.
type User struct {
	gorm.Model
	DisplayName string `json:"displayName"`
	AnonymousID string `gorm:"size:64;uniqueIndex" json:"anonymousId"`

	TotalXP           int `gorm:"default:0" json:"totalXp"`
	CurrentStreak     int `gorm:"default:0" json:"currentStreak"`
	LongestStreak     int `gorm:"default:0" json:"longestStreak"`
	StreakFreezeCount int `gorm:"default:0" json:"streakFreezeCount"`

	// DailyGoal of 0 means the user is in "repos" (rest) mode and relies on
	// the monthly repos-day allowance to keep a streak alive.
	DailyGoal              int        `gorm:"default:20" json:"dailyGoal"`
	LastActiveDate         *time.Time `json:"lastActiveDate"`
	ReposDaysUsedThisMonth int        `gorm:"default:0" json:"reposDaysUsedThisMonth"`
}
