package models

import "gorm.io/gorm"

// ModerationStatus is the lifecycle state of a submission in the community
// validation pipeline.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
	StatusFlagged  ModerationStatus = "flagged"
)

// Submission carries the ranking and validation slice of a public-spending
// report. Title, body and attachments live in the main application.
type Submission struct {
	gorm.Model
	AuthorID uint `gorm:"not null;index" json:"authorId"`

	UpvoteCount   int     `gorm:"default:0" json:"upvoteCount"`
	DownvoteCount int     `gorm:"default:0" json:"downvoteCount"`
	HotScore      float64 `gorm:"default:0;index" json:"hotScore"`

	ModerationStatus ModerationStatus `gorm:"size:16;default:'pending';index" json:"moderationStatus"`

	// Cumulative community-validation weight, only meaningful while pending.
	ApproveWeight int `gorm:"default:0" json:"approveWeight"`
	RejectWeight  int `gorm:"default:0" json:"rejectWeight"`
}
