package models

import "time"

// ActionType enumerates the XP-affecting actions recorded in the ledger.
type ActionType string

const (
	ActionSubmissionPublished ActionType = "submission_published"
	ActionCommunityNote       ActionType = "community_note_written"
	ActionShare               ActionType = "share"
	ActionSolutionProposed    ActionType = "solution_proposed"
	ActionModeration          ActionType = "moderation_action"
	ActionAdminManual         ActionType = "admin_manual"

	// ActionClawback marks a reversal entry cancelling an earlier award.
	ActionClawback ActionType = "clawback"
)

// XPEvent is an immutable ledger entry for one XP-affecting action. The
// denormalized User.TotalXP must always equal the sum of a user's events;
// every mutating path writes both in the same transaction.
//
// The partial unique index on (user_id, action_type, subject_id) closes the
// race between the duplicate-award check and the insert for one-time action
// types. Repeatable actions (admin grants, clawbacks) carry OneTime=false and
// bypass it.
type XPEvent struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"not null;index:idx_xp_events_user_created,priority:1;uniqueIndex:idx_xp_events_once,priority:1" json:"userId"`

	ActionType ActionType `gorm:"size:50;not null;uniqueIndex:idx_xp_events_once,priority:2" json:"actionType"`
	Amount     int        `gorm:"not null" json:"amount"`

	SubjectID   string `gorm:"size:64;uniqueIndex:idx_xp_events_once,priority:3,where:one_time" json:"subjectId"`
	SubjectKind string `gorm:"size:32" json:"subjectKind"`

	OneTime  bool `gorm:"default:false" json:"-"`
	Reversed bool `gorm:"default:false" json:"reversed"`

	// ReversesEventID links a clawback entry back to the award it cancels.
	ReversesEventID *uint `json:"reversesEventId,omitempty"`

	Reason  string `gorm:"size:255" json:"reason,omitempty"`
	ActorID string `gorm:"size:64" json:"actorId,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_xp_events_user_created,priority:2" json:"createdAt"`
}
