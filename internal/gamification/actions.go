package gamification

import "nicolaspaye/gamification/internal/models"

// ActionConfig is the per-action award policy, loaded once at startup and
// immutable afterwards.
type ActionConfig struct {
	BaseXP int
	// OneTime actions award at most once per (user, action, subject); a
	// repeat is a safe no-op, enforced by the ledger's partial unique index.
	OneTime bool
}

// DefaultActionTable is the production award policy.
//
// Shares are deduplicated per platform, not per submission: callers qualify
// the subject id with the platform ("1234:twitter"), so sharing the same
// submission on two networks earns twice while a retried share on the same
// network does not.
//
// admin_manual takes its amount from the caller and may repeat; moderation
// actions award once per reviewed subject.
func DefaultActionTable() map[models.ActionType]ActionConfig {
	return map[models.ActionType]ActionConfig{
		models.ActionSubmissionPublished: {BaseXP: 50, OneTime: true},
		models.ActionCommunityNote:       {BaseXP: 15, OneTime: true},
		models.ActionShare:               {BaseXP: 5, OneTime: true},
		models.ActionSolutionProposed:    {BaseXP: 10, OneTime: true},
		models.ActionModeration:          {BaseXP: 2, OneTime: true},
		models.ActionAdminManual:         {BaseXP: 0, OneTime: false},
	}
}

const (
	// Admin manual grants outside this range are rejected before any write.
	adminAmountMin = -10000
	adminAmountMax = 10000
)
