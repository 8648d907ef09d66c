package validation

import "nicolaspaye/gamification/internal/models"

// MinValidationLevel gates who may cast a community-validation vote at all.
const MinValidationLevel = 2

const (
	// A pending submission auto-resolves once one side accumulates this much
	// weight while holding at least double the opposing weight.
	resolveThreshold = 10
	resolveRatio     = 2
)

// Weight returns the influence a validator's vote carries, scaled by level.
func Weight(level int) int {
	switch {
	case level >= 15:
		return 5
	case level >= 10:
		return 4
	case level >= 7:
		return 3
	case level >= 4:
		return 2
	default:
		return 1
	}
}

// Outcome evaluates the accumulated weights of a pending submission and
// returns the status it should transition to, or StatusPending if neither
// side has won yet.
func Outcome(approveWeight, rejectWeight int) models.ModerationStatus {
	if approveWeight >= resolveThreshold && approveWeight >= resolveRatio*rejectWeight {
		return models.StatusApproved
	}
	if rejectWeight >= resolveThreshold && rejectWeight >= resolveRatio*approveWeight {
		return models.StatusRejected
	}
	return models.StatusPending
}
