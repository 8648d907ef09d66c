package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"nicolaspaye/gamification/internal/gamification"
	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/repositories"
	"nicolaspaye/gamification/internal/utils"
	"nicolaspaye/gamification/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SubmissionHandler serves the ranking and community-validation operations.
type SubmissionHandler struct {
	Submissions *repositories.SubmissionRepository
	Users       *repositories.UserRepository
	Engine      *gamification.Engine
	Logger      *zap.Logger
}

type voteRequest struct {
	Direction string `json:"direction"` // "up" or "down"
	Retract   bool   `json:"retract"`
}

// VoteHandler casts or retracts a feed vote and refreshes the hot score.
func (h *SubmissionHandler) VoteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := submissionID(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid submission id")
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	delta := 1
	if req.Retract {
		delta = -1
	}

	var upDelta, downDelta int
	switch req.Direction {
	case "up":
		upDelta = delta
	case "down":
		downDelta = delta
	default:
		utils.JSONError(w, http.StatusBadRequest, "direction must be up or down")
		return
	}

	submission, err := h.Submissions.ApplyVote(id, upDelta, downDelta)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			utils.JSONError(w, http.StatusNotFound, "submission not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.JSON(w, http.StatusOK, submission)
}

type validateRequest struct {
	ValidatorID uint   `json:"validatorId"`
	Decision    string `json:"decision"` // "approve" or "reject"
}

// ValidateHandler records a weighted community-validation vote. Validators
// must hold the minimum level; their vote weight scales with level. A vote
// that resolves the submission as rejected claws back the author's publish
// award, and every vote earns the validator the moderation action XP.
func (h *SubmissionHandler) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := submissionID(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid submission id")
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		utils.JSONError(w, http.StatusBadRequest, "decision must be approve or reject")
		return
	}

	validator, err := h.Users.GetByID(req.ValidatorID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	level := gamification.LevelFromXP(validator.TotalXP).Level
	if level < validation.MinValidationLevel {
		utils.JSONError(w, http.StatusForbidden, "level too low to validate submissions")
		return
	}

	weight := validation.Weight(level)
	approveDelta, rejectDelta := 0, 0
	if req.Decision == "approve" {
		approveDelta = weight
	} else {
		rejectDelta = weight
	}

	submission, resolved, err := h.Submissions.ApplyValidationVote(id, approveDelta, rejectDelta)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	subjectID := strconv.FormatUint(uint64(id), 10)

	if resolved && submission.ModerationStatus == models.StatusRejected {
		if err := h.Engine.ClawbackXP(r.Context(), submission.AuthorID, subjectID, "submission"); err != nil {
			h.Logger.Error("clawback after community rejection failed",
				zap.Uint("submissionId", id), zap.Error(err))
		}
	}

	// The validator's own reward; one-time per reviewed submission.
	if _, err := h.Engine.AwardXP(r.Context(), gamification.AwardRequest{
		UserID:      req.ValidatorID,
		Action:      models.ActionModeration,
		SubjectID:   subjectID,
		SubjectKind: "submission",
	}); err != nil {
		h.Logger.Error("validator reward failed",
			zap.Uint("validatorId", req.ValidatorID), zap.Error(err))
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"weight":     weight,
		"resolved":   resolved,
		"submission": submission,
	})
}

// GetHandler returns the ranking/validation slice of one submission.
func (h *SubmissionHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := submissionID(r)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid submission id")
		return
	}

	submission, err := h.Submissions.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			utils.JSONError(w, http.StatusNotFound, "submission not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	utils.JSON(w, http.StatusOK, submission)
}

func submissionID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("bad submission id %q", raw)
	}
	return uint(id), nil
}
