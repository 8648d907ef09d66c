package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"nicolaspaye/gamification/internal/gamification"
	"nicolaspaye/gamification/internal/metrics"
	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/repositories"
	"nicolaspaye/gamification/internal/utils"
)

// XPHandler exposes the award and clawback engine to the main web app.
type XPHandler struct {
	Engine    *gamification.Engine
	JWTSecret string
}

type awardRequest struct {
	UserID      uint   `json:"userId"`
	ActionType  string `json:"actionType"`
	SubjectID   string `json:"subjectId"`
	SubjectKind string `json:"subjectKind"`
	Reason      string `json:"reason"`
}

// AwardHandler grants XP for one action.
func (h *XPHandler) AwardHandler(w http.ResponseWriter, r *http.Request) {
	var req awardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.UserID == 0 || req.ActionType == "" {
		utils.JSONError(w, http.StatusBadRequest, "userId and actionType are required")
		return
	}
	if models.ActionType(req.ActionType) == models.ActionAdminManual {
		utils.JSONError(w, http.StatusForbidden, "admin grants go through /admin/xp")
		return
	}

	result, err := h.Engine.AwardXP(r.Context(), gamification.AwardRequest{
		UserID:      req.UserID,
		Action:      models.ActionType(req.ActionType),
		SubjectID:   req.SubjectID,
		SubjectKind: req.SubjectKind,
		Reason:      req.Reason,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	metrics.ObserveAward(req.ActionType, result.Amount)
	utils.JSON(w, http.StatusOK, result)
}

type clawbackRequest struct {
	UserID      uint   `json:"userId"`
	SubjectID   string `json:"subjectId"`
	SubjectKind string `json:"subjectKind"`
}

// ClawbackHandler reverses the award tied to a subject. Reversing a subject
// that was never awarded is a successful no-op.
func (h *XPHandler) ClawbackHandler(w http.ResponseWriter, r *http.Request) {
	var req clawbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.UserID == 0 || req.SubjectID == "" {
		utils.JSONError(w, http.StatusBadRequest, "userId and subjectId are required")
		return
	}

	if err := h.Engine.ClawbackXP(r.Context(), req.UserID, req.SubjectID, req.SubjectKind); err != nil {
		writeEngineError(w, err)
		return
	}

	metrics.ObserveClawback()
	w.WriteHeader(http.StatusNoContent)
}

type adminGrantRequest struct {
	UserID      uint   `json:"userId"`
	Amount      int    `json:"amount"`
	SubjectID   string `json:"subjectId"`
	SubjectKind string `json:"subjectKind"`
	Reason      string `json:"reason"`
}

// AdminGrantHandler applies a manual XP adjustment. Requires an admin JWT;
// the token subject is recorded on the ledger entry.
func (h *XPHandler) AdminGrantHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.VerifyAdminToken(r, h.JWTSecret)
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req adminGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.UserID == 0 {
		utils.JSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	result, err := h.Engine.AwardXP(r.Context(), gamification.AwardRequest{
		UserID:      req.UserID,
		Action:      models.ActionAdminManual,
		SubjectID:   req.SubjectID,
		SubjectKind: req.SubjectKind,
		Amount:      req.Amount,
		Reason:      req.Reason,
		ActorID:     actor,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	metrics.ObserveAward(string(models.ActionAdminManual), result.Amount)
	utils.JSON(w, http.StatusOK, result)
}

// writeEngineError maps engine errors onto the HTTP taxonomy: validation
// failures surface verbatim, missing users are 404, everything else is a
// generic internal error.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gamification.ErrValidation):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrUserNotFound):
		utils.JSONError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, repositories.ErrSubmissionNotFound):
		utils.JSONError(w, http.StatusNotFound, "submission not found")
	default:
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
	}
}
