package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"nicolaspaye/gamification/internal/gamification"
	"nicolaspaye/gamification/internal/models"
	"nicolaspaye/gamification/internal/repositories"
	"nicolaspaye/gamification/internal/utils"

	"github.com/go-chi/chi/v5"
)

// StatsHandler serves the read side: user stats, level lookups and the
// leaderboard.
type StatsHandler struct {
	Users  *repositories.UserRepository
	Events *repositories.XPEventRepository
	Badges *repositories.BadgeRepository
}

// GetUserStats returns the dashboard payload for one user.
func (h *StatsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.Users.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONError(w, http.StatusNotFound, "user not found")
			return
		}
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	badges, err := h.Badges.ListByUser(user.ID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	recent, err := h.Events.Recent(user.ID, 20)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"level":        gamification.LevelFromXP(user.TotalXP),
		"badges":       badges,
		"recentEvents": recent,
	})
}

// GetLevel is the pure level lookup, handy for previews on the client.
func (h *StatsHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	xp, err := strconv.Atoi(chi.URLParam(r, "xp"))
	if err != nil || xp < 0 {
		utils.JSONError(w, http.StatusBadRequest, "xp must be a non-negative integer")
		return
	}
	utils.JSON(w, http.StatusOK, gamification.LevelFromXP(xp))
}

// Leaderboard returns the top users by total XP.
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			utils.JSONError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	users, err := h.Users.Top(limit)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	type entry struct {
		UserID      uint   `json:"userId"`
		DisplayName string `json:"displayName"`
		TotalXP     int    `json:"totalXp"`
		Level       int    `json:"level"`
		Streak      int    `json:"streak"`
	}
	entries := make([]entry, 0, len(users))
	for _, user := range users {
		entries = append(entries, entry{
			UserID:      user.ID,
			DisplayName: displayName(&user),
			TotalXP:     user.TotalXP,
			Level:       gamification.LevelFromXP(user.TotalXP).Level,
			Streak:      user.CurrentStreak,
		})
	}
	utils.JSON(w, http.StatusOK, entries)
}

// GetBadgeCatalog lists the static badge definitions.
func (h *StatsHandler) GetBadgeCatalog(w http.ResponseWriter, _ *http.Request) {
	utils.JSON(w, http.StatusOK, gamification.BadgeCatalog())
}

func displayName(user *models.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.AnonymousID
}
