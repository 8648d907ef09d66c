package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"nicolaspaye/gamification/internal/jobs"
	"nicolaspaye/gamification/internal/metrics"
	"nicolaspaye/gamification/internal/utils"
)

// JobHandler lets the external scheduler trigger maintenance runs over HTTP,
// authenticated with a shared bearer secret.
type JobHandler struct {
	Job    *jobs.StreakMaintenanceJob
	Secret string
}

// RunStreakMaintenance triggers one maintenance pass. Safe to retry: the job
// is idempotent per calendar day.
func (h *JobHandler) RunStreakMaintenance(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.Secret)) != 1 {
		utils.JSONError(w, http.StatusUnauthorized, "invalid job secret")
		return
	}

	result, err := h.Job.Run()
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "maintenance run failed")
		return
	}

	metrics.ObserveMaintenance(result.StreaksReset, result.ReposProtected)
	utils.JSON(w, http.StatusOK, result)
}
