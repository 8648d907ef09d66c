package handlers

import (
	"net/http"

	"nicolaspaye/gamification/internal/utils"

	"gorm.io/gorm"
)

// HealthHandler reports readiness of the service and its database.
type HealthHandler struct {
	DB *gorm.DB
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	sqlDB, err := h.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		utils.JSONError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
