package routers

import (
	"nicolaspaye/gamification/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func JobRoutes(r *chi.Mux, jobHandler *handlers.JobHandler) {
	r.Post("/api/v1/jobs/streak-maintenance", jobHandler.RunStreakMaintenance)
}
