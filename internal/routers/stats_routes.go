package routers

import (
	"nicolaspaye/gamification/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func StatsRoutes(r *chi.Mux, statsHandler *handlers.StatsHandler) {
	r.Get("/api/v1/users/{id}/stats", statsHandler.GetUserStats)
	r.Get("/api/v1/levels/{xp}", statsHandler.GetLevel)
	r.Get("/api/v1/leaderboard", statsHandler.Leaderboard)
	r.Get("/api/v1/badges", statsHandler.GetBadgeCatalog)
}
