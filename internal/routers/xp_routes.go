package routers

import (
	"nicolaspaye/gamification/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func XPRoutes(r *chi.Mux, xpHandler *handlers.XPHandler) {
	r.Route("/api/v1/xp", func(r chi.Router) {
		r.Post("/award", xpHandler.AwardHandler)
		r.Post("/clawback", xpHandler.ClawbackHandler)
	})
	r.Post("/api/v1/admin/xp", xpHandler.AdminGrantHandler)
}
