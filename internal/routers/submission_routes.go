package routers

import (
	"nicolaspaye/gamification/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func SubmissionRoutes(r *chi.Mux, submissionHandler *handlers.SubmissionHandler) {
	r.Route("/api/v1/submissions", func(r chi.Router) {
		r.Get("/{id}", submissionHandler.GetHandler)
		r.Post("/{id}/vote", submissionHandler.VoteHandler)
		r.Post("/{id}/validate", submissionHandler.ValidateHandler)
	})
}
