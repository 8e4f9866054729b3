package organizer

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the organizer router. Health endpoints are public;
// everything under /api requires a valid organizer access key.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(h.validator, h.logger))

		r.Route("/hackathons/{id}", func(r chi.Router) {
			r.Post("/notify", h.HandleNotifyAll)
			r.Post("/judges/{judgeID}/notify", h.HandleNotifyJudge)
			r.Delete("/judges/{judgeID}/token", h.HandleRevokeToken)
			r.Post("/submissions/{sid}/review", h.HandleReview)
		})

		r.Route("/queue", func(r chi.Router) {
			r.Get("/stats", h.HandleQueueStats)
			r.Get("/batches/{batchID}", h.HandleBatchProgress)
		})
	})

	return r
}
