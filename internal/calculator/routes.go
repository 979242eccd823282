package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/evaluate", h.Evaluate)
		r.Post("/preprocess", h.Preprocess)
		r.Get("/layouts/{mode}", h.Layout)
		r.Get("/currencies", h.Currencies)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Post("/press", h.Press)
				r.Post("/key", h.Key)
				r.Put("/mode", h.SetMode)
				r.Put("/base", h.SetBase)
				r.Put("/angle", h.SetAngle)
				r.Get("/ws", h.SessionSocket)
			})
		})
	})
}
