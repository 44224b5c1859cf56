package http

import (
	"net/http"

	"github.com/Ademileke12/examfever-affiliate-service/internal/application"
	"github.com/Ademileke12/examfever-affiliate-service/internal/ports"
	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler, verifier ports.TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(verifier))
			r.Group(func(r chi.Router) {
				r.Use(rateLimitMiddleware(handler.service, application.RateLimitClassAuth))
				r.Post("/referrals/signup", handler.registerSignup)
			})
			r.Group(func(r chi.Router) {
				r.Use(rateLimitMiddleware(handler.service, application.RateLimitClassExpensive))
				r.Post("/webhooks/payments", handler.paymentCompleted)
			})
			r.Group(func(r chi.Router) {
				r.Use(rateLimitMiddleware(handler.service, application.RateLimitClassAPI))
				r.Post("/affiliate/code", handler.claimReferralCode)
				r.Get("/affiliate/stats", handler.getStats)
				r.Post("/admin/affiliates/{user_id}/deactivate", handler.deactivateAffiliate)
			})
		})
	})
	return r
}
