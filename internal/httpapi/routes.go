package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kuro-gg/wuwa-draft-backend/internal/auth"
	"github.com/kuro-gg/wuwa-draft-backend/internal/hub"
	"github.com/kuro-gg/wuwa-draft-backend/internal/store"
	"github.com/kuro-gg/wuwa-draft-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, st store.Store, sessions *auth.Sessions, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(log))

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, st, sessions, log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", Login(st, sessions, log))
		r.Get("/me", Me(st, sessions))
		r.Put("/users/box", UpdateBox(st, sessions))
		r.Get("/characters", Characters())

		r.Get("/matches", ListMatches(st))
		r.Post("/matches", CreateMatch(st, sessions, log))
		r.Get("/matches/{id}", GetMatch(st))
		r.Get("/matches/{id}/view", MatchView(st, sessions))
		r.Post("/matches/{id}/join", JoinMatch(h, st, sessions))
	})

	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr))
		})
	}
}
