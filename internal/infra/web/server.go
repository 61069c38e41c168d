package web

import (
	"net/http"
	"time"

	"ragchat-storage/internal/domain/ports/adapter"
	"ragchat-storage/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	sessionUC usecase.SessionUseCase
	messageUC usecase.MessageUseCase
	limiter   adapter.RateLimiter
	auth      *AuthManager
	log       *zerolog.Logger
}

func NewServer(
	sessionUC usecase.SessionUseCase,
	messageUC usecase.MessageUseCase,
	limiter adapter.RateLimiter,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		sessionUC: sessionUC,
		messageUC: messageUC,
		limiter:   limiter,
		auth:      auth,
		log:       logger,
	}
}

// Router builds the full route tree. The add-message route sits outside the
// rate-limit middleware because its pipeline performs the check itself; every
// other API route is limited per request.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID)
	r.Use(Recover(s.log))
	r.Use(RequestLog(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/api/auth/token", tokenHandler(s.auth))

	r.Route("/api/sessions", func(r chi.Router) {
		r.Use(s.auth.Authenticate)

		// Exchange pipeline: the timeout must cover two provider attempts
		// plus the fixed retry delay.
		r.Group(func(r chi.Router) {
			r.Use(Timeout(90 * time.Second))
			r.Post("/{id}/messages", messageAddHandler(s.messageUC))
		})

		r.Group(func(r chi.Router) {
			r.Use(Timeout(10 * time.Second))
			r.Use(RateLimit(s.limiter))
			r.Post("/", sessionCreateHandler(s.sessionUC))
			r.Get("/", sessionListHandler(s.sessionUC, false))
			r.Get("/favorites", sessionListHandler(s.sessionUC, true))
			r.Get("/{id}", sessionGetHandler(s.sessionUC))
			r.Put("/{id}", sessionRenameHandler(s.sessionUC))
			r.Patch("/{id}/favorite", sessionFavoriteHandler(s.sessionUC))
			r.Delete("/{id}", sessionDeleteHandler(s.sessionUC))
			r.Get("/{id}/messages", messageListHandler(s.messageUC))
		})
	})

	return r
}
