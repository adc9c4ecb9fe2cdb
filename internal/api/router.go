package api

import (
	"net/http"
	"time"

	"remixarena/internal/api/handler"
	"remixarena/internal/app/service"
	"remixarena/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	contestService *service.ContestService,
	submissionService *service.SubmissionService,
	voteService *service.VoteService,
	settlementService *service.SettlementService,
	eventService *service.EventService,
	tokenService *service.TokenService,
	wsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies token when present, puts claims in context. Routes that
	// require auth add the Authenticator on top.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Websocket event feed sits outside the JSON API.
	if wsHandler != nil {
		r.Handle("/ws/events", wsHandler)
	}

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		contestHandler := handler.NewContestHandler(contestService, submissionService, settlementService)
		submissionHandler := handler.NewSubmissionHandler(submissionService)
		voteHandler := handler.NewVoteHandler(voteService)
		v1.Route("/contests", func(contests chi.Router) {
			contestHandler.RegisterRoutes(contests)
			submissionHandler.RegisterContestRoutes(contests)
			voteHandler.RegisterContestRoutes(contests)
		})

		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		eventHandler := handler.NewEventHandler(eventService)
		v1.Route("/events", eventHandler.RegisterRoutes)

		tokenHandler := handler.NewTokenHandler(tokenService)
		v1.Route("/token", tokenHandler.RegisterRoutes)
	})

	return r
}
