package api

import (
	"net/http"
	"time"
	"vortex_api/internal/api/handler"
	"vortex_api/internal/api/middleware"
	"vortex_api/internal/app/service"
	"vortex_api/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	problemService *service.ProblemService,
	testCaseService *service.TestCaseService,
	authoringService *service.AuthoringService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token when present and puts claims in context.
	// Route groups decide whether a requester is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		authHandler.RegisterRoutes(v1)

		// User routes (public reads; an optional token widens the
		// dashboard listing for the owner and moderators)
		userHandler := handler.NewUserHandler(authService, problemService)
		v1.Route("/users", func(users chi.Router) {
			users.Use(middleware.OptionalAuthenticator)
			userHandler.RegisterRoutes(users)
		})

		// Problem routes (mixed public/authenticated, grouped inside)
		problemHandler := handler.NewProblemHandler(problemService, testCaseService, authoringService)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		// Test case routes addressed by id (authenticated)
		testCaseHandler := handler.NewTestCaseHandler(testCaseService)
		v1.Route("/testcases", func(testCases chi.Router) {
			testCases.Use(middleware.Authenticator)
			testCaseHandler.RegisterRoutes(testCases)
		})

		// Judge vocabulary (public, static)
		judgeHandler := handler.NewJudgeHandler()
		v1.Route("/judge", judgeHandler.RegisterRoutes)
	})

	return r
}
