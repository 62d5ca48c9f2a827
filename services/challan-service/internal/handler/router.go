package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/usecase"
	"github.com/vasapolrittideah/challan-api/shared/auth"
	"github.com/vasapolrittideah/challan-api/shared/httpmw"
	"github.com/vasapolrittideah/challan-api/shared/utilities"
	"github.com/vasapolrittideah/challan-api/shared/validator"
)

const requestIDHeader = "X-Request-ID"

// RouterDeps are the collaborators the HTTP routes are built on.
type RouterDeps struct {
	Logger            *zerolog.Logger
	AuthUsecase       usecase.AuthUsecase
	SubmissionUsecase usecase.SubmissionUsecase
	JWTAuth           *auth.JWTAuthenticator
	Validator         *validator.Validator
	HealthCheck       HealthChecker
	MaxUploadBytes    int64
}

// NewRouter builds the service's HTTP routes.
func NewRouter(deps RouterDeps) http.Handler {
	h := &httpHandler{
		authUsecase:       deps.AuthUsecase,
		submissionUsecase: deps.SubmissionUsecase,
		validator:         deps.Validator,
		healthCheck:       deps.HealthCheck,
		maxUploadBytes:    deps.MaxUploadBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(*deps.Logger))
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  func(_ *http.Request, _ string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	r.Use(utilities.ForwardHeadersMiddleware())

	r.Get("/", h.home)
	r.Get("/healthz", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(httpmw.NewJWTMiddleware(deps.JWTAuth))
			r.Get("/me", h.me)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/send-csv", h.sendCSV)
		r.Post("/manual-entry", h.manualEntry)
	})

	return r
}

// requestID makes sure every request carries an X-Request-ID and tags the request
// logger with it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)

		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", id)
		})

		next.ServeHTTP(w, r)
	})
}

var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
})
