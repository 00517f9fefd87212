package handlers

import (
	"context"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/analyzer"
	"github.com/2beens/gymlog/internal/gymlog/sessions"
	"github.com/2beens/gymlog/internal/middleware"
	"github.com/2beens/gymlog/internal/telemetry/metrics"

	"github.com/gorilla/mux"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=handlers_test

type sessionAppender interface {
	Append(ctx context.Context, record sessions.SessionRecord) (sessions.SessionRecord, error)
	Catalog() sessions.Catalog
}

type userRegistry interface {
	ListUsers(ctx context.Context) ([]string, error)
	IsValidUser(ctx context.Context, name string) (bool, error)
}

type logQuerier interface {
	Query(ctx context.Context, filter analyzer.LogFilter) ([]analyzer.LogRow, error)
	Invalidate(ctx context.Context)
}

type Handler struct {
	sessions    sessionAppender
	users       userRegistry
	log         logQuerier
	defaultUser string
	now         func() time.Time
}

type NewHandlerParams struct {
	Sessions    sessionAppender
	Users       userRegistry
	Log         logQuerier
	DefaultUser string
	// Now defaults to time.Now; used for the default session date.
	Now func() time.Time
}

func NewHandler(params NewHandlerParams) *Handler {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		sessions:    params.Sessions,
		users:       params.Users,
		log:         params.Log,
		defaultUser: params.DefaultUser,
		now:         now,
	}
}

func (h *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	sessionsPerMin int,
) {
	gymlogRouter := mainRouter.PathPrefix("/gymlog").Subrouter()

	gymlogRouter.HandleFunc("/log", h.HandleLog).Methods("GET", "OPTIONS").Name("log")
	gymlogRouter.HandleFunc("/log/bounds", h.HandleLogBounds).Methods("GET", "OPTIONS").Name("log-bounds")
	gymlogRouter.HandleFunc("/log/export", h.HandleExport).Methods("GET", "OPTIONS").Name("log-export")
	gymlogRouter.HandleFunc("/latest-weight", h.HandleLatestWeight).Methods("GET", "OPTIONS").Name("latest-weight")
	gymlogRouter.HandleFunc("/form", h.HandleForm).Methods("GET", "OPTIONS").Name("form")
	gymlogRouter.HandleFunc("/users", h.HandleUsers).Methods("GET", "OPTIONS").Name("users")
	gymlogRouter.HandleFunc("/users/{alias}/valid", h.HandleIsValidUser).Methods("GET", "OPTIONS").Name("user-valid")
	gymlogRouter.HandleFunc("/exercises", h.HandleExercises).Methods("GET", "OPTIONS").Name("exercises")

	sessionsRouter := gymlogRouter.PathPrefix("/sessions").Subrouter()
	sessionsRouter.HandleFunc("", h.HandleAddSession).Methods("POST", "OPTIONS").Name("new-session")
	// submissions write to the store, keep them bounded
	sessionsRouter.Use(middleware.RateLimit(rateLimiter, "sessions", sessionsPerMin, metricsManager))
}
