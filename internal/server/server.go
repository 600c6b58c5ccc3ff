// Package server is the HTTP layer. It exposes the CRUD admin API, the
// provider aggregation endpoints and the observability endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SIT-Team-4/KABAS/internal/adapter/metrics"
	"github.com/SIT-Team-4/KABAS/internal/app"
	"github.com/SIT-Team-4/KABAS/internal/domain"
	"github.com/SIT-Team-4/KABAS/internal/platform/config"
	"github.com/SIT-Team-4/KABAS/internal/platform/correlation"
	apperrors "github.com/SIT-Team-4/KABAS/internal/platform/errors"
)

// AppService is the application surface the HTTP handlers depend on.
// *app.Service implements it.
type AppService interface {
	CreateClassGroup(ctx context.Context, in app.ClassGroupInput) (*domain.ClassGroup, error)
	ListClassGroups(ctx context.Context, opts domain.ListOptions) ([]domain.ClassGroup, error)
	GetClassGroup(ctx context.Context, id int32) (*domain.ClassGroup, error)
	UpdateClassGroup(ctx context.Context, id int32, in app.ClassGroupInput) (*domain.ClassGroup, error)
	DeleteClassGroup(ctx context.Context, id int32) error

	CreateTeam(ctx context.Context, in app.TeamInput) (*domain.Team, error)
	ListTeams(ctx context.Context, filter domain.TeamFilter) ([]domain.Team, error)
	GetTeam(ctx context.Context, teamID int32) (*domain.Team, error)
	UpdateTeam(ctx context.Context, teamID int32, in app.TeamInput) (*domain.Team, error)
	DeleteTeam(ctx context.Context, teamID int32) error

	CreateCredential(ctx context.Context, teamID int32, in app.CredentialInput) (*domain.SanitizedCredential, error)
	GetCredential(ctx context.Context, teamID int32) (*domain.SanitizedCredential, error)
	UpdateCredential(ctx context.Context, teamID int32, update domain.CredentialUpdate) (*domain.SanitizedCredential, error)
	DeleteCredential(ctx context.Context, teamID int32) error

	GetKanbanBoard(ctx context.Context, token, owner, repo string) (*domain.KanbanBoard, error)
	ListTeamJiraIssues(ctx context.Context, teamID int32, projectKey string) ([]domain.JiraIssue, error)
	GetTeamJiraIssue(ctx context.Context, teamID int32, issueKey string) (*domain.JiraIssueDetail, error)
	ValidateJiraCredential(ctx context.Context, in app.JiraValidationInput) error
}

// dbHealthChecker is the minimal database surface the readiness check needs.
type dbHealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       AppService
	db        dbHealthChecker
	startTime time.Time
}

// NewServer wires middleware and routes. reg may be nil to skip HTTP metrics
// (tests); the /metrics endpoint is only mounted when a registry is given.
func NewServer(cfg *config.Config, appService AppService, db dbHealthChecker, reg *prometheus.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(correlationMiddleware())
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	if reg != nil {
		e.Use(metrics.NewHTTPMetrics(reg).Middleware())
	}
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       appService,
		db:        db,
		startTime: time.Now(),
	}
	srv.registerRoutes(reg)

	return srv
}

func (s *Server) Start() error {
	slog.Info("starting server", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// correlationMiddleware assigns every request a correlation ID, honoring one
// supplied by the caller, and echoes it back in the response.
func correlationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get("X-Correlation-Id")
			if id == "" {
				id = correlation.NewID()
			}

			ctx := correlation.WithID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Correlation-Id", id)
			return next(c)
		}
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "http request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}
