package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/SIT-Team-4/KABAS/internal/adapter/metrics"
	apperrors "github.com/SIT-Team-4/KABAS/internal/platform/errors"
)

func (s *Server) registerRoutes(reg *prometheus.Registry) {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	if reg != nil {
		s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(reg)))
	}

	s.echo.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the KABAS API"})
	})

	api := s.echo.Group("/api", s.requireAPIKey)

	// Class groups
	api.POST("/class-groups", s.handleCreateClassGroup)
	api.GET("/class-groups", s.handleListClassGroups)
	api.GET("/class-groups/:id", s.handleGetClassGroup)
	api.PUT("/class-groups/:id", s.handleUpdateClassGroup)
	api.DELETE("/class-groups/:id", s.handleDeleteClassGroup)

	// Teams
	api.POST("/teams", s.handleCreateTeam)
	api.GET("/teams", s.handleListTeams)
	api.GET("/teams/:teamId", s.handleGetTeam)
	api.PUT("/teams/:teamId", s.handleUpdateTeam)
	api.DELETE("/teams/:teamId", s.handleDeleteTeam)

	// Team credentials (one per team)
	api.POST("/teams/:teamId/credentials", s.handleCreateCredential)
	api.GET("/teams/:teamId/credentials", s.handleGetCredential)
	api.PUT("/teams/:teamId/credentials", s.handleUpdateCredential)
	api.DELETE("/teams/:teamId/credentials", s.handleDeleteCredential)

	// GitHub kanban aggregation
	api.GET("/github/:owner/:repo/kanban", s.handleGetKanban)

	// Jira, scoped to a team's stored credential
	api.GET("/teams/:teamId/jira/projects/:projectKey/issues", s.handleListJiraIssues)
	api.GET("/teams/:teamId/jira/issues/:issueKey", s.handleGetJiraIssue)
	api.POST("/jira/validate", s.handleValidateJira)
}

// requireAPIKey guards the API with the admin key. An unconfigured key
// denies everything rather than opening the API up.
func (s *Server) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.config.AdminAPIKey == "" {
			return apperrors.AuthenticationError("admin API key is not configured")
		}

		key := c.Request().Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.config.AdminAPIKey)) != 1 {
			return apperrors.AuthenticationError("Invalid API key")
		}
		return next(c)
	}
}
