package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SIT-Team-4/KABAS/internal/app"
)

func (s *Server) handleListJiraIssues(c echo.Context) error {
	teamID, err := pathID(c, "teamId")
	if err != nil {
		return err
	}

	issues, err := s.app.ListTeamJiraIssues(c.Request().Context(), teamID, c.Param("projectKey"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, issues)
}

func (s *Server) handleGetJiraIssue(c echo.Context) error {
	teamID, err := pathID(c, "teamId")
	if err != nil {
		return err
	}

	detail, err := s.app.GetTeamJiraIssue(c.Request().Context(), teamID, c.Param("issueKey"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, detail)
}

// handleValidateJira tests a candidate Jira credential against the site
// before it is saved to a team.
func (s *Server) handleValidateJira(c echo.Context) error {
	var in app.JiraValidationInput
	if err := bind(c, &in); err != nil {
		return err
	}

	if err := s.app.ValidateJiraCredential(c.Request().Context(), in); err != nil {
		return err
	}
	return respond(c, http.StatusOK, map[string]bool{"valid": true})
}
