package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/SIT-Team-4/KABAS/internal/app"
	"github.com/SIT-Team-4/KABAS/internal/domain"
	apperrors "github.com/SIT-Team-4/KABAS/internal/platform/errors"
)

func (s *Server) handleCreateTeam(c echo.Context) error {
	var in app.TeamInput
	if err := bind(c, &in); err != nil {
		return err
	}

	team, err := s.app.CreateTeam(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, team)
}

func (s *Server) handleListTeams(c echo.Context) error {
	filter := domain.TeamFilter{}
	if raw := c.QueryParam("classGroupId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || id <= 0 {
			return apperrors.ValidationError("classGroupId must be a positive integer")
		}
		classGroupID := int32(id)
		filter.ClassGroupID = &classGroupID
	}

	teams, err := s.app.ListTeams(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, teams)
}

func (s *Server) handleGetTeam(c echo.Context) error {
	teamID, err := pathID(c, "teamId")
	if err != nil {
		return err
	}

	team, err := s.app.GetTeam(c.Request().Context(), teamID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, team)
}

func (s *Server) handleUpdateTeam(c echo.Context) error {
	teamID, err := pathID(c, "teamId")
	if err != nil {
		return err
	}

	var in app.TeamInput
	if err := bind(c, &in); err != nil {
		return err
	}

	team, err := s.app.UpdateTeam(c.Request().Context(), teamID, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, team)
}

func (s *Server) handleDeleteTeam(c echo.Context) error {
	teamID, err := pathID(c, "teamId")
	if err != nil {
		return err
	}

	if err := s.app.DeleteTeam(c.Request().Context(), teamID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
