package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/SIT-Team-4/KABAS/internal/app"
	"github.com/SIT-Team-4/KABAS/internal/domain"
)

func (s *Server) handleCreateClassGroup(c echo.Context) error {
	var in app.ClassGroupInput
	if err := bind(c, &in); err != nil {
		return err
	}

	group, err := s.app.CreateClassGroup(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, group)
}

func (s *Server) handleListClassGroups(c echo.Context) error {
	opts := domain.ListOptions{}
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			opts.Limit = v
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			opts.Offset = v
		}
	}

	groups, err := s.app.ListClassGroups(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, groups)
}

func (s *Server) handleGetClassGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	group, err := s.app.GetClassGroup(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, group)
}

func (s *Server) handleUpdateClassGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var in app.ClassGroupInput
	if err := bind(c, &in); err != nil {
		return err
	}

	group, err := s.app.UpdateClassGroup(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, group)
}

func (s *Server) handleDeleteClassGroup(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := s.app.DeleteClassGroup(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
