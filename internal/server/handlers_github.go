package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/SIT-Team-4/KABAS/internal/platform/errors"
)

// handleGetKanban assembles the normalized kanban board of one repository.
// The caller supplies the GitHub token per request, it is never stored here.
func (s *Server) handleGetKanban(c echo.Context) error {
	token := c.Request().Header.Get("X-GitHub-Token")
	if token == "" {
		return apperrors.AuthenticationError("GitHub token is required")
	}

	board, err := s.app.GetKanbanBoard(c.Request().Context(), token, c.Param("owner"), c.Param("repo"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}
