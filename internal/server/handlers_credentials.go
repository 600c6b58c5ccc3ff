package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SIT-Team-4/KABAS/internal/app"
	"github.com/SIT-Team-4/KABAS/internal/domain"
)

func (s *Server) handleCreateCredential(c echo.Context) error {
	teamID, err := pathID(c, "teamId")
	if err != nil {
		return err
	}

	var in app.CredentialInput
	if err := bind(c, &in); err != nil {
		return err
	}

	cred, err := s.app.CreateCredential(c.Request().Context(), teamID, in)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, cred)
}

func (s *Server) handleGetCredential(c echo.Context) error {
	teamID, err := pathID(c, "teamId")
	if err != nil {
		return err
	}

	cred, err := s.app.GetCredential(c.Request().Context(), teamID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cred)
}

func (s *Server) handleUpdateCredential(c echo.Context) error {
	teamID, err := pathID(c, "teamId")
	if err != nil {
		return err
	}

	var update domain.CredentialUpdate
	if err := bind(c, &update); err != nil {
		return err
	}

	cred, err := s.app.UpdateCredential(c.Request().Context(), teamID, update)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, cred)
}

func (s *Server) handleDeleteCredential(c echo.Context) error {
	teamID, err := pathID(c, "teamId")
	if err != nil {
		return err
	}

	if err := s.app.DeleteCredential(c.Request().Context(), teamID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
