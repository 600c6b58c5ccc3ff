package server

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/SIT-Team-4/KABAS/internal/platform/errors"
)

// successResponse is the envelope for CRUD endpoints, mirroring the error
// envelope of the errors middleware.
type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, successResponse{Success: true, Data: data})
}

// pathID parses a positive int32 path parameter.
func pathID(c echo.Context, name string) (int32, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationError(name + " must be a positive integer")
	}
	return int32(id), nil
}

func bind(c echo.Context, target any) error {
	if err := c.Bind(target); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	return nil
}
