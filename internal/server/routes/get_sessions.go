package routes

import (
	"errors"
	"net/http"

	"github.com/substratehq/graphview/internal/server/middleware"
	"github.com/substratehq/graphview/internal/server/session"
	"github.com/substratehq/graphview/pkg/logger"

	"github.com/labstack/echo/v4"
)

// lookupSession resolves the :id path parameter against the session manager.
// The second return value is a non-nil error response when the lookup fails.
func lookupSession(c echo.Context) (*session.Session, error) {
	id := c.Param("id")
	if id == "" {
		return nil, c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid session id"})
	}
	s, err := c.(*middleware.AppContext).App.Sessions.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, c.JSON(http.StatusNotFound, map[string]string{"message": "Session not found"})
		}
		logger.Error("[Session] Lookup failed", "session_id", id, "err", err)
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	return s, nil
}

// GetSessionHandler returns the session's interaction state.
func GetSessionHandler(c echo.Context) error {
	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}
	return c.JSON(http.StatusOK, s.View())
}

// DeleteSessionHandler discards a session.
func DeleteSessionHandler(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid session id"})
	}
	c.(*middleware.AppContext).App.Sessions.Remove(id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Session deleted"})
}

// GetSessionFrameHandler serves the session's cached rendered frame.
func GetSessionFrameHandler(c echo.Context) error {
	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}
	data, err := s.PNG()
	if err != nil {
		logger.Error("[Session] Failed to render frame", "session_id", s.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	return c.Blob(http.StatusOK, "image/png", data)
}
