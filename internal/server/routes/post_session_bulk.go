package routes

import (
	"errors"
	"net/http"

	"github.com/substratehq/graphview/internal/server/middleware"
	"github.com/substratehq/graphview/internal/server/session"
	"github.com/substratehq/graphview/pkg/logger"
	"github.com/substratehq/graphview/pkg/selection"
	"github.com/substratehq/graphview/pkg/substrate"

	"github.com/labstack/echo/v4"
)

// PreviewSessionHandler computes the combined impact of destroying every
// selected node. Per-entity request failures degrade to zero counts and are
// surfaced in the response so the client can flag the preview as partial.
func PreviewSessionHandler(c echo.Context) error {
	type previewResponse struct {
		Message string            `json:"message"`
		Preview *selection.Impact `json:"preview,omitempty"`
		Failed  int               `json:"failed,omitempty"`
	}

	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}

	app := c.(*middleware.AppContext).App
	if app.Preview == nil {
		return c.JSON(http.StatusServiceUnavailable, previewResponse{
			Message: "Bulk actions require a substrate API backend",
		})
	}

	agg, failed, err := s.Preview(c.Request().Context(), app.Preview)
	switch {
	case errors.Is(err, session.ErrNotMultiMode), errors.Is(err, session.ErrEmptySelection):
		return c.JSON(http.StatusBadRequest, previewResponse{
			Message: err.Error(),
		})
	case errors.Is(err, session.ErrStalePreview):
		return c.JSON(http.StatusConflict, previewResponse{
			Message: "Selection changed during preview",
		})
	case err != nil:
		logger.Error("[Session] Preview failed", "session_id", s.ID, "err", err)
		return c.JSON(http.StatusInternalServerError, previewResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, previewResponse{
		Message: "OK",
		Preview: &agg,
		Failed:  failed,
	})
}

// SubmitSessionHandler submits one combined work request covering the
// selection.
func SubmitSessionHandler(c echo.Context) error {
	type submitResponse struct {
		Message string                `json:"message"`
		Result  *substrate.WorkResult `json:"result,omitempty"`
		View    *session.View         `json:"view,omitempty"`
	}

	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}

	app := c.(*middleware.AppContext).App
	if app.Work == nil {
		return c.JSON(http.StatusServiceUnavailable, submitResponse{
			Message: "Bulk actions require a substrate API backend",
		})
	}

	result, err := s.Submit(c.Request().Context(), app.Work)
	switch {
	case errors.Is(err, session.ErrEmptySelection):
		return c.JSON(http.StatusBadRequest, submitResponse{
			Message: err.Error(),
		})
	case errors.Is(err, session.ErrBusy):
		return c.JSON(http.StatusConflict, submitResponse{
			Message: "A submission is already in flight",
		})
	case err != nil:
		logger.Error("[Session] Work submission failed", "session_id", s.ID, "err", err)
		return c.JSON(http.StatusBadGateway, submitResponse{
			Message: "Work submission failed",
		})
	}

	view := s.View()
	return c.JSON(http.StatusOK, submitResponse{
		Message: "Work submitted successfully",
		Result:  &result,
		View:    &view,
	})
}
