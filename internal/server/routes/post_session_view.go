package routes

import (
	"net/http"

	"github.com/substratehq/graphview/internal/server/middleware"
	"github.com/substratehq/graphview/pkg/graph"
	"github.com/substratehq/graphview/pkg/layout"
	"github.com/substratehq/graphview/pkg/logger"
	"github.com/substratehq/graphview/pkg/selection"

	"github.com/labstack/echo/v4"
)

// ClickSessionHandler applies a pointer click in client coordinates.
func ClickSessionHandler(c echo.Context) error {
	type clickBody struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}

	data := new(clickBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	return c.JSON(http.StatusOK, s.Click(data.X, data.Y))
}

// SetSessionModeHandler switches between single and multi selection.
func SetSessionModeHandler(c echo.Context) error {
	type modeBody struct {
		Mode string `json:"mode" validate:"required,oneof=single multi"`
	}

	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}

	data := new(modeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	return c.JSON(http.StatusOK, s.SetMode(selection.Mode(data.Mode)))
}

// ZoomSessionHandler steps the zoom level.
func ZoomSessionHandler(c echo.Context) error {
	type zoomBody struct {
		Direction string `json:"direction" validate:"required,oneof=in out"`
	}

	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}

	data := new(zoomBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	if data.Direction == "in" {
		return c.JSON(http.StatusOK, s.ZoomIn())
	}
	return c.JSON(http.StatusOK, s.ZoomOut())
}

// SetSessionLayoutHandler switches the layout algorithm.
func SetSessionLayoutHandler(c echo.Context) error {
	type layoutBody struct {
		Algorithm string `json:"algorithm" validate:"required,oneof=circular hierarchical scatter"`
	}

	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}

	data := new(layoutBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	return c.JSON(http.StatusOK, s.SetAlgorithm(layout.ParseAlgorithm(data.Algorithm)))
}

// SetSessionTogglesHandler updates kind visibility and display flags. Absent
// fields leave the current values in place.
func SetSessionTogglesHandler(c echo.Context) error {
	type togglesBody struct {
		Fragments   *bool `json:"fragments"`
		Captures    *bool `json:"captures"`
		Tags        *bool `json:"tags"`
		ShowLabels  *bool `json:"showLabels"`
		ShowWeights *bool `json:"showWeights"`
	}

	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}

	data := new(togglesBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	view := s.SetFlags(data.ShowLabels, data.ShowWeights)
	if data.Fragments != nil || data.Captures != nil || data.Tags != nil {
		vis := s.Visibility()
		if data.Fragments != nil {
			vis[graph.KindFragment] = *data.Fragments
		}
		if data.Captures != nil {
			vis[graph.KindCapture] = *data.Captures
		}
		if data.Tags != nil {
			vis[graph.KindTag] = *data.Tags
		}
		view = s.SetVisibility(vis)
	}

	return c.JSON(http.StatusOK, view)
}

// ResetSessionHandler restores the default viewport.
func ResetSessionHandler(c echo.Context) error {
	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}
	return c.JSON(http.StatusOK, s.ResetView())
}

// ReloadSessionHandler refreshes the session's snapshot from the source.
func ReloadSessionHandler(c echo.Context) error {
	s, errResp := lookupSession(c)
	if s == nil {
		return errResp
	}

	app := c.(*middleware.AppContext).App
	view, err := s.Reload(c.Request().Context(), app.Source)
	if err != nil {
		logger.Error("[Session] Failed to reload snapshot", "session_id", s.ID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": "Failed to load basket"})
	}
	return c.JSON(http.StatusOK, view)
}
