package routes

import (
	"net/http"

	"github.com/substratehq/graphview/internal/server/middleware"
	"github.com/substratehq/graphview/internal/server/session"
	"github.com/substratehq/graphview/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CreateSessionHandler opens an interactive graph view over a basket.
func CreateSessionHandler(c echo.Context) error {
	type createSessionBody struct {
		BasketID string `json:"basketId" validate:"required"`
	}

	type createSessionResponse struct {
		Message string        `json:"message"`
		View    *session.View `json:"view,omitempty"`
	}

	data := new(createSessionBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createSessionResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createSessionResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	s, err := app.Sessions.Create(c.Request().Context(), app.Source, data.BasketID)
	if err != nil {
		logger.Error("[Session] Failed to open session", "basket_id", data.BasketID, "err", err)
		return c.JSON(http.StatusBadGateway, createSessionResponse{
			Message: "Failed to load basket",
		})
	}

	view := s.View()
	return c.JSON(http.StatusCreated, createSessionResponse{
		Message: "Session created successfully",
		View:    &view,
	})
}
