package routes

import (
	"net/http"

	"github.com/substratehq/graphview/internal/server/middleware"
	"github.com/substratehq/graphview/pkg/graph"
	"github.com/substratehq/graphview/pkg/layout"
	"github.com/substratehq/graphview/pkg/logger"
	"github.com/substratehq/graphview/pkg/render"

	"github.com/labstack/echo/v4"
)

// GetBasketGraphHandler loads a basket's substrate collections and returns
// the normalized, positioned graph as JSON. Stateless: no session required.
func GetBasketGraphHandler(c echo.Context) error {
	type getGraphParams struct {
		BasketID  string `param:"id" validate:"required"`
		Algorithm string `query:"algorithm"`
	}

	type getGraphResponse struct {
		Message string       `json:"message"`
		Graph   *graph.Graph `json:"graph,omitempty"`
	}

	params := new(getGraphParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getGraphResponse{
			Message: "Invalid request",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getGraphResponse{
			Message: "Invalid request",
		})
	}

	ctx := c.Request().Context()
	source := c.(*middleware.AppContext).App.Source

	snap, err := source.LoadSnapshot(ctx, params.BasketID)
	if err != nil {
		logger.Error("[Graph] Failed to load snapshot", "basket_id", params.BasketID, "err", err)
		return c.JSON(http.StatusBadGateway, getGraphResponse{
			Message: "Failed to load basket",
		})
	}

	g := graph.Build(snap, graph.AllVisible())
	g = layout.Apply(g, layout.ParseAlgorithm(params.Algorithm))

	return c.JSON(http.StatusOK, getGraphResponse{
		Message: "OK",
		Graph:   &g,
	})
}

// GetBasketGraphImageHandler renders a basket's graph to PNG in one shot.
func GetBasketGraphImageHandler(c echo.Context) error {
	type getImageParams struct {
		BasketID  string  `param:"id" validate:"required"`
		Algorithm string  `query:"algorithm"`
		Zoom      float64 `query:"zoom"`
		Scale     float64 `query:"scale"`
		Labels    *bool   `query:"labels"`
	}

	params := new(getImageParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	ctx := c.Request().Context()
	source := c.(*middleware.AppContext).App.Source

	snap, err := source.LoadSnapshot(ctx, params.BasketID)
	if err != nil {
		logger.Error("[Graph] Failed to load snapshot", "basket_id", params.BasketID, "err", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"message": "Failed to load basket"})
	}

	g := graph.Build(snap, graph.AllVisible())
	g = layout.Apply(g, layout.ParseAlgorithm(params.Algorithm))

	zoom := 1.0
	if params.Zoom != 0 {
		zoom = render.ClampZoom(params.Zoom)
	}
	scale := 1.0
	if params.Scale > 0 {
		scale = params.Scale
	}
	showLabels := true
	if params.Labels != nil {
		showLabels = *params.Labels
	}

	data, err := render.RenderPNG(render.Frame{
		Graph:      g,
		Zoom:       zoom,
		ShowLabels: showLabels,
	}, layout.CanvasWidth, layout.CanvasHeight, scale)
	if err != nil {
		logger.Error("[Graph] Failed to render basket", "basket_id", params.BasketID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.Blob(http.StatusOK, "image/png", data)
}
