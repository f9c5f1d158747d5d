package routes

import (
	"net/http"

	"github.com/substratehq/graphview/internal/export"
	"github.com/substratehq/graphview/internal/server/middleware"
	"github.com/substratehq/graphview/pkg/graph"
	"github.com/substratehq/graphview/pkg/layout"
	"github.com/substratehq/graphview/pkg/logger"
	"github.com/substratehq/graphview/pkg/render"

	"github.com/labstack/echo/v4"
)

// ExportBasketGraphHandler renders a basket's graph at export resolution,
// uploads the PNG to object storage, and returns a presigned download link.
func ExportBasketGraphHandler(c echo.Context) error {
	type exportRequest struct {
		BasketID  string  `param:"id" validate:"required"`
		Algorithm string  `json:"algorithm"`
		Scale     float64 `json:"scale"`
	}

	type exportResponse struct {
		Message string `json:"message"`
		Key     string `json:"key,omitempty"`
		URL     string `json:"url,omitempty"`
	}

	data := new(exportRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, exportResponse{
			Message: "Invalid request body",
		})
	}

	s3Client := c.(*middleware.AppContext).App.S3
	if s3Client == nil {
		return c.JSON(http.StatusServiceUnavailable, exportResponse{
			Message: "Object storage is not configured",
		})
	}

	ctx := c.Request().Context()
	source := c.(*middleware.AppContext).App.Source

	snap, err := source.LoadSnapshot(ctx, data.BasketID)
	if err != nil {
		logger.Error("[Export] Failed to load snapshot", "basket_id", data.BasketID, "err", err)
		return c.JSON(http.StatusBadGateway, exportResponse{
			Message: "Failed to load basket",
		})
	}

	g := graph.Build(snap, graph.AllVisible())
	g = layout.Apply(g, layout.ParseAlgorithm(data.Algorithm))

	scale := 2.0
	if data.Scale > 0 {
		scale = data.Scale
	}
	img, err := render.RenderPNG(render.Frame{
		Graph:      g,
		Zoom:       1.0,
		ShowLabels: true,
	}, layout.CanvasWidth, layout.CanvasHeight, scale)
	if err != nil {
		logger.Error("[Export] Failed to render basket", "basket_id", data.BasketID, "err", err)
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	key, err := export.UploadSnapshot(ctx, s3Client, data.BasketID, img)
	if err != nil {
		logger.Error("[Export] Failed to upload snapshot", "basket_id", data.BasketID, "err", err)
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}
	url, err := export.PresignDownload(ctx, s3Client, key)
	if err != nil {
		logger.Error("[Export] Failed to presign download", "key", key, "err", err)
		return c.JSON(http.StatusInternalServerError, exportResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, exportResponse{
		Message: "Export created successfully",
		Key:     key,
		URL:     url,
	})
}
