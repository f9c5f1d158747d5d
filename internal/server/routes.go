package server

import (
	"github.com/substratehq/graphview/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Basket graph routes
	apiRoutes.GET("/baskets/:id/graph", routes.GetBasketGraphHandler)
	apiRoutes.GET("/baskets/:id/graph.png", routes.GetBasketGraphImageHandler)
	apiRoutes.POST("/baskets/:id/export", routes.ExportBasketGraphHandler)

	// Session lifecycle routes
	apiRoutes.POST("/sessions", routes.CreateSessionHandler)
	apiRoutes.GET("/sessions/:id", routes.GetSessionHandler)
	apiRoutes.DELETE("/sessions/:id", routes.DeleteSessionHandler)
	apiRoutes.GET("/sessions/:id/frame.png", routes.GetSessionFrameHandler)

	// Session interaction routes
	apiRoutes.POST("/sessions/:id/click", routes.ClickSessionHandler)
	apiRoutes.POST("/sessions/:id/mode", routes.SetSessionModeHandler)
	apiRoutes.POST("/sessions/:id/zoom", routes.ZoomSessionHandler)
	apiRoutes.POST("/sessions/:id/layout", routes.SetSessionLayoutHandler)
	apiRoutes.POST("/sessions/:id/toggles", routes.SetSessionTogglesHandler)
	apiRoutes.POST("/sessions/:id/reset", routes.ResetSessionHandler)
	apiRoutes.POST("/sessions/:id/reload", routes.ReloadSessionHandler)

	// Bulk action routes
	apiRoutes.POST("/sessions/:id/preview", routes.PreviewSessionHandler)
	apiRoutes.POST("/sessions/:id/submit", routes.SubmitSessionHandler)
}
