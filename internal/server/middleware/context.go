package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"

	"github.com/substratehq/graphview/internal/server/session"
	"github.com/substratehq/graphview/pkg/substrate"
)

// App bundles the shared backend handles every request needs. Preview and
// Work are nil when the server runs against a read-only Postgres source; the
// handlers that need them reject with 503 in that configuration.
type App struct {
	Source   substrate.Source
	Preview  session.PreviewClient
	Work     session.WorkClient
	S3       *s3.Client
	Sessions *session.Manager
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
