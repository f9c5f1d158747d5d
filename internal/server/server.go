package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/substratehq/graphview/internal/export"
	mid "github.com/substratehq/graphview/internal/server/middleware"
	"github.com/substratehq/graphview/internal/server/session"
	"github.com/substratehq/graphview/internal/store"
	substrateclient "github.com/substratehq/graphview/internal/substrate"
	"github.com/substratehq/graphview/internal/util"
	"github.com/substratehq/graphview/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &mid.App{}

	// The substrate API is the primary source; a direct Postgres connection
	// serves read-only deployments without a backend in front of the data.
	if apiURL := util.GetEnv("SUBSTRATE_API_URL"); apiURL != "" {
		client, err := substrateclient.NewClient(substrateclient.NewClientParams{
			BaseURL: apiURL,
			APIKey:  util.GetEnv("SUBSTRATE_API_KEY"),
		})
		if err != nil {
			logger.Fatal("Failed to create substrate client", "err", err)
		}
		app.Source = client
		app.Preview = client
		app.Work = client
	} else if dbURL := util.GetEnv("DATABASE_URL"); dbURL != "" {
		source, err := store.NewPostgresSource(ctx, dbURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", "err", err)
		}
		defer source.Close()
		app.Source = source
		logger.Info("Running against Postgres directly, bulk actions are disabled")
	} else {
		logger.Fatal("Neither SUBSTRATE_API_URL nor DATABASE_URL is set")
	}

	app.S3 = export.NewS3Client(ctx)

	ttl := time.Duration(util.GetEnvInt("SESSION_TTL_MINUTES", 30)) * time.Minute
	renderScale := util.GetEnvFloat("RENDER_SCALE", 1.0)
	sessions := session.NewManager(ttl, renderScale)
	defer sessions.Close()
	app.Sessions = sessions

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
