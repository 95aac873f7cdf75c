package main

import (
	"fmt"
	"log/slog"
	"time"

	"notehub/cmd/devhub/handlers"
	"notehub/cmd/devhub/handlers/httperr"
	notesHandlers "notehub/cmd/devhub/handlers/notes"
	"notehub/cmd/devhub/middlewares"
	_ "notehub/docs"
	"notehub/internal/clients/memstore"
	"notehub/internal/config"
	"notehub/internal/logger"
	"notehub/internal/services/auth"
	"notehub/internal/services/notestore"
	util "notehub/internal/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	RateLimitExpiration = 1 * time.Minute
	// APIPrefix is where the NoteHub routes live, so a base URL of
	// http://host:port/api matches the public API.
	APIPrefix = "/api"
)

// deps are the shared pieces the router wires together
type deps struct {
	repo     *memstore.NotesRepo
	notesSvc *notestore.Service
	reg      *prometheus.Registry
}

func newDeps(cfg config.Config) deps {
	repo := memstore.NewNotesRepo()
	return deps{
		repo:     repo,
		notesSvc: notestore.NewService(repo, logger.L(), notestore.WithChangeBuffer(cfg.WSOutboxBuffer)),
		reg:      prometheus.NewRegistry(),
	}
}

// setupRouter configures and returns a Fiber app with all routes
func setupRouter(cfg config.Config, d deps) (*fiber.App, error) {
	v, err := util.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("register note validator: %w", err)
	}

	// fail at boot rather than on the first request
	if _, err := auth.NewIssuer(cfg.DevHubJWTSecret, 0, logger.L()); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          httperr.Handler,
		Immutable:             true, // make Fiber copy all request-derived strings
		DisableStartupMessage: true,
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Content-Type, Authorization",
	}))

	if cfg.RouteMetricsEnabled {
		middlewares.AttachMetrics(app, d.reg, d.notesSvc.Watchers)
	}

	app.Get("/healthz", handlers.Healthz(d.repo))

	if cfg.SwaggerEnabled {
		app.Get("/docs/*", swagger.HandlerDefault)
	}

	var api fiber.Router
	if logger.ParseLevel(cfg.LogLevel) == slog.LevelDebug {
		api = app.Group(APIPrefix, fiberlogger.New())
		logger.L().Info("request logging enabled")
	} else {
		api = app.Group(APIPrefix)
	}

	api.Use(middlewares.BuildRateLimiter(cfg.DevHubRatePerMin, RateLimitExpiration))

	notesH := notesHandlers.NewHandlers(d.notesSvc, v)
	notesGrp := api.Group("/notes", middlewares.JWT([]byte(cfg.DevHubJWTSecret)))
	notesGrp.Get("/", notesH.List)
	notesGrp.Post("/", notesH.Create)
	notesGrp.Delete("/:id", notesH.Delete)

	streamH := notesHandlers.NewStreamHandlers(d.notesSvc, cfg.WSMaxSession())
	notesGrp.Get("/stream", streamH.Upgrade, websocket.New(streamH.Stream))

	return app, nil
}
