package server

import (
	"context"

	"gym-agent-be/internal/bootstrap"
	"gym-agent-be/internal/config"
	"gym-agent-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Gym Agent API",
		BodyLimit:    20 * 1024 * 1024, // 20MB uploads
		ErrorHandler: serverutils.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Get("/", Welcome)
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("Server", "Server is running", map[string]interface{}{
		"url": "http://localhost:" + s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Welcome lists the public endpoints.
func Welcome(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"message": "Welcome to the Gym Agent API",
		"endpoints": fiber.Map{
			"Chat":            "/api/v1/chat",
			"Query Agent":     "/api/v1/query",
			"Chat Websocket":  "/api/v1/chat/ws",
			"Upload Document": "/api/v1/documents/upload",
			"Reindex":         "/api/v1/documents/reindex",
			"Manage Classes":  "/api/v1/classes",
		},
	})
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api/v1")

	c.ChatController.RegisterRoutes(api)
	c.ClassController.RegisterRoutes(api)
	c.DocumentController.RegisterRoutes(api)
}
