package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sicko7947/petstore"
	"github.com/sicko7947/petstore/handler"
	"github.com/sicko7947/petstore/store"
)

// newApp wires the pets routes onto a Fiber app. Every method is routed to the
// handler so unsupported ones get its 405 response.
func newApp(h *handler.Handler, logger zerolog.Logger) *fiber.App {
	app := fiber.New()

	// Health check endpoint
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "petstore",
		})
	})

	serve := func(c fiber.Ctx) error {
		resp, err := h.Handle(c.Context(), ToProxyRequest(c))
		if err != nil {
			logger.Error().Err(err).Msg("Handler failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
		return WriteProxyResponse(c, resp)
	}

	app.All("/pets", serve)
	app.All("/pets/:"+petstore.PathParamPetID, serve)

	return app
}

func main() {
	cfg, err := petstore.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := petstore.NewLogger(cfg)

	petStore, err := store.Open(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize pet store")
	}

	app := newApp(handler.NewHandler(petStore, handler.WithLogger(logger)), logger)

	// Start server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.ServerAddr).
			Str("store", string(cfg.Store)).
			Msg("Starting HTTP server")
		if err := app.Listen(cfg.ServerAddr); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server stopped")
}
