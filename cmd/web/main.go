// The web command runs the dashboard server: REST API, chart pages,
// websocket refresh events and Prometheus metrics.
package main

import (
	"context"
	"log/slog"
	"os"

	"gradeviz/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("Application terminated", "error", err)
		os.Exit(1)
	}
}
