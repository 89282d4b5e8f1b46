// Command server runs the school supply-list HTTP API.
//
// Configuration comes from environment variables (and an optional YAML
// file); see internal/config for the full list. The server applies pending
// database migrations on startup and shuts down gracefully on SIGINT or
// SIGTERM.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/almonteweb/listaescolar-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
