package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"medbook/internal/app/bootstrap"
)

// Orders service entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Run HTTP server, outbox relay and saga consumers until shutdown.
func main() {
	log.Println("orders service starting")
	app, err := bootstrap.BuildOrders()
	if err != nil {
		log.Fatalf("bootstrap orders failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("orders shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("orders service stopped with error: %v", err)
	}
}
