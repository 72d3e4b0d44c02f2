package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"medbook/internal/app/bootstrap"
)

// Inventory service entrypoint: product catalog, reservation engine and the
// stock consumers.
func main() {
	log.Println("inventory service starting")
	app, err := bootstrap.BuildInventory()
	if err != nil {
		log.Fatalf("bootstrap inventory failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("inventory shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("inventory service stopped with error: %v", err)
	}
}
