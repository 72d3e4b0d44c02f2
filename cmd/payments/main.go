package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"medbook/internal/app/bootstrap"
)

// Payments service entrypoint: payment lifecycle plus the pay-request
// consumer.
func main() {
	log.Println("payments service starting")
	app, err := bootstrap.BuildPayments()
	if err != nil {
		log.Fatalf("bootstrap payments failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("payments shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("payments service stopped with error: %v", err)
	}
}
