package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"medbook/internal/app/bootstrap"
)

// Delivery service entrypoint: shipment tracking plus the order-success
// consumer.
func main() {
	log.Println("delivery service starting")
	app, err := bootstrap.BuildDelivery()
	if err != nil {
		log.Fatalf("bootstrap delivery failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("delivery shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("delivery service stopped with error: %v", err)
	}
}
