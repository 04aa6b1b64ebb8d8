package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Bingham-Research-Center/flightdata/internal/beast"
	"github.com/Bingham-Research-Center/flightdata/internal/config"
	"github.com/Bingham-Research-Center/flightdata/internal/nats"
	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

// NATSClient interface for testability
type NATSClient interface {
	PublishFrame(frame *types.Frame) error
	Close()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Source == "" {
		log.Fatal("SOURCE environment variable is required")
	}

	natsURL := cfg.NATSURL
	if natsURL == "" {
		natsURL = "nats://nats:4222" // Default to Docker service name
	}

	client, err := nats.New(natsURL)
	if err != nil {
		log.Printf("Failed to create NATS client: %v", err)
		os.Exit(1)
	}
	defer client.Close()

	source := beast.NewSource(cfg.Source)
	if err := source.Start(); err != nil {
		log.Fatalf("Failed to start Beast source: %v", err)
	}

	done := make(chan struct{})
	go relayFrames(source, client, done)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	source.Stop()
	<-done
}

func relayFrames(source *beast.Source, client NATSClient, done chan<- struct{}) {
	defer close(done)
	for frame := range source.Frames() {
		f := frame
		if err := client.PublishFrame(&f); err != nil {
			log.Printf("Failed to publish frame: %v", err)
		}
	}
}
