package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Bingham-Research-Center/flightdata/internal/config"
	"github.com/Bingham-Research-Center/flightdata/internal/db"
	"github.com/Bingham-Research-Center/flightdata/internal/nats"
	"github.com/Bingham-Research-Center/flightdata/internal/pipeline"
	"github.com/Bingham-Research-Center/flightdata/internal/storage"
	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

// The decoder consumes raw frames relayed over NATS by the ingestor and
// runs them through the decode pipeline, flushing the session datasets on
// shutdown.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	natsURL := cfg.NATSURL
	if natsURL == "" {
		natsURL = "nats://nats:4222" // Default to Docker service name
	}

	client, err := nats.New(natsURL)
	if err != nil {
		log.Fatalf("Failed to create NATS client: %v", err)
	}
	defer client.Close()

	session := &types.Session{
		ID:        uuid.NewString(),
		Source:    natsURL,
		StartedAt: time.Now().UTC(),
		RefLat:    cfg.RefLat,
		RefLon:    cfg.RefLon,
	}
	log.Printf("Starting decode session %s from %s", session.ID, natsURL)

	pipe := pipeline.New(pipeline.Options{RefLat: cfg.RefLat, RefLon: cfg.RefLon})

	if err := client.SubscribeFrames(func(frame *types.Frame) {
		pipe.Process(*frame)
	}); err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.CaptureDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.CaptureDuration)
		defer cancel()
	}
	<-ctx.Done()

	session.EndedAt = time.Now().UTC()
	log.Println("Shutting down...")

	if err := flush(cfg, session, pipe); err != nil {
		log.Fatalf("Failed to store session: %v", err)
	}
}

func flush(cfg *config.Config, session *types.Session, pipe *pipeline.Pipeline) error {
	core, derived := pipe.Finalize()
	counts := pipe.Stats().Snapshot()

	dir := filepath.Join(cfg.OutputDir, "session-"+session.ID)
	if err := storage.WriteDataset(dir, "core", core); err != nil {
		return err
	}
	if err := storage.WriteDataset(dir, "derived", derived); err != nil {
		return err
	}
	if err := storage.WriteStats(dir, "stats", counts); err != nil {
		return err
	}
	log.Printf("Wrote %d rows to %s", len(core.Rows), dir)

	if cfg.DatabaseURL != "" {
		client, err := db.New(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create database client: %w", err)
		}
		defer client.Close()

		if err := client.CreateSession(session); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		if err := client.StoreCoreDataset(session.ID, core); err != nil {
			return fmt.Errorf("failed to store core dataset: %w", err)
		}
		if err := client.StoreDerivedDataset(session.ID, derived); err != nil {
			return fmt.Errorf("failed to store derived dataset: %w", err)
		}
		if err := client.StoreSessionStats(session.ID, counts); err != nil {
			return fmt.Errorf("failed to store session stats: %w", err)
		}
		if err := client.EndSession(session.ID, session.EndedAt); err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
	}

	fmt.Printf("Session %s statistics:\n%s", session.ID, pipe.Stats())
	return nil
}
