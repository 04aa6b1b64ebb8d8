package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Bingham-Research-Center/flightdata/internal/beast"
	"github.com/Bingham-Research-Center/flightdata/internal/config"
	"github.com/Bingham-Research-Center/flightdata/internal/db"
	"github.com/Bingham-Research-Center/flightdata/internal/nats"
	"github.com/Bingham-Research-Center/flightdata/internal/pipeline"
	"github.com/Bingham-Research-Center/flightdata/internal/redis"
	"github.com/Bingham-Research-Center/flightdata/internal/storage"
	"github.com/Bingham-Research-Center/flightdata/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Source == "" {
		log.Fatal("SOURCE environment variable is required")
	}

	session := &types.Session{
		ID:        uuid.NewString(),
		Source:    cfg.Source,
		StartedAt: time.Now().UTC(),
		RefLat:    cfg.RefLat,
		RefLon:    cfg.RefLon,
	}
	log.Printf("Starting capture session %s from %s", session.ID, cfg.Source)

	// Optional live-state cache
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache, err = redis.New(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer cache.Close()
	}

	// Optional raw frame relay
	var relay *nats.Client
	if cfg.NATSURL != "" {
		relay, err = nats.New(cfg.NATSURL)
		if err != nil {
			log.Fatalf("Failed to create NATS client: %v", err)
		}
		defer relay.Close()
	}

	opts := pipeline.Options{RefLat: cfg.RefLat, RefLon: cfg.RefLon}
	if cache != nil {
		opts.OnRecord = func(rec types.Record) {
			state := stateFromRecord(rec, session.ID)
			if state == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := cache.StoreAircraftState(ctx, state); err != nil {
				log.Printf("Failed to store aircraft state: %v", err)
			}
		}
	}
	pipe := pipeline.New(opts)

	source := beast.NewSource(cfg.Source)
	if err := source.Start(); err != nil {
		log.Fatalf("Failed to start Beast source: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.CaptureDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.CaptureDuration)
		defer cancel()
	}

	consume(ctx, source, pipe, relay)

	source.Stop()
	session.EndedAt = time.Now().UTC()
	log.Printf("Capture finished after %s", session.EndedAt.Sub(session.StartedAt).Round(time.Second))

	if err := flush(cfg, session, pipe); err != nil {
		log.Fatalf("Failed to store session: %v", err)
	}
}

func consume(ctx context.Context, source *beast.Source, pipe *pipeline.Pipeline, relay *nats.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-source.Frames():
			if !ok {
				return
			}
			pipe.Process(frame)
			if relay != nil {
				if err := relay.PublishFrame(&frame); err != nil {
					log.Printf("Failed to publish frame: %v", err)
				}
			}
		}
	}
}

// flush writes the session datasets to disk and, when a database is
// configured, persists them there too.
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
	log.Printf("Wrote %d core rows and %d derived columns to %s",
		len(core.Rows), len(derived.Columns), dir)

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
	fmt.Fprintf(os.Stdout, "  aircraft with positions: %d\n", pipe.AircraftSeen())
	return nil
}

// stateFromRecord projects a decoded record onto the live aircraft state.
// Records without any state-worthy field are skipped.
func stateFromRecord(rec types.Record, sessionID string) *types.AircraftState {
	icao, _ := rec["icao"].(string)
	if icao == "" {
		return nil
	}
	state := &types.AircraftState{ICAO: icao, SessionID: sessionID}
	if ts, ok := rec["datetime_utc"].(time.Time); ok {
		state.Timestamp = ts
	}

	interesting := false
	if v, ok := rec["callsign"].(string); ok {
		state.Callsign = v
		interesting = true
	}
	if v, ok := rec["altitude"].(float64); ok {
		state.Altitude = v
		interesting = true
	}
	if v, ok := rec["latitude"].(float64); ok {
		state.Latitude = v
		state.Longitude, _ = rec["longitude"].(float64)
		state.PositionType, _ = rec["position_type"].(string)
		interesting = true
	}
	if v, ok := rec["velocity"].([]any); ok && len(v) == 4 {
		state.GroundSpeed, _ = v[0].(float64)
		state.Track, _ = v[1].(float64)
		state.VerticalRate, _ = v[2].(float64)
		interesting = true
	}
	if !interesting {
		return nil
	}
	return state
}
