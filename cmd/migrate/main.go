package main

import (
	"flag"
	"log"

	"github.com/Bingham-Research-Center/flightdata/internal/config"
	"github.com/Bingham-Research-Center/flightdata/internal/db"
)

func main() {
	rollback := flag.Bool("rollback", false, "roll back the last applied migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	client, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create database client: %v", err)
	}
	defer client.Close()

	if *rollback {
		if err := client.RollbackLast(); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		return
	}
	if err := client.Migrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied")
}
