// Command migrate applies the database schema for Bazaar.
package main

import (
	"flag"
	"fmt"
	"log"

	"bazaar/internal/config"
	"bazaar/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dryRun := flag.Bool("dry-run", false, "List managed models without touching the database")
	flag.Parse()

	if *dryRun {
		for _, m := range database.PersistentModels() {
			fmt.Printf("%T\n", m)
		}
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	log.Println("schema migration completed")
	return nil
}
