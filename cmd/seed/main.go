// Command seed populates the database with demo marketplace data.
package main

import (
	"flag"
	"log"

	"bazaar/internal/config"
	"bazaar/internal/database"
	"bazaar/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPublications := flag.Int("publications", 200, "Number of feed publications to create")
	numOffers := flag.Int("offers", 60, "Number of offers to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Printf("Seeding: %d users, %d publications, %d offers, clean=%v",
		*numUsers, *numPublications, *numOffers, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:        *numUsers,
		NumPublications: *numPublications,
		NumOffers:       *numOffers,
		ShouldClean:     *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
