// Command main runs the database seeder for chronicle.
package main

import (
	"flag"
	"log"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/middleware"
	"chronicle/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 150, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.InitMiddleware(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(*numUsers, *numPosts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is populated with demo blog data.")
	log.Printf("All generated users share the password: %s", seed.DefaultPassword)
}
