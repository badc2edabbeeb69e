// Command main runs the database seeder for TaskLink.
package main

import (
	"flag"
	"log"

	"tasklink/internal/config"
	"tasklink/internal/database"
	"tasklink/internal/seed"
)

func main() {
	recruiters := flag.Int("recruiters", 10, "Number of recruiter accounts to create")
	jobsPer := flag.Int("jobs", 5, "Number of jobs per recruiter")
	students := flag.Int("students", 30, "Number of student accounts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Use minimum bcrypt cost for seeded passwords")
	dryRun := flag.Bool("dry-run", false, "Generate records without writing them")
	fixtures := flag.String("fixtures", "", "Load accounts and jobs from a YAML fixture file instead of generating them")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var sum *seed.Summary
	if *fixtures != "" {
		log.Printf("Loading fixtures from %s", *fixtures)
		fx, err := seed.LoadFixtures(*fixtures)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		if *shouldClean {
			if err := seed.ClearAll(db); err != nil {
				log.Fatalf("❌ Cleanup failed: %v", err)
			}
		}
		sum, err = seed.ApplyFixtures(db, fx)
		if err != nil {
			log.Fatalf("❌ Fixture seeding failed: %v", err)
		}
	} else {
		sum, err = seed.Seed(db, seed.Options{
			Recruiters:       *recruiters,
			JobsPerRecruiter: *jobsPer,
			Students:         *students,
			ShouldClean:      *shouldClean,
			SeedOptions:      seed.SeedOptions{SkipBcrypt: *fast, DryRun: *dryRun},
		})
		if err != nil {
			log.Fatalf("❌ Seeding failed: %v", err)
		}
	}

	log.Printf("✨ Done: %d recruiters, %d students, %d jobs", sum.Recruiters, sum.Students, sum.Jobs)
	if *fixtures == "" {
		log.Printf("📧 All seeded accounts have the password: %s", seed.DefaultPassword)
	}
}
