package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"eventhub/internal/inventory"
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting EventHub database seeder...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding events...")
	if err := seeder.SeedEvents(); err != nil {
		log.Fatalf("Failed to seed events: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payments",
		"bookings",
		"event_inventories",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedEvents creates a spread of published sample events
func (s *Seeder) SeedEvents() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	samples := []inventory.EventInventory{
		{
			Name:           "Go Meetup: Concurrency Patterns",
			Venue:          "TechHub Auditorium",
			EventDateTime:  now.Add(7 * 24 * time.Hour),
			TotalSeats:     120,
			AvailableSeats: 120,
			UnitPrice:      decimal.RequireFromString("15.00"),
			IsActive:       true,
		},
		{
			Name:           "Indie Rock Night",
			Venue:          "Riverside Arena",
			EventDateTime:  now.Add(14 * 24 * time.Hour),
			TotalSeats:     2500,
			AvailableSeats: 2500,
			UnitPrice:      decimal.RequireFromString("85.50"),
			IsActive:       true,
		},
		{
			Name:           "Stand-up Comedy Special",
			Venue:          "Laugh Factory Downtown",
			EventDateTime:  now.Add(3 * 24 * time.Hour),
			TotalSeats:     300,
			AvailableSeats: 300,
			UnitPrice:      decimal.RequireFromString("42.00"),
			IsActive:       true,
		},
		{
			Name:           "Symphony Orchestra Gala",
			Venue:          "Grand Concert Hall",
			EventDateTime:  now.Add(30 * 24 * time.Hour),
			TotalSeats:     1800,
			AvailableSeats: 1800,
			UnitPrice:      decimal.RequireFromString("150.00"),
			IsActive:       true,
		},
		{
			// Draft event, not yet open for booking
			Name:           "Winter Food Festival",
			Venue:          "Central Park Grounds",
			EventDateTime:  now.Add(60 * 24 * time.Hour),
			TotalSeats:     5000,
			AvailableSeats: 5000,
			UnitPrice:      decimal.RequireFromString("10.00"),
			IsActive:       false,
		},
	}

	for i := range samples {
		if err := s.db.GetPostgreSQL().WithContext(ctx).Create(&samples[i]).Error; err != nil {
			return fmt.Errorf("create event %q: %w", samples[i].Name, err)
		}
		fmt.Printf("  seeded %q (%d seats at %s)\n", samples[i].Name, samples[i].TotalSeats, samples[i].UnitPrice.StringFixed(2))
	}

	return nil
}
