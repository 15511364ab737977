package main

import (
	"context"
	"log"
	"os"

	"github.com/dormdeck/dormdeck-backend/internal/adapters/database"
	"github.com/dormdeck/dormdeck-backend/internal/application/services"
	"github.com/dormdeck/dormdeck-backend/internal/domain/entities"
	"github.com/dormdeck/dormdeck-backend/internal/infrastructure/clients/postgres"
	"github.com/dormdeck/dormdeck-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				session_actions,
				sessions,
				providers
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
	}

	registry := services.NewRegistryService(database.NewProviderAdapter(pgClient))

	providers := []*entities.Provider{
		{
			Name:        "Midnight Munchies",
			Category:    entities.CategoryFood,
			Location:    "Hall 5",
			OpenTime:    "18:00",
			CloseTime:   "03:00",
			Description: "Late night snacks, noodles and cold drinks delivered to your door",
			Keywords:    []string{"snacks", "noodles", "maggi", "drinks", "late night"},
			Contact:     "+2348011110001",
			IsActive:    true,
		},
		{
			Name:        "Print Hub",
			Category:    entities.CategoryStationery,
			Location:    "Hall 3",
			OpenTime:    "08:00",
			CloseTime:   "20:00",
			Description: "Printing, binding, photocopies and exam pads",
			Keywords:    []string{"print", "binding", "photocopy", "paper", "assignment"},
			Contact:     "+2348011110002",
			FormURL:     "https://forms.example.com/print-hub",
			IsActive:    true,
		},
		{
			Name:        "Campus Laundry Express",
			Category:    entities.CategoryServices,
			Location:    "Hall 2",
			OpenTime:    "09:00",
			CloseTime:   "18:00",
			Description: "Wash, dry and iron with same-day pickup",
			Keywords:    []string{"laundry", "wash", "iron", "dry cleaning"},
			Contact:     "+2348011110003",
			IsActive:    true,
		},
		{
			Name:        "QuickMeds",
			Category:    entities.CategoryMedicine,
			Location:    "remote",
			OpenTime:    "24/7",
			CloseTime:   "",
			Description: "Over-the-counter medicine and first aid delivered anywhere on campus",
			Keywords:    []string{"paracetamol", "first aid", "medicine", "painkillers"},
			Contact:     "+2348011110004",
			IsActive:    true,
		},
		{
			Name:        "Okada Express",
			Category:    entities.CategoryTransport,
			Location:    "Hall 1",
			OpenTime:    "06:00",
			CloseTime:   "22:00",
			Description: "Bike rides to town and campus gates",
			Keywords:    []string{"ride", "bike", "transport", "town"},
			Contact:     "+2348011110005",
			IsActive:    true,
		},
		{
			Name:        "Sharp Cuts",
			Category:    entities.CategoryServices,
			Location:    "Hall 4",
			OpenTime:    "10:00",
			CloseTime:   "19:00",
			Description: "Barbing and grooming",
			Keywords:    []string{"haircut", "barber", "grooming"},
			Contact:     "+2348011110006",
			IsActive:    true,
		},
	}

	seeded := 0
	for _, p := range providers {
		if err := registry.Register(ctx, p); err != nil {
			log.Printf("Skipping %q: %v", p.Name, err)
			continue
		}
		seeded++
		log.Printf("Seeded provider %d: %s (%s, %s)", p.ID, p.Name, p.Category, p.Location)
	}

	log.Printf("Seeding complete: %d/%d providers", seeded, len(providers))
}
