package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/database"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/service"
)

// Loads the ingredient catalog from a name,measurement_unit CSV file,
// replacing whatever is currently stored.
func main() {
	path := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}

	ingredients := make([]models.Ingredient, 0, len(records))
	for _, row := range records {
		if len(row) < 2 {
			continue
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:            row[0],
			MeasurementUnit: row[1],
		})
	}

	catalog := service.NewCatalogService(db)
	if err := catalog.ReplaceIngredients(context.Background(), ingredients); err != nil {
		log.Fatalf("Failed to load ingredients: %v", err)
	}
	log.Printf("Loaded %d ingredients from %s", len(ingredients), *path)
}
