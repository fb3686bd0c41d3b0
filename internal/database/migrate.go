package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// RunMigrations applies the schema for every domain model.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running schema migrations (%s)", db.Dialector.Name())
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.IngredientToRecipe{},
		&models.TagToRecipe{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
}
