package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
)

// ShoppingListService rolls the viewer's cart up into an aggregated
// ingredient list.
type ShoppingListService struct {
	db *gorm.DB
}

// NewShoppingListService creates a new ShoppingListService instance.
func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// ShoppingListItem is one aggregated ingredient group: same name and unit
// summed across every recipe in the cart.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// Aggregate groups the ingredient lines of every recipe in the user's cart
// by (name, measurement unit) and sums the amounts. Results are ordered by
// ingredient name so the report is deterministic.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uint) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Model(&models.IngredientToRecipe{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_to_recipes.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = ingredient_to_recipes.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = ingredient_to_recipes.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Report renders the aggregated cart as the plain-text download: a header
// with the user's display name and date, one line per ingredient group and a
// footer.
func (s *ShoppingListService) Report(ctx context.Context, userID uint) (string, error) {
	user, err := findUser(s.db.WithContext(ctx), userID)
	if err != nil {
		return "", err
	}
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return "", err
	}

	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list: %s, %s\n\n", user.FullName(), now.Format("02.01.2006"))
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Total)
	}
	fmt.Fprintf(&b, "\nForkful %d", now.Year())
	return b.String(), nil
}

// ReportFilename is the attachment name for the user's shopping list.
func (s *ShoppingListService) ReportFilename(ctx context.Context, userID uint) (string, error) {
	user, err := findUser(s.db.WithContext(ctx), userID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_shopping_cart.txt", user.FirstName, user.LastName), nil
}
