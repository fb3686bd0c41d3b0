package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/types"
)

// MembershipService is the toggle over a (user, recipe) relation. Favorites
// and the shopping cart behave identically, so one generic service covers
// both, parameterized by the relation row type. The only states are absent
// and present; repeating an add or remove that would not transition is an
// explicit conflict, never a silent no-op.
type MembershipService[T models.Membership] struct {
	db      *gorm.DB
	newRow  func(userID, recipeID uint) T
	relName string
}

// NewFavoriteService creates the toggle service over the favorites relation.
func NewFavoriteService(db *gorm.DB) *MembershipService[models.Favorite] {
	return &MembershipService[models.Favorite]{
		db: db,
		newRow: func(userID, recipeID uint) models.Favorite {
			return models.Favorite{UserID: userID, RecipeID: recipeID}
		},
		relName: "favorites",
	}
}

// NewShoppingCartService creates the toggle service over the shopping cart
// relation.
func NewShoppingCartService(db *gorm.DB) *MembershipService[models.ShoppingCart] {
	return &MembershipService[models.ShoppingCart]{
		db: db,
		newRow: func(userID, recipeID uint) models.ShoppingCart {
			return models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
		relName: "shopping cart",
	}
}

// Add inserts the (user, recipe) pair and returns the recipe's compact
// display shape. The existence check and insert run in one transaction; the
// unique index backstops concurrent identical adds, which surface as the
// same conflict error.
func (s *MembershipService[T]) Add(ctx context.Context, userID, recipeID uint) (*types.RecipeCompact, error) {
	var compact types.RecipeCompact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx, recipeID)
		if err != nil {
			return err
		}

		var existing T
		var count int64
		if err := tx.Model(&existing).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return Conflictf("recipe is already in your %s", s.relName)
		}

		row := s.newRow(userID, recipeID)
		if err := tx.Create(&row).Error; err != nil {
			return asConflict(err, "recipe is already in your %s", s.relName)
		}
		compact = renderCompact(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &compact, nil
}

// Remove deletes the (user, recipe) pair. Removing a pair that is not
// present is a conflict.
func (s *MembershipService[T]) Remove(ctx context.Context, userID, recipeID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findRecipe(tx, recipeID); err != nil {
			return err
		}

		var row T
		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return Conflictf("nothing to remove: recipe is not in your %s", s.relName)
		}
		return nil
	})
}
