package models

import "time"

// Favorite marks a recipe bookmarked by a user, unique per (user, recipe).
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_favorites_pair" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:idx_favorites_pair" json:"recipe_id"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCart marks a recipe queued for shopping list aggregation, unique
// per (user, recipe).
type ShoppingCart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_shopping_carts_pair" json:"user_id"`
	RecipeID  uint      `gorm:"not null;index;uniqueIndex:idx_shopping_carts_pair" json:"recipe_id"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Membership constrains the generic toggle service to the two structurally
// identical (user, recipe) relations.
type Membership interface {
	Favorite | ShoppingCart
}
