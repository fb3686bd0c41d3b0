package models

import "time"

// Recipe is a dish published by an author. A recipe always carries at least
// one tag and one ingredient; that invariant is enforced at write time by the
// recipe service, not by a database constraint. Recipe names are unique per
// author and listings default to newest first.
type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"size:200;not null;index;uniqueIndex:idx_recipes_author_name" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	Image       string    `gorm:"size:255" json:"image"`
	AuthorID    uint      `gorm:"not null;uniqueIndex:idx_recipes_author_name" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"-"`

	Ingredients []IngredientToRecipe `gorm:"foreignKey:RecipeID" json:"-"`
	TagLinks    []TagToRecipe        `gorm:"foreignKey:RecipeID" json:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// IngredientToRecipe joins a recipe to an ingredient with the amount used.
type IngredientToRecipe struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	RecipeID     uint       `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"recipe_id"`
	IngredientID uint       `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
	Amount       int        `gorm:"not null;check:amount >= 1" json:"amount"`
}

func (IngredientToRecipe) TableName() string {
	return "ingredient_to_recipes"
}

// TagToRecipe joins a recipe to a tag. Both sides are nullable: deleting a tag
// or a recipe nulls the reference instead of cascading, so the link row
// survives as a soft unlink.
type TagToRecipe struct {
	ID       uint  `gorm:"primarykey" json:"id"`
	TagID    *uint `gorm:"index;constraint:OnDelete:SET NULL" json:"tag_id"`
	Tag      *Tag  `gorm:"foreignKey:TagID" json:"-"`
	RecipeID *uint `gorm:"index;constraint:OnDelete:SET NULL" json:"recipe_id"`
}

func (TagToRecipe) TableName() string {
	return "tag_to_recipes"
}
