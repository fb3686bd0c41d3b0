package models

import "time"

// Tag is a recipe category with a display color and URL-safe slug. Color must
// be a HEX code (#abc or #aabbcc); color and slug are unique on their own and
// the (name, color, slug) triple is unique as a whole.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:200;not null;uniqueIndex:idx_tags_identity" json:"name"`
	Color     string    `gorm:"size:7;not null;uniqueIndex;uniqueIndex:idx_tags_identity" json:"color"`
	Slug      string    `gorm:"size:200;not null;uniqueIndex;uniqueIndex:idx_tags_identity" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

// Ingredient is a catalog entry referenced by recipes with a per-recipe
// amount. The (name, measurement_unit) pair is unique.
type Ingredient struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `json:"-"`
	Name            string    `gorm:"size:200;not null;index;uniqueIndex:idx_ingredients_identity" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_ingredients_identity" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
