package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/types"
)

// RecipeService handles recipe writes, reads and list filtering.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Create stores a recipe with its full tag and ingredient set in one
// transaction and returns the hydrated read shape.
func (s *RecipeService) Create(ctx context.Context, authorID uint, req *types.RecipeRequest) (*types.RecipeDetail, error) {
	if err := validateTags(req.Tags); err != nil {
		return nil, err
	}

	var recipeID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateIngredients(tx, req.Ingredients); err != nil {
			return err
		}

		recipe := models.Recipe{
			Name:        req.Name,
			Text:        req.Text,
			CookingTime: req.CookingTime,
			Image:       req.Image,
			AuthorID:    authorID,
		}
		if req.CookingTime < 1 {
			return Validationf("cooking time must be at least 1 minute")
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return asConflict(err, "you already have a recipe named %q", req.Name)
		}
		recipeID = recipe.ID
		return replaceAssociations(tx, recipe.ID, req.Tags, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, &authorID, recipeID)
}

// Update replaces scalar fields when present and unconditionally resets the
// full tag and ingredient association sets. Both collections must be supplied
// together; the replacement is clear-then-insert, so concurrent editors race
// under last write wins on the whole set.
func (s *RecipeService) Update(ctx context.Context, viewerID, recipeID uint, req *types.RecipeRequest) (*types.RecipeDetail, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Resolve the recipe and check ownership before looking at the
		// payload: a missing recipe is 404 and a foreign one 403, no matter
		// how malformed the request body is.
		recipe, err := findRecipe(tx, recipeID)
		if err != nil {
			return err
		}
		if recipe.AuthorID != viewerID {
			return Permissionf("only the author can edit this recipe")
		}

		if req.Ingredients == nil || req.Tags == nil {
			return Validationf("ingredients and tags must both be supplied on update")
		}
		if err := validateTags(req.Tags); err != nil {
			return err
		}
		if err := validateIngredients(tx, req.Ingredients); err != nil {
			return err
		}

		if req.Name != "" {
			recipe.Name = req.Name
		}
		if req.Text != "" {
			recipe.Text = req.Text
		}
		if req.CookingTime != 0 {
			if req.CookingTime < 1 {
				return Validationf("cooking time must be at least 1 minute")
			}
			recipe.CookingTime = req.CookingTime
		}
		if req.Image != "" {
			recipe.Image = req.Image
		}
		if err := tx.Save(recipe).Error; err != nil {
			return asConflict(err, "you already have a recipe named %q", recipe.Name)
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientToRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.TagToRecipe{}).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, recipe.ID, req.Tags, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, &viewerID, recipeID)
}

// Delete removes a recipe. Only the author may delete it.
func (s *RecipeService) Delete(ctx context.Context, viewerID, recipeID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := findRecipe(tx, recipeID)
		if err != nil {
			return err
		}
		if recipe.AuthorID != viewerID {
			return Permissionf("only the author can delete this recipe")
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.IngredientToRecipe{}).Error; err != nil {
			return err
		}
		// Favorites and cart entries die with the recipe; a membership row
		// pointing at a deleted recipe could never be removed again.
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		// Tag links keep their row and lose the recipe reference.
		if err := tx.Model(&models.TagToRecipe{}).Where("recipe_id = ?", recipe.ID).
			Update("recipe_id", gorm.Expr("NULL")).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, recipe.ID).Error
	})
}

// Get returns the read shape of one recipe as seen by viewerID (nil for
// anonymous viewers).
func (s *RecipeService) Get(ctx context.Context, viewerID *uint, recipeID uint) (*types.RecipeDetail, error) {
	tx := s.db.WithContext(ctx)

	var recipe models.Recipe
	err := preloadRecipe(tx).First(&recipe, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("recipe %d does not exist", recipeID)
	}
	if err != nil {
		return nil, err
	}

	vc, err := viewerContextFor(tx, viewerID, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	detail := renderDetail(&recipe, vc)
	return &detail, nil
}

// List returns recipes matching the filter, newest first, with the total
// match count for pagination. A limit of 0 disables paging.
func (s *RecipeService) List(ctx context.Context, viewerID *uint, filter types.RecipeFilter, limit, offset int) ([]types.RecipeDetail, int64, error) {
	tx := s.db.WithContext(ctx)

	var total int64
	if err := s.filtered(tx, viewerID, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := preloadRecipe(s.filtered(tx, viewerID, filter)).Order("recipes.id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	vc, err := viewerContextFor(tx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	details := make([]types.RecipeDetail, len(recipes))
	for i := range recipes {
		details[i] = renderDetail(&recipes[i], vc)
	}
	return details, total, nil
}

// filtered applies the composable predicate set. The favorited and in-cart
// predicates are ignored for anonymous viewers: neither true nor false
// changes the result, matching the documented pass-through.
func (s *RecipeService) filtered(tx *gorm.DB, viewerID *uint, f types.RecipeFilter) *gorm.DB {
	q := tx.Model(&models.Recipe{})
	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		tagged := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.TagToRecipe{}).
			Select("tag_to_recipes.recipe_id").
			Joins("JOIN tags ON tags.id = tag_to_recipes.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}
	if f.IsFavorited != nil && viewerID != nil {
		sub := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", *viewerID)
		if *f.IsFavorited {
			q = q.Where("recipes.id IN (?)", sub)
		} else {
			q = q.Where("recipes.id NOT IN (?)", sub)
		}
	}
	if f.IsInShoppingCart != nil && viewerID != nil {
		sub := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", *viewerID)
		if *f.IsInShoppingCart {
			q = q.Where("recipes.id IN (?)", sub)
		} else {
			q = q.Where("recipes.id NOT IN (?)", sub)
		}
	}
	return q
}

// validateTags rejects a missing, empty or repeating tag list. Detection is
// first duplicate found, in list order.
func validateTags(tags []uint) error {
	if len(tags) == 0 {
		return Validationf("a recipe must have at least one tag")
	}
	seen := make(map[uint]bool, len(tags))
	for _, id := range tags {
		if seen[id] {
			return Validationf("tags must not repeat for one recipe")
		}
		seen[id] = true
	}
	return nil
}

// validateIngredients checks each entry in list order; the first failing
// entry determines the reported error. An unknown catalog id is a not-found
// error, a bad amount or a repeat is a validation error.
func validateIngredients(tx *gorm.DB, entries []types.IngredientAmount) error {
	if len(entries) == 0 {
		return Validationf("a recipe must have at least one ingredient")
	}
	seen := make(map[uint]bool, len(entries))
	for _, entry := range entries {
		var count int64
		if err := tx.Model(&models.Ingredient{}).Where("id = ?", entry.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return NotFoundf("ingredient %d does not exist", entry.ID)
		}
		if entry.Amount < 1 {
			return Validationf("ingredient amount must be at least 1")
		}
		if seen[entry.ID] {
			return Validationf("an ingredient may appear only once per recipe")
		}
		seen[entry.ID] = true
	}
	return nil
}

// replaceAssociations bulk-creates the junction rows for a recipe. Every tag
// id must exist in the catalog.
func replaceAssociations(tx *gorm.DB, recipeID uint, tags []uint, ingredients []types.IngredientAmount) error {
	var tagCount int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", tags).Count(&tagCount).Error; err != nil {
		return err
	}
	if tagCount != int64(len(tags)) {
		return NotFoundf("one of the referenced tags does not exist")
	}

	tagLinks := make([]models.TagToRecipe, 0, len(tags))
	for _, tagID := range tags {
		id := tagID
		rid := recipeID
		tagLinks = append(tagLinks, models.TagToRecipe{TagID: &id, RecipeID: &rid})
	}
	if err := tx.Create(&tagLinks).Error; err != nil {
		return err
	}

	lines := make([]models.IngredientToRecipe, 0, len(ingredients))
	for _, entry := range ingredients {
		lines = append(lines, models.IngredientToRecipe{
			RecipeID:     recipeID,
			IngredientID: entry.ID,
			Amount:       entry.Amount,
		})
	}
	return tx.Create(&lines).Error
}

func findRecipe(tx *gorm.DB, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := tx.First(&recipe, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundf("recipe %d does not exist", recipeID)
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func preloadRecipe(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredient_to_recipes.ingredient_id")
		}).
		Preload("Ingredients.Ingredient").
		Preload("TagLinks.Tag")
}
