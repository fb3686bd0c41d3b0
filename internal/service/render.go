package service

import (
	"gorm.io/gorm"

	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/types"
)

// viewerContext holds the viewer-relative state (favorites, cart contents,
// followed authors) for a batch of recipes, loaded in three queries instead
// of per row.
type viewerContext struct {
	favorited map[uint]bool
	inCart    map[uint]bool
	following map[uint]bool
}

// viewerContextFor loads the viewer context for the given recipes. For
// anonymous viewers everything renders false.
func viewerContextFor(tx *gorm.DB, viewerID *uint, recipes []models.Recipe) (*viewerContext, error) {
	vc := &viewerContext{
		favorited: make(map[uint]bool),
		inCart:    make(map[uint]bool),
		following: make(map[uint]bool),
	}
	if viewerID == nil || len(recipes) == 0 {
		return vc, nil
	}

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		authorIDs = append(authorIDs, recipes[i].AuthorID)
	}

	var favorites []models.Favorite
	if err := tx.Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).Find(&favorites).Error; err != nil {
		return nil, err
	}
	for _, f := range favorites {
		vc.favorited[f.RecipeID] = true
	}

	var carts []models.ShoppingCart
	if err := tx.Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).Find(&carts).Error; err != nil {
		return nil, err
	}
	for _, c := range carts {
		vc.inCart[c.RecipeID] = true
	}

	var subs []models.Subscription
	if err := tx.Where("follower_id = ? AND following_id IN ?", *viewerID, authorIDs).Find(&subs).Error; err != nil {
		return nil, err
	}
	for _, s := range subs {
		vc.following[s.FollowingID] = true
	}
	return vc, nil
}

func renderProfile(u *models.User, isSubscribed bool) types.UserProfile {
	return types.UserProfile{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func renderCompact(r *models.Recipe) types.RecipeCompact {
	return types.RecipeCompact{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// renderDetail maps a preloaded recipe to the read shape. Tag links whose tag
// was soft-unlinked carry a nil Tag and are skipped.
func renderDetail(r *models.Recipe, vc *viewerContext) types.RecipeDetail {
	tags := make([]types.TagResponse, 0, len(r.TagLinks))
	for _, link := range r.TagLinks {
		if link.Tag == nil {
			continue
		}
		tags = append(tags, types.TagResponse{
			ID:    link.Tag.ID,
			Name:  link.Tag.Name,
			Color: link.Tag.Color,
			Slug:  link.Tag.Slug,
		})
	}

	ingredients := make([]types.RecipeIngredient, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		ingredients = append(ingredients, types.RecipeIngredient{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	return types.RecipeDetail{
		ID:               r.ID,
		Author:           renderProfile(&r.Author, vc.following[r.AuthorID]),
		Tags:             tags,
		Ingredients:      ingredients,
		Image:            r.Image,
		Name:             r.Name,
		CookingTime:      r.CookingTime,
		IsFavorited:      vc.favorited[r.ID],
		IsInShoppingCart: vc.inCart[r.ID],
		Text:             r.Text,
	}
}
