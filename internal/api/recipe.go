package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/service"
	"github.com/forkful/backend/internal/types"
)

// RecipeHandler serves recipe CRUD, the favorite and shopping cart toggles
// and the shopping list download.
type RecipeHandler struct {
	recipes      *service.RecipeService
	favorites    *service.MembershipService[models.Favorite]
	carts        *service.MembershipService[models.ShoppingCart]
	shoppingList *service.ShoppingListService
	images       *service.ImageService
	authService  *service.AuthService
	paginator    Paginator
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	favorites *service.MembershipService[models.Favorite],
	carts *service.MembershipService[models.ShoppingCart],
	shoppingList *service.ShoppingListService,
	images *service.ImageService,
	authService *service.AuthService,
	paginator Paginator,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		favorites:    favorites,
		carts:        carts,
		shoppingList: shoppingList,
		images:       images,
		authService:  authService,
		paginator:    paginator,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		// The :id route also serves /recipes/download_shopping_cart; gin
		// cannot register a literal sibling next to a param segment.
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)
		recipes.POST("", middleware.AuthMiddleware(h.authService), h.CreateRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.authService), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.authService), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.authService), h.AddFavorite)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.authService), h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.authService), h.RemoveFromCart)
	}
}

// parseRecipeFilter reads the composable list predicates from the query
// string: author, tags (repeatable slugs), is_favorited and
// is_in_shopping_cart.
func parseRecipeFilter(c *gin.Context) types.RecipeFilter {
	var filter types.RecipeFilter
	if raw := c.Query("author"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			authorID := uint(id)
			filter.AuthorID = &authorID
		}
	}
	filter.TagSlugs = c.QueryArray("tags")
	filter.IsFavorited = parseFilterBool(c.Query("is_favorited"))
	filter.IsInShoppingCart = parseFilterBool(c.Query("is_in_shopping_cart"))
	return filter
}

func parseFilterBool(raw string) *bool {
	switch raw {
	case "1", "true", "True":
		v := true
		return &v
	case "0", "false", "False":
		v := false
		return &v
	}
	return nil
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	limit, offset := h.paginator.Parse(c)

	details, total, err := h.recipes.List(c.Request.Context(), viewer, parseRecipeFilter(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": details,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	if c.Param("id") == "download_shopping_cart" {
		h.DownloadShoppingCart(c)
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.recipes.Get(c.Request.Context(), middleware.ViewerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.resolveImage(c, &req) {
		return
	}

	detail, err := h.recipes.Create(c.Request.Context(), *viewer, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.resolveImage(c, &req) {
		return
	}

	detail, err := h.recipes.Update(c.Request.Context(), *viewer, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), *viewer, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveImage uploads a base64 image payload and replaces the field with
// the stored reference. Without a configured image service the field is
// passed through as-is.
func (h *RecipeHandler) resolveImage(c *gin.Context, req *types.RecipeRequest) bool {
	if h.images == nil || req.Image == "" {
		return true
	}
	stored, err := h.images.Store(c.Request.Context(), req.Image)
	if err != nil {
		respondError(c, err)
		return false
	}
	req.Image = stored
	return true
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMembership(c, func(userID, recipeID uint) (*types.RecipeCompact, error) {
		return h.favorites.Add(c.Request.Context(), userID, recipeID)
	})
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, func(userID, recipeID uint) error {
		return h.favorites.Remove(c.Request.Context(), userID, recipeID)
	})
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMembership(c, func(userID, recipeID uint) (*types.RecipeCompact, error) {
		return h.carts.Add(c.Request.Context(), userID, recipeID)
	})
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, func(userID, recipeID uint) error {
		return h.carts.Remove(c.Request.Context(), userID, recipeID)
	})
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(userID, recipeID uint) (*types.RecipeCompact, error)) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	compact, err := add(*viewer, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, compact)
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(userID, recipeID uint) error) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := remove(*viewer, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart streams the aggregated shopping list as a plain text
// attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	report, err := h.shoppingList.Report(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	filename, err := h.shoppingList.ReportFilename(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}
