package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forkful/backend/internal/middleware"
	"github.com/forkful/backend/internal/service"
)

// SubscriptionHandler serves the follower relationship endpoints.
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
	authService   *service.AuthService
	paginator     Paginator
}

func NewSubscriptionHandler(subscriptions *service.SubscriptionService, authService *service.AuthService, paginator Paginator) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		authService:   authService,
		paginator:     paginator,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	subs := router.Group("/subscriptions", middleware.AuthMiddleware(h.authService))
	{
		subs.GET("", h.ListSubscriptions)
		subs.POST("/:id", h.Subscribe)
		subs.DELETE("/:id", h.Unsubscribe)
	}
}

// recipesLimit caps the recipe list embedded in each followee profile,
// client supplied via the recipes_limit query param.
func recipesLimit(c *gin.Context) int {
	if raw := c.Query("recipes_limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return 0
}

func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.subscriptions.Subscribe(c.Request.Context(), *viewer, id, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), *viewer, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	viewer := middleware.ViewerID(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	limit, offset := h.paginator.Parse(c)

	profiles, total, err := h.subscriptions.List(c.Request.Context(), *viewer, recipesLimit(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   total,
		"results": profiles,
	})
}
