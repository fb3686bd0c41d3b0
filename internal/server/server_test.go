package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkful/backend/config"
	"github.com/forkful/backend/internal/models"
	"github.com/forkful/backend/internal/testhelpers"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	cfg := &config.Config{
		JWTSecret:   "test-secret",
		PageSize:    6,
		MaxPageSize: 100,
	}
	return New(cfg, db, nil, nil).Router(), db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  username,
		"password":   "s3cretpass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, ok := decode(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.Tag, *models.Ingredient) {
	t.Helper()
	tag := models.Tag{Name: "breakfast", Color: "#ff0000", Slug: "breakfast"}
	require.NoError(t, db.Create(&tag).Error)
	ingredient := models.Ingredient{Name: "Flour", MeasurementUnit: "g"}
	require.NoError(t, db.Create(&ingredient).Error)
	return &tag, &ingredient
}

func recipeBody(tag *models.Tag, ingredient *models.Ingredient) gin.H {
	return gin.H{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 20,
		"image":        "https://example.com/p.png",
		"tags":         []uint{tag.ID},
		"ingredients":  []gin.H{{"id": ingredient.ID, "amount": 2}},
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestAuthFlowOverHTTP(t *testing.T) {
	router, _ := newTestServer(t)

	token := registerUser(t, router, "alice")

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode(t, w)["username"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      "alice@example.com",
		"username":   "alice2",
		"first_name": "Test",
		"last_name":  "alice",
		"password":   "s3cretpass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "conflict", decode(t, w)["kind"])
}

func TestRecipeLifecycleOverHTTP(t *testing.T) {
	router, db := newTestServer(t)
	token := registerUser(t, router, "alice")
	tag, ingredient := seedCatalog(t, db)

	// Creation requires auth.
	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes", "", recipeBody(tag, ingredient))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, recipeBody(tag, ingredient))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	recipeID := uint(created["id"].(float64))
	assert.Equal(t, "Pancakes", created["name"])

	// Anonymous read works, with relation flags down.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", recipeID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode(t, w)
	assert.Equal(t, false, got["is_favorited"])
	assert.Equal(t, false, got["is_in_shopping_cart"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["kind"])

	// A second create under the same name answers 400 with the conflict kind.
	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, recipeBody(tag, ingredient))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "conflict", decode(t, w)["kind"])

	// Non-owner update is forbidden.
	intruder := registerUser(t, router, "bob")
	w = doJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/v1/recipes/%d", recipeID), intruder, recipeBody(tag, ingredient))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d", recipeID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRecipeListFiltersOverHTTP(t *testing.T) {
	router, db := newTestServer(t)
	token := registerUser(t, router, "alice")
	tag, ingredient := seedCatalog(t, db)
	dinner := models.Tag{Name: "dinner", Color: "#0000ff", Slug: "dinner"}
	require.NoError(t, db.Create(&dinner).Error)

	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, recipeBody(tag, ingredient))
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := uint(decode(t, w)["id"].(float64))

	body := recipeBody(&dinner, ingredient)
	body["name"] = "Stew"
	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?tags=breakfast", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.EqualValues(t, 1, page["count"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?tags=breakfast&tags=dinner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["count"])

	// Anonymous is_favorited filter passes through without restricting.
	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?is_favorited=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["count"])

	// Same filter restricts for an authenticated viewer.
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/favorite", recipeID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?is_favorited=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["count"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?limit=1&page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode(t, w)
	assert.EqualValues(t, 2, page["count"])
	assert.Len(t, page["results"], 1)
}

func TestFavoriteToggleStatuses(t *testing.T) {
	router, db := newTestServer(t)
	token := registerUser(t, router, "alice")
	tag, ingredient := seedCatalog(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, recipeBody(tag, ingredient))
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := uint(decode(t, w)["id"].(float64))
	path := fmt.Sprintf("/api/v1/recipes/%d/favorite", recipeID)

	w = doJSON(t, router, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	compact := decode(t, w)
	assert.Equal(t, "Pancakes", compact["name"])
	assert.EqualValues(t, 20, compact["cooking_time"])

	w = doJSON(t, router, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "conflict", decode(t, w)["kind"])

	w = doJSON(t, router, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes/9999/shopping_cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	router, db := newTestServer(t)
	token := registerUser(t, router, "alice")
	tag, ingredient := seedCatalog(t, db)

	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes", token, recipeBody(tag, ingredient))
	require.Equal(t, http.StatusCreated, w.Code)
	recipeID := uint(decode(t, w)["id"].(float64))

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/shopping_cart", recipeID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=Test_alice_shopping_cart.txt", w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "Flour (g) - 2")

	// The download is personal, so it needs a token.
	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptionEndpoints(t *testing.T) {
	router, db := newTestServer(t)
	alice := registerUser(t, router, "alice")
	registerUser(t, router, "zoe")
	tag, ingredient := seedCatalog(t, db)

	var chef models.User
	require.NoError(t, db.Where("username = ?", "zoe").First(&chef).Error)

	zoeToken := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "zoe@example.com", "password": "s3cretpass",
	})
	require.Equal(t, http.StatusOK, zoeToken.Code)
	w := doJSON(t, router, http.MethodPost, "/api/v1/recipes", decode(t, zoeToken)["token"].(string), recipeBody(tag, ingredient))
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/v1/subscriptions/%d", chef.ID)

	w = doJSON(t, router, http.MethodPost, path, alice, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	profile := decode(t, w)
	assert.Equal(t, "zoe", profile["username"])
	assert.Equal(t, true, profile["is_subscribed"])
	assert.EqualValues(t, 1, profile["recipes_count"])

	w = doJSON(t, router, http.MethodPost, path, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "conflict", decode(t, w)["kind"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/subscriptions?recipes_limit=1", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)
	assert.EqualValues(t, 1, page["count"])

	w = doJSON(t, router, http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/subscriptions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	router, db := newTestServer(t)
	tag, ingredient := seedCatalog(t, db)
	require.NoError(t, db.Create(&models.Ingredient{Name: "Milk", MeasurementUnit: "ml"}).Error)

	w := doJSON(t, router, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []models.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "breakfast", tags[0].Slug)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/tags/%d", tag.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/tags/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/ingredients?name=fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []models.Ingredient
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Flour", ingredients[0].Name)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/ingredients/%d", ingredient.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
