package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/backend/internal/models"
)

func TestCreateTagValidatesColor(t *testing.T) {
	db := testDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	for _, color := range []string{"#ff0000", "#F0a", "#AABBCC"} {
		err := catalog.CreateTag(ctx, &models.Tag{Name: "n" + color, Color: color, Slug: "s" + color})
		assert.NoError(t, err, color)
	}

	for _, color := range []string{"ff0000", "#ff00", "#gggggg", "red", ""} {
		err := catalog.CreateTag(ctx, &models.Tag{Name: "b" + color, Color: color, Slug: "x" + color})
		require.Error(t, err, color)
		assert.Equal(t, KindValidation, KindOf(err), color)
	}
}

func TestCreateTagDuplicateSlug(t *testing.T) {
	db := testDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	require.NoError(t, catalog.CreateTag(ctx, &models.Tag{Name: "breakfast", Color: "#ff0000", Slug: "breakfast"}))

	err := catalog.CreateTag(ctx, &models.Tag{Name: "brunch", Color: "#00ff00", Slug: "breakfast"})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestListTagsOrderedByName(t *testing.T) {
	db := testDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	seedTag(t, db, "dinner", "#0000ff", "dinner")
	seedTag(t, db, "breakfast", "#ff0000", "breakfast")

	tags, err := catalog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Name)
	assert.Equal(t, "dinner", tags[1].Name)

	got, err := catalog.GetTag(ctx, tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", got.Name)

	_, err = catalog.GetTag(ctx, 9999)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListIngredientsPrefixSearch(t *testing.T) {
	db := testDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	seedIngredient(t, db, "Flour", "g")
	seedIngredient(t, db, "flaxseed", "g")
	seedIngredient(t, db, "Milk", "ml")

	// Prefix match is case-insensitive.
	found, err := catalog.ListIngredients(ctx, "FL")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Flour", found[0].Name)
	assert.Equal(t, "flaxseed", found[1].Name)

	// Not a substring search.
	found, err = catalog.ListIngredients(ctx, "lou")
	require.NoError(t, err)
	assert.Empty(t, found)

	// LIKE metacharacters in the prefix are literal, not wildcards.
	found, err = catalog.ListIngredients(ctx, "f_")
	require.NoError(t, err)
	assert.Empty(t, found)
	found, err = catalog.ListIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found)

	all, err := catalog.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateIngredientDuplicatePair(t *testing.T) {
	db := testDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	require.NoError(t, catalog.CreateIngredient(ctx, &models.Ingredient{Name: "Flour", MeasurementUnit: "g"}))

	err := catalog.CreateIngredient(ctx, &models.Ingredient{Name: "Flour", MeasurementUnit: "g"})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// Same name with another unit is a distinct catalog entry.
	assert.NoError(t, catalog.CreateIngredient(ctx, &models.Ingredient{Name: "Flour", MeasurementUnit: "kg"}))
}

func TestReplaceIngredients(t *testing.T) {
	db := testDB(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	seedIngredient(t, db, "Old", "g")

	err := catalog.ReplaceIngredients(ctx, []models.Ingredient{
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: "Milk", MeasurementUnit: "ml"},
	})
	require.NoError(t, err)

	all, err := catalog.ListIngredients(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Flour", all[0].Name)
	assert.Equal(t, "Milk", all[1].Name)
}
