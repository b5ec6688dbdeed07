package services

import (
	"context"
	"strings"
	"testing"

	"github.com/kgn-corner/restaurant-api/models"
	"github.com/kgn-corner/restaurant-api/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func menuInput(name, category, price string) MenuItemInput {
	desc := name + " with house sauce"
	p := decimal.RequireFromString(price)
	return MenuItemInput{Name: &name, Description: &desc, Category: &category, Price: &p}
}

func TestCreateMenuItemDefaults(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	item, err := CreateMenuItem(ctx, env.db, menuInput("Hakka Noodles", models.CategoryNoodles, "11.5"))
	require.NoError(t, err)
	assert.True(t, item.IsAvailable)
	assert.Equal(t, models.DefaultPreparationTime, item.PreparationTime)
	assert.Equal(t, "11.50", item.Price.StringFixed(2))
	assert.Empty(t, item.DietaryTags)

	unavailable := false
	in := menuInput("Seasonal Soup", models.CategoryAppetizers, "6")
	in.IsAvailable = &unavailable
	soup, err := CreateMenuItem(ctx, env.db, in)
	require.NoError(t, err)

	var stored models.MenuItem
	require.NoError(t, env.db.First(&stored, soup.ID).Error)
	assert.False(t, stored.IsAvailable, "an explicit false survives the insert")

	invalid := []MenuItemInput{
		menuInput("Dish", "pizza", "10"),
		menuInput("Dish", models.CategoryMains, "-1"),
		{Name: stringPtr("Only a name")},
		func() MenuItemInput {
			in := menuInput("Dish", models.CategoryMains, "10")
			in.DietaryTags = &[]string{"keto"}
			return in
		}(),
	}
	for i, in := range invalid {
		_, err := CreateMenuItem(ctx, env.db, in)
		assert.True(t, IsKind(err, KindValidation), "case %d: %v", i, err)
	}
}

func TestListMenuFiltersAndSorts(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	for _, in := range []MenuItemInput{
		menuInput("Spring Rolls", models.CategoryAppetizers, "6"),
		menuInput("Chilli Chicken", models.CategoryMains, "13"),
		menuInput("Beef Chow Mein", models.CategoryNoodles, "12"),
		menuInput("Apple Fritters", models.CategoryDesserts, "5"),
		menuInput("Baby Corn Manchurian", models.CategoryMains, "11"),
	} {
		_, err := CreateMenuItem(ctx, env.db, in)
		require.NoError(t, err)
	}
	unavailable := false
	_, err := UpdateMenuItem(ctx, env.db, 2, MenuItemInput{IsAvailable: &unavailable})
	require.NoError(t, err)

	all, err := ListMenu(ctx, env.db, MenuFilter{})
	require.NoError(t, err)
	var names []string
	for _, item := range all {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Spring Rolls", "Apple Fritters", "Baby Corn Manchurian", "Chilli Chicken", "Beef Chow Mein"}, names)

	mains, err := ListMenu(ctx, env.db, MenuFilter{Category: models.CategoryMains})
	require.NoError(t, err)
	assert.Len(t, mains, 2)

	available := true
	onlyAvailable, err := ListMenu(ctx, env.db, MenuFilter{Available: &available})
	require.NoError(t, err)
	assert.Len(t, onlyAvailable, 4)

	_, err = CreateMenuItem(ctx, env.db, menuInput("Dan Dan Tofu", models.CategoryMains, "10"))
	require.NoError(t, err)
	availableMains, err := ListMenu(ctx, env.db, MenuFilter{Category: models.CategoryMains, Available: &available})
	require.NoError(t, err)
	names = nil
	for _, item := range availableMains {
		assert.Equal(t, models.CategoryMains, item.Category)
		assert.True(t, item.IsAvailable)
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Baby Corn Manchurian", "Dan Dan Tofu"}, names)

	_, err = ListMenu(ctx, env.db, MenuFilter{Category: "pizza"})
	assert.True(t, IsKind(err, KindValidation))

	_, err = GetMenuItem(ctx, env.db, 999)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestRecommendationsOnlyAvailable(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	yes, no := true, false
	rec := menuInput("Chef Special Fish", models.CategoryMains, "18")
	rec.IsChefRecommendation = &yes
	_, err := CreateMenuItem(ctx, env.db, rec)
	require.NoError(t, err)

	hidden := menuInput("Sold Out Duck", models.CategoryMains, "22")
	hidden.IsChefRecommendation = &yes
	hidden.IsAvailable = &no
	_, err = CreateMenuItem(ctx, env.db, hidden)
	require.NoError(t, err)

	_, err = CreateMenuItem(ctx, env.db, menuInput("Plain Rice", models.CategoryRice, "3"))
	require.NoError(t, err)

	items, err := ListRecommendations(ctx, env.db)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Chef Special Fish", items[0].Name)
}

func TestMenuReadsAreCachedUntilWrite(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	cache, _ := newMiniredisCache(t)
	SetMenuCache(cache)

	testutil.CreateMenuItem(t, env.db, "Sweet Corn Soup", "5.00")

	first, err := ListMenu(ctx, env.db, MenuFilter{})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// bypasses the service so the cache is not invalidated
	testutil.CreateMenuItem(t, env.db, "Hot and Sour Soup", "5.50")
	cached, err := ListMenu(ctx, env.db, MenuFilter{})
	require.NoError(t, err)
	assert.Len(t, cached, 1, "served from cache")

	_, err = CreateMenuItem(ctx, env.db, menuInput("Wonton Soup", models.CategoryAppetizers, "6"))
	require.NoError(t, err)
	fresh, err := ListMenu(ctx, env.db, MenuFilter{})
	require.NoError(t, err)
	assert.Len(t, fresh, 3, "writes invalidate cached reads")
}

func TestUploadMenuImage(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	item := testutil.CreateMenuItem(t, env.db, "Dim Sum Platter", "14.00")

	t.Run("storage not configured", func(t *testing.T) {
		_, err := UploadMenuImage(ctx, env.db, item.ID, testutil.ImageFileHeader(t, "dimsum.png", testutil.PNGBytes))
		se, ok := AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, KindUnavailable, se.Kind)
		assert.Equal(t, "STORAGE_UNAVAILABLE", se.Code)
	})

	storage := NewMockS3Service()
	storage.SetAsMockForTesting()

	t.Run("upload replaces the previous image", func(t *testing.T) {
		first, err := UploadMenuImage(ctx, env.db, item.ID, testutil.ImageFileHeader(t, "dimsum.png", testutil.PNGBytes))
		require.NoError(t, err)
		require.NotNil(t, first.ImageKey)
		firstKey := *first.ImageKey
		assert.True(t, strings.HasPrefix(firstKey, "menu/"))
		assert.True(t, storage.FileExists(firstKey))
		assert.Equal(t, "image/png", storage.ContentType(firstKey))
		require.NotNil(t, first.ImageURL)
		assert.Contains(t, *first.ImageURL, firstKey)

		second, err := UploadMenuImage(ctx, env.db, item.ID, testutil.ImageFileHeader(t, "dimsum-v2.png", testutil.PNGBytes))
		require.NoError(t, err)
		assert.NotEqual(t, firstKey, *second.ImageKey)
		assert.False(t, storage.FileExists(firstKey), "old image removed")
		assert.Len(t, storage.Keys(), 1)

		got, err := GetMenuItem(ctx, env.db, item.ID)
		require.NoError(t, err)
		require.NotNil(t, got.ImageURL)
	})

	t.Run("rejected file", func(t *testing.T) {
		_, err := UploadMenuImage(ctx, env.db, item.ID, testutil.ImageFileHeader(t, "menu.pdf", []byte("%PDF-1.4")))
		se, ok := AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, KindValidation, se.Kind)
		assert.Equal(t, "INVALID_FILE_FORMAT", se.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := UploadMenuImage(ctx, env.db, 999, testutil.ImageFileHeader(t, "x.png", testutil.PNGBytes))
		assert.True(t, IsKind(err, KindNotFound))
	})

	t.Run("delete removes stored image", func(t *testing.T) {
		require.NoError(t, DeleteMenuItem(ctx, env.db, item.ID))
		assert.Empty(t, storage.Keys())
		assert.True(t, IsKind(DeleteMenuItem(ctx, env.db, item.ID), KindNotFound))
	})
}
