package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/testhelpers"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

func TestGateRecipe(t *testing.T) {
	recipe := &models.Recipe{
		Title:        "Lemon Drizzle",
		Description:  "Zesty loaf cake",
		Ingredients:  models.JSONBStringArray{"lemons"},
		Instructions: models.JSONBStringArray{"bake"},
		IsPublic:     true,
	}
	premium := *recipe
	premium.IsPremium = true

	anon := service.ResolveAccess(service.AccessSnapshot{}, testNow)
	free := capsFor(models.RoleFree)
	paid := capsFor(models.RolePaid)

	view := service.GateRecipe(recipe, anon)
	assert.True(t, view.Locked)
	assert.NotEmpty(t, view.LockedReason)
	assert.Equal(t, "Lemon Drizzle", view.Title)
	assert.Equal(t, "Zesty loaf cake", view.Description)
	assert.Nil(t, view.Ingredients)
	assert.Nil(t, view.Instructions)

	view = service.GateRecipe(recipe, free)
	assert.False(t, view.Locked)
	assert.Equal(t, []string{"lemons"}, view.Ingredients)

	view = service.GateRecipe(&premium, free)
	assert.True(t, view.Locked)
	assert.Nil(t, view.Ingredients)

	view = service.GateRecipe(&premium, paid)
	assert.False(t, view.Locked)
	assert.Equal(t, []string{"bake"}, view.Instructions)
}

func TestRecipeCRUD(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	cache, err := service.NewPromptContextCache()
	require.NoError(t, err)
	svc := service.NewRecipeService(db, cache, zap.NewNop())
	ctx := context.Background()
	admin := testhelpers.CreateUser(t, db, models.RoleAdmin)

	private := false
	created, err := svc.Create(ctx, admin.ID, &types.RecipeRequest{
		Title:        "Cinnamon Rolls",
		Ingredients:  []string{"flour", "cinnamon"},
		Instructions: []string{"roll", "bake"},
		IsPublic:     &private,
		Photos: []types.PhotoRequest{
			{URL: "https://cdn.example.com/1.jpg", Caption: "before"},
			{URL: "https://cdn.example.com/2.jpg", Caption: "after"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "cinnamon-rolls", created.Slug)
	assert.False(t, created.IsPublic)
	require.Len(t, created.Photos, 2)
	assert.Equal(t, "after", created.Photos[1].Caption)

	_, err = svc.Get(ctx, created.ID, capsFor(models.RolePaid))
	assert.ErrorIs(t, err, service.ErrNotFound, "private recipes are hidden from non-managers")

	public := true
	cache.Set(service.SectionRecipes, "stale")
	updated, err := svc.Update(ctx, created.ID, &types.RecipeRequest{
		Title:    "Cinnamon Rolls",
		IsPublic: &public,
		Photos:   []types.PhotoRequest{{URL: "https://cdn.example.com/3.jpg"}},
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPublic)
	require.Len(t, updated.Photos, 1)
	_, ok := cache.Get(service.SectionRecipes)
	assert.False(t, ok, "recipe writes drop the cached prompt section")

	photo, err := svc.AddPhoto(ctx, created.ID, "https://cdn.example.com/4.jpg", "recipes/x.jpg", "glazed")
	require.NoError(t, err)
	assert.Equal(t, 1, photo.Position)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), service.ErrNotFound)
}

func TestRecipeListAndSearch(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewRecipeService(db, nil, zap.NewNop())
	testhelpers.CreateRecipe(t, db, "Sourdough Boule", false)
	testhelpers.CreateRecipe(t, db, "Chocolate Babka", true)
	hidden := testhelpers.CreateRecipe(t, db, "Secret Sourdough", false)
	require.NoError(t, db.Model(hidden).Update("is_public", false).Error)

	all, err := svc.List(context.Background(), types.RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := svc.List(context.Background(), types.RecipeFilter{Query: "sourdough"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Sourdough Boule", found[0].Title)

	withPrivate, err := svc.List(context.Background(), types.RecipeFilter{Query: "sourdough", IncludePrivate: true})
	require.NoError(t, err)
	assert.Len(t, withPrivate, 2)
}

func TestRecipeRatingsUpsert(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewRecipeService(db, nil, zap.NewNop())
	ctx := context.Background()
	recipe := testhelpers.CreateRecipe(t, db, "Pavlova", false)
	alice := testhelpers.CreateUser(t, db, models.RoleFree)
	bob := testhelpers.CreateUser(t, db, models.RoleFree)

	_, err := svc.Rate(ctx, alice.ID, recipe.ID, &types.RatingRequest{Rating: 2})
	require.NoError(t, err)
	rating, err := svc.Rate(ctx, alice.ID, recipe.ID, &types.RatingRequest{Rating: 4, Comment: "better second time"})
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Rating)
	_, err = svc.Rate(ctx, bob.ID, recipe.ID, &types.RatingRequest{Rating: 5})
	require.NoError(t, err)

	summary, err := svc.RatingSummary(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)

	view, err := svc.View(ctx, recipe.ID, service.ResolveAccess(service.AccessSnapshot{}, testNow))
	require.NoError(t, err)
	assert.True(t, view.Locked)
	assert.Equal(t, int64(2), view.Rating.Count)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "grandma-s-apple-pie", service.Slugify("Grandma's Apple Pie!"))
	assert.Equal(t, "creme-brulee-2", service.Slugify("  Creme  Brulee #2 "))
	assert.Equal(t, "", service.Slugify("!!!"))
}
