package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/testhelpers"
)

func TestStoreCRUD(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	cache, err := service.NewPromptContextCache()
	require.NoError(t, err)
	stores := service.NewStores(db, cache)
	ctx := context.Background()

	tool := &models.BakingTool{Name: "Bench scraper", PriceRange: "$"}
	require.NoError(t, stores.Tools.Create(ctx, tool))

	cache.Set(service.SectionTools, "cached")
	updated, err := stores.Tools.Update(ctx, tool.ID, &models.BakingTool{Name: "Bench scraper", Description: "Steel"})
	require.NoError(t, err)
	assert.Equal(t, "Steel", updated.Description)
	assert.Empty(t, updated.PriceRange, "update replaces every column")
	assert.Equal(t, tool.ID, updated.ID)
	assert.WithinDuration(t, tool.CreatedAt, updated.CreatedAt, time.Second)
	_, ok := cache.Get(service.SectionTools)
	assert.False(t, ok)

	err = stores.Tools.Create(ctx, &models.BakingTool{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = stores.Tools.Update(ctx, uuid.New(), &models.BakingTool{Name: "x"})
	assert.ErrorIs(t, err, service.ErrNotFound)

	require.NoError(t, stores.Tools.Delete(ctx, tool.ID))
	assert.ErrorIs(t, stores.Tools.Delete(ctx, tool.ID), service.ErrNotFound)
}

func TestStoreTrainingNotes(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	stores := service.NewStores(db, nil)
	ctx := context.Background()

	assert.ErrorIs(t, stores.Notes.Create(ctx, &models.TrainingNote{Category: "gossip", Content: "x"}), service.ErrInvalidInput)

	note := &models.TrainingNote{Category: models.NoteFact, Content: "Sasha lives in Bristol"}
	require.NoError(t, stores.Notes.Create(ctx, note))
	assert.Equal(t, "manual", note.Source)
}

func TestStoreScopes(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	stores := service.NewStores(db, nil)
	ctx := context.Background()

	require.NoError(t, stores.Blog.Create(ctx, &models.BlogPost{Title: "Draft Post"}))
	require.NoError(t, stores.Blog.Create(ctx, &models.BlogPost{Title: "Live Post", IsPublished: true}))

	published, err := stores.Blog.List(ctx, service.Published)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "live-post", published[0].Slug)

	all, err := stores.Blog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
