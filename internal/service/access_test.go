package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/testhelpers"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

func TestResolveAccess(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name          string
		snapshot      service.AccessSnapshot
		role          string
		fullAccess    bool
		limit         int
		chatHistory   int
		promoActive   bool
		authenticated bool
	}{
		{
			name:     "unauthenticated",
			snapshot: service.AccessSnapshot{},
			role:     models.RoleUnauthenticated, limit: 10, chatHistory: 10,
		},
		{
			name:     "free",
			snapshot: service.AccessSnapshot{Authenticated: true, Role: models.RoleFree},
			role:     models.RoleFree, limit: 10, chatHistory: 10, authenticated: true,
		},
		{
			name:     "no role row is free",
			snapshot: service.AccessSnapshot{Authenticated: true},
			role:     models.RoleFree, limit: 10, chatHistory: 10, authenticated: true,
		},
		{
			name:     "unknown role is free",
			snapshot: service.AccessSnapshot{Authenticated: true, Role: "superuser"},
			role:     models.RoleFree, limit: 10, chatHistory: 10, authenticated: true,
		},
		{
			name:     "paid",
			snapshot: service.AccessSnapshot{Authenticated: true, Role: models.RolePaid},
			role:     models.RolePaid, fullAccess: true, limit: types.UnlimitedBakeBook, chatHistory: 100, authenticated: true,
		},
		{
			name:     "admin",
			snapshot: service.AccessSnapshot{Authenticated: true, Role: models.RoleAdmin},
			role:     models.RoleAdmin, fullAccess: true, limit: types.UnlimitedBakeBook, chatHistory: 100, authenticated: true,
		},
		{
			name:     "collaborator",
			snapshot: service.AccessSnapshot{Authenticated: true, Role: models.RoleCollaborator},
			role:     models.RoleCollaborator, fullAccess: true, limit: types.UnlimitedBakeBook, chatHistory: 100, authenticated: true,
		},
		{
			name: "free with active promo",
			snapshot: service.AccessSnapshot{Authenticated: true, Role: models.RoleFree,
				Promo: &models.PromoUser{ExpiresAt: &future}},
			role: models.RolePaid, fullAccess: true, limit: types.UnlimitedBakeBook, chatHistory: 100,
			promoActive: true, authenticated: true,
		},
		{
			name: "free with permanent promo",
			snapshot: service.AccessSnapshot{Authenticated: true, Role: models.RoleFree,
				Promo: &models.PromoUser{}},
			role: models.RolePaid, fullAccess: true, limit: types.UnlimitedBakeBook, chatHistory: 100,
			promoActive: true, authenticated: true,
		},
		{
			name: "free with expired promo",
			snapshot: service.AccessSnapshot{Authenticated: true, Role: models.RoleFree,
				Promo: &models.PromoUser{ExpiresAt: &past}},
			role: models.RoleFree, limit: 10, chatHistory: 10, authenticated: true,
		},
		{
			name: "promo never lowers admin",
			snapshot: service.AccessSnapshot{Authenticated: true, Role: models.RoleAdmin,
				Promo: &models.PromoUser{ExpiresAt: &future}},
			role: models.RoleAdmin, fullAccess: true, limit: types.UnlimitedBakeBook, chatHistory: 100,
			promoActive: true, authenticated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := service.ResolveAccess(tt.snapshot, now)
			assert.Equal(t, tt.role, caps.Role)
			assert.Equal(t, tt.fullAccess, caps.HasFullAccess)
			assert.Equal(t, tt.fullAccess, caps.CanUseWishlists)
			assert.Equal(t, tt.limit, caps.BakeBookLimit)
			assert.Equal(t, tt.chatHistory, caps.ChatHistoryLimit)
			assert.Equal(t, tt.promoActive, caps.PromoActive)
			assert.Equal(t, tt.authenticated, caps.IsAuthenticated)
			assert.Equal(t, tt.role == models.RoleAdmin, caps.IsAdmin)
			assert.Equal(t, tt.role == models.RoleCollaborator, caps.IsCollaborator)
		})
	}
}

func TestAccessServiceResolve(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewAccessService(db, zap.NewNop())
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		caps := svc.Resolve(ctx, nil)
		assert.Equal(t, models.RoleUnauthenticated, caps.Role)
		assert.Equal(t, 10, caps.BakeBookLimit)
		assert.False(t, caps.HasFullAccess)
	})

	t.Run("most recent role wins", func(t *testing.T) {
		user := testhelpers.CreateUser(t, db, models.RoleFree)
		time.Sleep(2 * time.Millisecond)
		testhelpers.AddRole(t, db, user.ID, models.RoleAdmin)

		caps := svc.Resolve(ctx, &user.ID)
		assert.Equal(t, models.RoleAdmin, caps.Role)
		assert.True(t, caps.BakeBookUnlimited())
	})

	t.Run("timestamp tie resolves to the least privileged role", func(t *testing.T) {
		user := testhelpers.CreateUser(t, db, "")
		at := time.Now().Add(-time.Minute).UTC()
		for _, role := range []string{models.RoleAdmin, models.RoleFree, models.RoleCollaborator} {
			row := &models.UserRole{UserID: user.ID, Role: role}
			row.CreatedAt = at
			require.NoError(t, db.Create(row).Error)
		}

		caps := svc.Resolve(ctx, &user.ID)
		assert.Equal(t, models.RoleFree, caps.Role)
		assert.False(t, caps.IsAdmin)
	})

	t.Run("active promo lifts free user", func(t *testing.T) {
		user := testhelpers.CreateUser(t, db, models.RoleFree)
		expires := time.Now().Add(24 * time.Hour)
		require.NoError(t, db.Create(&models.PromoUser{UserID: user.ID, ExpiresAt: &expires}).Error)

		caps := svc.Resolve(ctx, &user.ID)
		assert.Equal(t, models.RolePaid, caps.Role)
		assert.True(t, caps.PromoActive)
		require.NotNil(t, caps.PromoExpiresAt)
	})

	t.Run("expired promo is ignored", func(t *testing.T) {
		user := testhelpers.CreateUser(t, db, models.RoleFree)
		expired := time.Now().Add(-time.Hour)
		require.NoError(t, db.Create(&models.PromoUser{UserID: user.ID, ExpiresAt: &expired}).Error)

		caps := svc.Resolve(ctx, &user.ID)
		assert.Equal(t, models.RoleFree, caps.Role)
		assert.False(t, caps.PromoActive)
	})
}

func TestAccessServiceDegradesOnLookupFailure(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	svc := service.NewAccessService(db, zap.NewNop())
	user := testhelpers.CreateUser(t, db, models.RoleAdmin)

	require.NoError(t, db.Migrator().DropTable(&models.UserRole{}))

	userID := user.ID
	caps := svc.Resolve(context.Background(), &userID)
	assert.Equal(t, models.RoleFree, caps.Role)
	assert.False(t, caps.IsAdmin)
	assert.False(t, caps.HasFullAccess)
	assert.Equal(t, 10, caps.BakeBookLimit)

	stranger := uuid.New()
	assert.False(t, svc.Resolve(context.Background(), &stranger).IsAdmin)
}

var testNow = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
