package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/config"
	"github.com/sashabakes/sasha-bakes/backend/internal/middleware"
	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/service"
	"github.com/sashabakes/sasha-bakes/backend/internal/testhelpers"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
	llm    *testhelpers.MockCompleter
	auth   *service.AuthService
	photos *memoryStorage
}

// memoryStorage keeps uploaded photos in memory.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "https://photos.test/" + key, nil
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	log := zap.NewNop()
	llm := &testhelpers.MockCompleter{}
	photos := &memoryStorage{objects: map[string][]byte{}}

	cache, err := service.NewPromptContextCache()
	require.NoError(t, err)
	prompts := service.NewPromptBuilder(db, cache)
	access := service.NewAccessService(db, log)
	auth := service.NewAuthService(db, nil, service.NewEmailService(&config.Config{}, log), "test-secret", log)

	router := gin.New()
	router.Use(middleware.Recovery(log))
	SetupAPI(router, Dependencies{
		DB:        db,
		Log:       log,
		Auth:      auth,
		Access:    access,
		Recipes:   service.NewRecipeService(db, cache, log),
		BakeBook:  service.NewBakeBookService(db),
		Chat:      service.NewChatService(db, llm, prompts, log),
		Training:  service.NewTrainingService(db, llm, prompts, cache, log),
		Admin:     service.NewAdminService(db, access),
		Community: service.NewCommunityService(db),
		Profile:   service.NewProfileService(db),
		Stores:    service.NewStores(db, cache),
		Photos:    photos,
		Features:  Features{RecipeDetailV2: true},
	})

	return &testAPI{router: router, db: db, llm: llm, auth: auth, photos: photos}
}

// userWithToken creates a user with role and signs a token for them.
func (a *testAPI) userWithToken(t *testing.T, role string) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, a.db, role)
	token, err := a.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestFeatures(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodGet, "/api/v1/features", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var features Features
	decode(t, w, &features)
	assert.True(t, features.RecipeDetailV2)
}

func TestAccessEndpoint(t *testing.T) {
	a := newTestAPI(t)

	t.Run("anonymous", func(t *testing.T) {
		w := a.do(t, http.MethodGet, "/api/v1/access", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var caps types.Capabilities
		decode(t, w, &caps)
		assert.Equal(t, models.RoleUnauthenticated, caps.Role)
		assert.False(t, caps.IsAuthenticated)
		assert.Equal(t, 10, caps.BakeBookLimit)
	})

	t.Run("admin", func(t *testing.T) {
		_, token := a.userWithToken(t, models.RoleAdmin)
		w := a.do(t, http.MethodGet, "/api/v1/access", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var caps types.Capabilities
		decode(t, w, &caps)
		assert.True(t, caps.IsAdmin)
		assert.True(t, caps.HasFullAccess)
		assert.Equal(t, types.UnlimitedBakeBook, caps.BakeBookLimit)
	})

	t.Run("promo lifts free", func(t *testing.T) {
		user, token := a.userWithToken(t, models.RoleFree)
		require.NoError(t, a.db.Create(&models.PromoUser{UserID: user.ID, Note: "launch week"}).Error)

		w := a.do(t, http.MethodGet, "/api/v1/access", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var caps types.Capabilities
		decode(t, w, &caps)
		assert.True(t, caps.HasFullAccess)
		assert.True(t, caps.PromoActive)
	})
}

func TestAuthFlow(t *testing.T) {
	a := newTestAPI(t)

	register := types.RegisterRequest{Name: "Rosa", Email: "rosa@example.com", Password: "sourdough1"}
	w := a.do(t, http.MethodPost, "/api/v1/auth/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered AuthResponse
	decode(t, w, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "rosa@example.com", registered.User.Email)

	w = a.do(t, http.MethodPost, "/api/v1/auth/register", register, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", types.LoginRequest{Email: "rosa@example.com", Password: "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", types.LoginRequest{Email: "rosa@example.com", Password: "sourdough1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var loggedIn AuthResponse
	decode(t, w, &loggedIn)

	w = a.do(t, http.MethodGet, "/api/v1/auth/session", nil, loggedIn.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var session AuthResponse
	decode(t, w, &session)
	require.NotNil(t, session.Access)
	assert.Equal(t, models.RoleFree, session.Access.Role)
	assert.Equal(t, registered.User.ID, session.User.ID)

	w = a.do(t, http.MethodGet, "/api/v1/auth/session", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetRequestDoesNotRevealAccounts(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/auth/password/reset-request", types.PasswordResetRequest{Email: "nobody@example.com"}, "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/auth/password/reset", types.PasswordResetConfirm{Token: "bogus", Password: "newpassword"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProfile(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.userWithToken(t, models.RoleFree)

	name := "Sasha's biggest fan"
	w := a.do(t, http.MethodPut, "/api/v1/profile", types.UpdateProfileRequest{DisplayName: &name}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/v1/profile", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.ProfileSetting
	decode(t, w, &profile)
	assert.Equal(t, name, profile.DisplayName)
}
