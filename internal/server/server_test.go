package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sashabakes/sasha-bakes/backend/config"
	"github.com/sashabakes/sasha-bakes/backend/internal/testhelpers"
)

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupSQLite(t)
	llm := &testhelpers.MockCompleter{}

	cfg := &config.Config{
		ServerHost:     "localhost",
		ServerPort:     "8080",
		JWTSecret:      "test-secret",
		AllowedOrigins: []string{"http://localhost:5173"},
		RecipeDetailV2: true,
	}

	srv, err := New(cfg, db, zap.NewNop(), Options{LLM: llm})
	require.NoError(t, err)
	require.NotNil(t, srv)

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("feature flags come from config", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/features", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"recipe_detail_v2": true}`, w.Body.String())
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/sasha/chat", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("chat without redis is not rate limited", func(t *testing.T) {
		llm.On("Complete", mock.Anything, mock.Anything).Return("Hello!", nil)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sasha/chat",
				strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
			req.Header.Set("Content-Type", "application/json")
			srv.Handler().ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("admin routes require a session", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/recipes/x/photos", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestStopWithoutStart(t *testing.T) {
	srv := &Server{}
	assert.NoError(t, srv.Stop(context.Background()))
}
