package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "bakes")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("LLM_MAX_TOKENS", "512")
	t.Setenv("FEATURE_RECIPE_DETAIL_V2", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "bakes", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 512, cfg.LLMMaxTokens)
	assert.True(t, cfg.RecipeDetailV2)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Contains(t, cfg.DSN(), "dbname=bakes")
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_PASSWORD", "JWT_SECRET", "LLM_API_KEY", "LLM_API_KEY_FILE", "FEATURE_RECIPE_DETAIL_V2", "LLM_MAX_TOKENS", "LLM_TEMPERATURE", "SERVER_PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "postgres", cfg.DBPassword)
	assert.Equal(t, "dev-jwt-secret", cfg.JWTSecret)
	assert.Equal(t, 1000, cfg.LLMMaxTokens)
	assert.Equal(t, 0.7, cfg.LLMTemperature)
	assert.False(t, cfg.RecipeDetailV2)
}

func TestLoadConfigFromSecrets(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CI", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"DB_PASSWORD", "JWT_SECRET", "LLM_API_KEY", "LLM_API_KEY_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("FEATURE_RECIPE_DETAIL_V2", "maybe")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestPhotoBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		key  string
		want string
	}{
		{
			name: "aws default",
			cfg:  Config{S3Bucket: "photos", AWSRegion: "eu-west-2"},
			key:  "recipes/a.jpg",
			want: "https://photos.s3.eu-west-2.amazonaws.com/recipes/a.jpg",
		},
		{
			name: "custom endpoint uses path style",
			cfg:  Config{S3Bucket: "photos", S3Endpoint: "http://minio:9000/"},
			key:  "recipes/a.jpg",
			want: "http://minio:9000/photos/recipes/a.jpg",
		},
		{
			name: "public url wins",
			cfg:  Config{S3Bucket: "photos", S3Endpoint: "http://minio:9000", S3PublicURL: "https://cdn.sashabakes.com/"},
			key:  "/recipes/a.jpg",
			want: "https://cdn.sashabakes.com/recipes/a.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket := &PhotoBucket{Name: tt.cfg.S3Bucket, BaseURL: photoBaseURL(&tt.cfg)}
			assert.Equal(t, tt.want, bucket.PublicURL(tt.key))
		})
	}
}
