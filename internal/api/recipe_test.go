package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/testhelpers"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

func TestRecipeDetailGating(t *testing.T) {
	a := newTestAPI(t)
	loaf := testhelpers.CreateRecipe(t, a.db, "Country Loaf", false)
	kouign := testhelpers.CreateRecipe(t, a.db, "Kouign Amann", true)
	_, freeToken := a.userWithToken(t, models.RoleFree)
	_, paidToken := a.userWithToken(t, models.RolePaid)

	tests := []struct {
		name   string
		recipe *models.Recipe
		token  string
		locked bool
	}{
		{"anonymous", loaf, "", true},
		{"free on regular recipe", loaf, freeToken, false},
		{"free on premium recipe", kouign, freeToken, true},
		{"paid on premium recipe", kouign, paidToken, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(t, http.MethodGet, "/api/v1/recipes/"+tt.recipe.ID.String(), nil, tt.token)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var body map[string]interface{}
			decode(t, w, &body)
			assert.Equal(t, tt.recipe.Title, body["title"])
			assert.Equal(t, tt.recipe.Description, body["description"])
			assert.Equal(t, tt.locked, body["locked"])
			if tt.locked {
				assert.NotContains(t, body, "ingredients")
				assert.NotContains(t, body, "instructions")
				assert.NotEmpty(t, body["locked_reason"])
			} else {
				assert.Len(t, body["ingredients"], 3)
				assert.Len(t, body["instructions"], 3)
			}
		})
	}
}

func TestRecipeListHidesDrafts(t *testing.T) {
	a := newTestAPI(t)
	testhelpers.CreateRecipe(t, a.db, "Focaccia", false)
	draft := testhelpers.CreateRecipe(t, a.db, "Secret Stollen", false)
	require.NoError(t, a.db.Model(draft).Update("is_public", false).Error)
	_, freeToken := a.userWithToken(t, models.RoleFree)
	_, adminToken := a.userWithToken(t, models.RoleAdmin)

	var views []types.RecipeView
	w := a.do(t, http.MethodGet, "/api/v1/recipes?all=true", nil, freeToken)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &views)
	assert.Len(t, views, 1)

	w = a.do(t, http.MethodGet, "/api/v1/recipes?all=true", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &views)
	assert.Len(t, views, 2)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/"+draft.ID.String(), nil, freeToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/recipes?q=focac", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &views)
	require.Len(t, views, 1)
	assert.Equal(t, "Focaccia", views[0].Title)
}

func TestRecipeRatings(t *testing.T) {
	a := newTestAPI(t)
	recipe := testhelpers.CreateRecipe(t, a.db, "Brioche", false)
	_, token := a.userWithToken(t, models.RoleFree)
	path := "/api/v1/recipes/" + recipe.ID.String() + "/ratings"

	w := a.do(t, http.MethodPost, path, types.RatingRequest{Rating: 4}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, path, types.RatingRequest{Rating: 9}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, path, types.RatingRequest{Rating: 4}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = a.do(t, http.MethodPost, path, types.RatingRequest{Rating: 5, Comment: "Even better the second time"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Summary types.RatingSummary   `json:"summary"`
		Ratings []models.RecipeRating `json:"ratings"`
	}
	decode(t, w, &resp)
	assert.Equal(t, int64(1), resp.Summary.Count)
	assert.InDelta(t, 5.0, resp.Summary.Average, 0.001)
	require.Len(t, resp.Ratings, 1)
	assert.Equal(t, "Even better the second time", resp.Ratings[0].Comment)
}

func TestAdminRecipeCRUD(t *testing.T) {
	a := newTestAPI(t)
	_, collabToken := a.userWithToken(t, models.RoleCollaborator)
	_, paidToken := a.userWithToken(t, models.RolePaid)

	req := types.RecipeRequest{
		Title:        "Cinnamon Buns",
		Ingredients:  []string{"flour", "butter", "cinnamon"},
		Instructions: []string{"Roll", "Fill", "Bake"},
		Photos:       []types.PhotoRequest{{URL: "https://img.test/buns.jpg", Caption: "Fresh"}},
	}

	w := a.do(t, http.MethodPost, "/api/v1/admin/recipes", req, paidToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/admin/recipes", req, collabToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Recipe
	decode(t, w, &created)
	assert.Equal(t, "cinnamon-buns", created.Slug)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String()+"/photos", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var photos []models.RecipePhoto
	decode(t, w, &photos)
	require.Len(t, photos, 1)

	req.Title = "Cardamom Buns"
	req.Photos = nil
	w = a.do(t, http.MethodPut, "/api/v1/admin/recipes/"+created.ID.String(), req, collabToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Recipe
	decode(t, w, &updated)
	assert.Equal(t, "Cardamom Buns", updated.Title)

	w = a.do(t, http.MethodDelete, "/api/v1/admin/recipes/"+created.ID.String(), nil, collabToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRecipePhotoUpload(t *testing.T) {
	a := newTestAPI(t)
	recipe := testhelpers.CreateRecipe(t, a.db, "Rye Bread", false)
	_, token := a.userWithToken(t, models.RoleAdmin)

	upload := func(recipeID uuid.UUID, contentType string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="photo"; filename="crumb.png"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("not really a png"))
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("caption", "Open crumb"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/recipes/"+recipeID.String()+"/photos", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		return w
	}

	w := upload(recipe.ID, "text/plain")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload(uuid.New(), "image/png")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, a.photos.count(), "unknown recipe must not reach storage")

	w = upload(recipe.ID, "image/png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var photo models.RecipePhoto
	decode(t, w, &photo)
	assert.Equal(t, "Open crumb", photo.Caption)
	assert.Contains(t, photo.URL, "https://photos.test/recipes/"+recipe.ID.String())
	assert.Contains(t, a.photos.objects, photo.StorageKey)

	t.Run("failed insert removes the stored object", func(t *testing.T) {
		before := a.photos.count()
		require.NoError(t, a.db.Migrator().DropTable(&models.RecipePhoto{}))

		w := upload(recipe.ID, "image/png")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, before, a.photos.count())
	})
}
