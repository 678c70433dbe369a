package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

func TestPublicContentOnlyShowsPublished(t *testing.T) {
	a := newTestAPI(t)
	require.NoError(t, a.db.Create(&models.BlogPost{Title: "Why I bake", Slug: "why-i-bake", IsPublished: true}).Error)
	require.NoError(t, a.db.Create(&models.BlogPost{Title: "Coming soon", Slug: "coming-soon"}).Error)
	require.NoError(t, a.db.Create(&models.WellnessItem{Title: "Stretch before kneading", IsPublished: true}).Error)
	require.NoError(t, a.db.Create(&models.WellnessItem{Title: "Draft"}).Error)

	var posts []models.BlogPost
	w := a.do(t, http.MethodGet, "/api/v1/blog", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, "why-i-bake", posts[0].Slug)

	w = a.do(t, http.MethodGet, "/api/v1/blog/why-i-bake", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, http.MethodGet, "/api/v1/blog/coming-soon", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var items []models.WellnessItem
	w = a.do(t, http.MethodGet, "/api/v1/wellness", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Stretch before kneading", items[0].Title)
}

func TestSupportLinks(t *testing.T) {
	a := newTestAPI(t)
	enabled := models.SupportSetting{Platform: "ko-fi", URL: "https://ko-fi.test/sasha", Enabled: true}
	disabled := models.SupportSetting{Platform: "patreon", URL: "https://patreon.test/sasha"}
	require.NoError(t, a.db.Create(&enabled).Error)
	require.NoError(t, a.db.Create(&disabled).Error)
	require.NoError(t, a.db.Model(&disabled).Update("enabled", false).Error)

	var settings []models.SupportSetting
	w := a.do(t, http.MethodGet, "/api/v1/support", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &settings)
	require.Len(t, settings, 1)
	assert.Equal(t, "ko-fi", settings[0].Platform)

	w = a.do(t, http.MethodPost, "/api/v1/support/"+enabled.ID.String()+"/click", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(t, http.MethodPost, "/api/v1/support/"+disabled.ID.String()+"/click", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(t, http.MethodPost, "/api/v1/support/not-a-uuid/click", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var clicks int64
	require.NoError(t, a.db.Model(&models.SupportClick{}).Count(&clicks).Error)
	assert.Equal(t, int64(1), clicks)
}

func TestForumPostsAndModeration(t *testing.T) {
	a := newTestAPI(t)
	_, authorToken := a.userWithToken(t, models.RoleFree)
	_, otherToken := a.userWithToken(t, models.RolePaid)
	_, adminToken := a.userWithToken(t, models.RoleAdmin)

	post := types.ForumPostRequest{Title: "My starter smells like nail polish", Body: "Help?", Category: "sourdough"}
	w := a.do(t, http.MethodPost, "/api/v1/forum/posts", post, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/forum/posts", post, authorToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.ForumPost
	decode(t, w, &created)

	w = a.do(t, http.MethodPost, "/api/v1/forum/posts/"+created.ID.String()+"/comments",
		types.ForumCommentRequest{Body: "Feed it more often."}, otherToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/v1/forum/posts/"+created.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.ForumPost
	decode(t, w, &fetched)
	require.Len(t, fetched.Comments, 1)

	w = a.do(t, http.MethodGet, "/api/v1/forum/posts?category=sourdough", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.ForumPost
	decode(t, w, &listed)
	assert.Len(t, listed, 1)

	w = a.do(t, http.MethodDelete, "/api/v1/forum/posts/"+created.ID.String(), nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodDelete, "/api/v1/forum/posts/"+created.ID.String(), nil, adminToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var comments int64
	require.NoError(t, a.db.Model(&models.ForumComment{}).Count(&comments).Error)
	assert.Zero(t, comments)
}
