package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-post-studio/internal/store/inmemory"
	"social-post-studio/models"
)

func newPostsRouter(t *testing.T) (*gin.Engine, *inmemory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	memStore := inmemory.New()
	SetupPostRoutes(router, memStore)
	return router, memStore
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetPost(t *testing.T) {
	router, _ := newPostsRouter(t)

	rec := doJSON(router, http.MethodPost, "/posts", gin.H{
		"prompt":   "launch teaser",
		"content":  "Something big is coming.",
		"platform": "twitter",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.ApprovalPending, created.Approval)

	rec = doJSON(router, http.MethodGet, "/posts/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePostValidation(t *testing.T) {
	router, _ := newPostsRouter(t)
	rec := doJSON(router, http.MethodPost, "/posts", gin.H{"prompt": "no content"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMissingPostIs404(t *testing.T) {
	router, _ := newPostsRouter(t)
	rec := doJSON(router, http.MethodGet, "/posts/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "not_found", envelope["error_code"])
}

func TestApproveAndRejectFlow(t *testing.T) {
	router, memStore := newPostsRouter(t)
	saved, err := memStore.Save(context.Background(), &models.Post{Prompt: "p", Content: "c"})
	require.NoError(t, err)

	rec := doJSON(router, http.MethodPost, "/posts/"+saved.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var post models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, models.ApprovalApproved, post.Approval)

	// Reject without feedback_text is a 400.
	rec = doJSON(router, http.MethodPost, "/posts/"+saved.ID+"/reject", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(router, http.MethodPost, "/posts/"+saved.ID+"/reject", gin.H{"feedback_text": "wrong audience"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/posts/"+saved.ID+"/feedback", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feedbackResp struct {
		Count    int                `json:"count"`
		Feedback []*models.Feedback `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feedbackResp))
	require.Equal(t, 1, feedbackResp.Count)
	assert.Equal(t, "wrong audience", feedbackResp.Feedback[0].FeedbackText)
}

func TestUpdatePostPartial(t *testing.T) {
	router, memStore := newPostsRouter(t)
	saved, err := memStore.Save(context.Background(), &models.Post{Prompt: "p", Content: "old", Caption: "keep me"})
	require.NoError(t, err)

	rec := doJSON(router, http.MethodPut, "/posts/"+saved.ID, gin.H{"content": "new"})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "new", updated.Content)
	assert.Equal(t, "keep me", updated.Caption, "unspecified fields untouched")
}

func TestDeletePost(t *testing.T) {
	router, memStore := newPostsRouter(t)
	saved, err := memStore.Save(context.Background(), &models.Post{Prompt: "p", Content: "c"})
	require.NoError(t, err)

	rec := doJSON(router, http.MethodDelete, "/posts/"+saved.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/posts/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(router, http.MethodDelete, "/posts/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPostsWithSearch(t *testing.T) {
	router, memStore := newPostsRouter(t)
	ctx := context.Background()
	_, err := memStore.Save(ctx, &models.Post{Prompt: "coffee launch", Content: "beans"})
	require.NoError(t, err)
	_, err = memStore.Save(ctx, &models.Post{Prompt: "tea time", Content: "leaves"})
	require.NoError(t, err)

	rec := doJSON(router, http.MethodGet, "/posts?q=coffee", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Count int            `json:"count"`
		Posts []*models.Post `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Equal(t, 1, listResp.Count)
	assert.Equal(t, "coffee launch", listResp.Posts[0].Prompt)
}
