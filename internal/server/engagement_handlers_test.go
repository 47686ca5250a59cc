package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicationLikeCount(t *testing.T, s *Server, id uint) int64 {
	t.Helper()
	var pub models.Publication
	require.NoError(t, s.db.First(&pub, id).Error)
	return pub.LikeCount
}

func publicationCommentCount(t *testing.T, s *Server, id uint) int64 {
	t.Helper()
	var pub models.Publication
	require.NoError(t, s.db.First(&pub, id).Error)
	return pub.CommentCount
}

func TestLikeEndpointLifecycle(t *testing.T) {
	s, app := newTestServer(t)
	author, _ := createTestUser(t, s, "author", false)
	_, token := createTestUser(t, s, "fan", false)
	pub := createTestPublication(t, s, author.ID)

	likePath := fmt.Sprintf("/api/publications/%d/like", pub.ID)

	// First like creates.
	status, body := doJSON(t, app, http.MethodPost, likePath, token, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, int64(1), publicationLikeCount(t, s, pub.ID))

	// Repeating is not an error and does not double count.
	status, body = doJSON(t, app, http.MethodPost, likePath, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, int64(1), publicationLikeCount(t, s, pub.ID))

	// Unlike removes it.
	status, body = doJSON(t, app, http.MethodDelete, likePath, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, int64(0), publicationLikeCount(t, s, pub.ID))

	// Unliking again stays quiet and never goes negative.
	status, _ = doJSON(t, app, http.MethodDelete, likePath, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(0), publicationLikeCount(t, s, pub.ID))
}

func TestLikeMissingPublicationReturns404(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createTestUser(t, s, "fan", false)

	status, body := doJSON(t, app, http.MethodPost, "/api/publications/99999/like", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestGetMyLikesListsHistory(t *testing.T) {
	s, app := newTestServer(t)
	author, _ := createTestUser(t, s, "author", false)
	_, token := createTestUser(t, s, "fan", false)
	first := createTestPublication(t, s, author.ID)
	second := createTestPublication(t, s, author.ID)

	for _, pub := range []uint{first.ID, second.ID} {
		status, _ := doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/publications/%d/like", pub), token, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/me/likes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var likes []models.Like
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&likes))
	require.Len(t, likes, 2)
	// Newest first: the second like leads.
	assert.Equal(t, second.ID, likes[0].TargetID)
	assert.Equal(t, first.ID, likes[1].TargetID)
}

func TestCommentEndpointLifecycle(t *testing.T) {
	s, app := newTestServer(t)
	author, _ := createTestUser(t, s, "author", false)
	_, token := createTestUser(t, s, "commenter", false)
	pub := createTestPublication(t, s, author.ID)

	commentsPath := fmt.Sprintf("/api/publications/%d/comments", pub.ID)

	status, body := doJSON(t, app, http.MethodPost, commentsPath, token, map[string]any{
		"content": "looks great",
	})
	require.Equal(t, http.StatusCreated, status)
	commentID := uint(body["id"].(float64))
	assert.Equal(t, int64(1), publicationCommentCount(t, s, pub.ID))

	// Reply under the first comment.
	status, _ = doJSON(t, app, http.MethodPost, commentsPath, token, map[string]any{
		"content":           "agreed",
		"parent_comment_id": commentID,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(2), publicationCommentCount(t, s, pub.ID))

	// Deleting the root comment removes the whole thread.
	status, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["deleted_comments"])
	assert.Equal(t, int64(0), publicationCommentCount(t, s, pub.ID))
}

func TestCommentOnMissingPublication(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createTestUser(t, s, "commenter", false)

	status, _ := doJSON(t, app, http.MethodPost, "/api/publications/4242/comments", token, map[string]any{
		"content": "anyone here?",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestModerationRequiresAdmin(t *testing.T) {
	s, app := newTestServer(t)
	author, _ := createTestUser(t, s, "author", false)
	_, userToken := createTestUser(t, s, "bystander", false)
	_, adminToken := createTestUser(t, s, "moderator", true)
	pub := createTestPublication(t, s, author.ID)

	moderatePath := fmt.Sprintf("/api/publications/%d/moderate", pub.ID)

	status, _ := doJSON(t, app, http.MethodPost, moderatePath, userToken, map[string]any{
		"status": models.PublicationStatusHidden,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, body := doJSON(t, app, http.MethodPost, moderatePath, adminToken, map[string]any{
		"status": models.PublicationStatusHidden,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.PublicationStatusHidden, body["status"])
}
