package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barterup/barterupd/internal/barter"
	"github.com/barterup/barterupd/internal/chat"
	"github.com/barterup/barterupd/internal/composer"
	composerimpl "github.com/barterup/barterupd/internal/composer/impl"
	"github.com/barterup/barterupd/internal/composer/mock"
	"github.com/barterup/barterupd/internal/entities"
	"github.com/barterup/barterupd/internal/ledger"
	"github.com/barterup/barterupd/internal/mirror"
	"github.com/barterup/barterupd/internal/session"
	"github.com/barterup/barterupd/internal/storage/storagetest"
)

const apiBase = "http://api.test"

const authed = `{"access_token":"aaaaaaaaaaaa","user":{"id":"u1","user_metadata":{"username":"agus"}}}`

var ctx = context.Background()

type env struct {
	srv server
	api *mock.MockPostsAPI
	m   *mirror.Mirror
}

func newEnv(t *testing.T) env {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	api := mock.NewMockPostsAPI(ctrl)
	m := mirror.New(storagetest.New())
	r := session.New(m, apiBase)

	led, err := ledger.New(ctx, m)
	require.NoError(t, err)

	return env{
		srv: server{
			composer: composerimpl.New(api, m, r, apiBase),
			ledger:   led,
			chat:     chat.New(m),
			session:  r,
			mirror:   m,
		},
		api: api,
		m:   m,
	}
}

func Test_getFeed(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.m.SaveUserSession(ctx, json.RawMessage(authed)))
	e.api.EXPECT().Posts(gomock.Any(), "aaaaaaaaaaaa").Return([]barter.Post{
		{ID: "p1", UserID: "u2", Content: "hi", AuthorName: "rina", AuthorPrimarySkill: "Programming"},
	}, nil)

	_, err := e.srv.composer.ToggleLike(ctx, "p1")
	require.NoError(t, err)

	r, err := http.NewRequest(http.MethodGet, "/v1/feed", nil)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Get("/v1/feed", e.srv.getFeed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Posts, 4) // backend post plus three demo posts
	assert.Equal(t, "p1", resp.Posts[0].ID)
	assert.Equal(t, "rina", resp.Posts[0].AuthorName)
	assert.Equal(t, []string{"p1"}, resp.Liked)
	assert.Empty(t, resp.Warning)
}

func Test_getFeed_BackendDown(t *testing.T) {
	e := newEnv(t)

	e.api.EXPECT().Posts(gomock.Any(), "").Return(nil, errors.New("connection refused"))

	r, err := http.NewRequest(http.MethodGet, "/v1/feed", nil)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Get("/v1/feed", e.srv.getFeed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FeedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Posts, 3)
	assert.Equal(t, composer.ErrDemoData.Error(), resp.Warning)
}

func Test_toggleLike(t *testing.T) {
	e := newEnv(t)

	router := chi.NewRouter()
	router.Post("/v1/posts/{id}/like", e.srv.toggleLike)

	for _, want := range []bool{true, false} {
		r, err := http.NewRequest(http.MethodPost, "/v1/posts/p1/like", nil)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"liked":%t}`, want), w.Body.String())
	}
}

func Test_addComment(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.m.SaveUserSession(ctx, json.RawMessage(authed)))

	router := chi.NewRouter()
	router.Post("/v1/posts/{id}/comments", e.srv.addComment)
	router.Get("/v1/posts/{id}/comments", e.srv.listComments)

	r, err := http.NewRequest(http.MethodPost, "/v1/posts/p1/comments", bytes.NewBufferString(`{"text":"nice!"}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var c Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
	assert.Equal(t, "nice!", c.Text)
	assert.Equal(t, "agus", c.Author)

	r, err = http.NewRequest(http.MethodGet, "/v1/posts/p1/comments", nil)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var list []Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, c, list[0])
}

func Test_addComment_Empty(t *testing.T) {
	e := newEnv(t)

	router := chi.NewRouter()
	router.Post("/v1/posts/{id}/comments", e.srv.addComment)

	r, err := http.NewRequest(http.MethodPost, "/v1/posts/p1/comments", bytes.NewBufferString(`{"text":"   "}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_deletePost_NotAuthenticated(t *testing.T) {
	e := newEnv(t)

	// no DeletePost expectation: the backend must not be called

	router := chi.NewRouter()
	router.Delete("/v1/posts/{id}", e.srv.deletePost)

	r, err := http.NewRequest(http.MethodDelete, "/v1/posts/p1", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, composer.ErrLoginRequired.Error()), w.Body.String())
}

func Test_deletePost(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.m.SaveUserSession(ctx, json.RawMessage(authed)))
	require.NoError(t, e.m.SaveCachedPosts(ctx, []entities.Post{{ID: "p1", UserID: "u1", IsOwnPost: true}}))

	e.api.EXPECT().DeletePost(gomock.Any(), "aaaaaaaaaaaa", "p1").Return(nil)

	router := chi.NewRouter()
	router.Delete("/v1/posts/{id}", e.srv.deletePost)

	r, err := http.NewRequest(http.MethodDelete, "/v1/posts/p1", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)

	cached, err := e.m.CachedPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func Test_toggleFollow(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.m.SaveCachedPosts(ctx, []entities.Post{
		{ID: "p1", UserID: "u2", AuthorName: "rina", AuthorAvatar: "https://cdn.example.com/r.png"},
	}))

	router := chi.NewRouter()
	router.Post("/v1/follow", e.srv.toggleFollow)

	r, err := http.NewRequest(http.MethodPost, "/v1/follow", bytes.NewBufferString(`{"post_id":"p1"}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FollowResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Followed)
	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "rina", resp.Contacts[0].Name)
}

func Test_toggleFollow_UnknownPost(t *testing.T) {
	e := newEnv(t)

	router := chi.NewRouter()
	router.Post("/v1/follow", e.srv.toggleFollow)

	r, err := http.NewRequest(http.MethodPost, "/v1/follow", bytes.NewBufferString(`{"post_id":"nope"}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func Test_conversationFlow(t *testing.T) {
	e := newEnv(t)

	router := chi.NewRouter()
	router.Get("/v1/conversations/{name}/messages", e.srv.listMessages)
	router.Post("/v1/conversations/{name}/messages", e.srv.sendMessage)
	router.Get("/v1/conversations/{name}/draft", e.srv.getDraft)
	router.Put("/v1/conversations/{name}/draft", e.srv.putDraft)

	// fresh conversation serves the seeded history
	r, err := http.NewRequest(http.MethodGet, "/v1/conversations/Rina%20Suryani/messages", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var messages []Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	assert.Equal(t, "them", messages[0].From)

	r, err = http.NewRequest(http.MethodPut, "/v1/conversations/Rina%20Suryani/draft", bytes.NewBufferString(`{"text":"hel"}`))
	require.NoError(t, err)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusNoContent, w.Code)

	r, err = http.NewRequest(http.MethodPost, "/v1/conversations/Rina%20Suryani/messages", bytes.NewBufferString(`{"text":"hello!"}`))
	require.NoError(t, err)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	var sent Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	assert.Equal(t, "me", sent.From)
	assert.Equal(t, "hello!", sent.Text)

	// sending cleared the draft
	r, err = http.NewRequest(http.MethodGet, "/v1/conversations/Rina%20Suryani/draft", nil)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"text":""}`, w.Body.String())
}

func Test_sendMessage_Empty(t *testing.T) {
	e := newEnv(t)

	router := chi.NewRouter()
	router.Post("/v1/conversations/{name}/messages", e.srv.sendMessage)

	r, err := http.NewRequest(http.MethodPost, "/v1/conversations/Rina/messages", bytes.NewBufferString(`{"text":" "}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_getSession(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.m.SaveUserSession(ctx, json.RawMessage(authed)))

	router := chi.NewRouter()
	router.Get("/v1/session", e.srv.getSession)

	r, err := http.NewRequest(http.MethodGet, "/v1/session", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"u1","username":"agus","has_avatar":false}`, w.Body.String())
}

func Test_signOut(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.m.SaveUserSession(ctx, json.RawMessage(authed)))
	require.NoError(t, e.m.SaveUsername(ctx, "agus"))

	router := chi.NewRouter()
	router.Delete("/v1/session", e.srv.signOut)

	r, err := http.NewRequest(http.MethodDelete, "/v1/session", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Empty(t, e.srv.session.Token(ctx))

	// local state survives sign-out
	name, err := e.m.SavedUsername(ctx)
	require.NoError(t, err)
	assert.Equal(t, "agus", name)
}

func Test_getStats(t *testing.T) {
	e := newEnv(t)

	require.NoError(t, e.m.SaveCachedPosts(ctx, []entities.Post{
		{ID: "p1", UserID: "u1", IsOwnPost: true},
		{ID: "p2", UserID: "u2", AuthorName: "rina"},
	}))

	_, err := e.srv.composer.ToggleLike(ctx, "p2")
	require.NoError(t, err)

	posts, err := e.m.CachedPosts(ctx)
	require.NoError(t, err)
	_, err = e.srv.ledger.Toggle(ctx, posts[1])
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Get("/v1/stats", e.srv.getStats)

	r, err := http.NewRequest(http.MethodGet, "/v1/stats", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked_count":1,"followed_count":1,"own_post_count":1}`, w.Body.String())
}
