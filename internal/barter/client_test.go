package barter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, time.Second)
	t.Cleanup(func() { c.Close() })

	return c
}

func TestClient_Posts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/posts", r.URL.Path)
		require.Equal(t, "Bearer sometoken", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":[
			{"id":"p1","user_id":"u1","content":"hi","author_name":"rina","is_own_post":true},
			{"id":"p2","user_id":"u2","content":"yo","author_name":"agus"}
		]}`))
	})

	posts, err := c.Posts(ctx, "sometoken")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "p1", posts[0].ID)
	require.NotNil(t, posts[0].IsOwnPost)
	assert.True(t, *posts[0].IsOwnPost)

	// absent flag stays nil so ownership can be derived locally
	assert.Nil(t, posts[1].IsOwnPost)
}

func TestClient_Posts_NoToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":[]}`))
	})

	posts, err := c.Posts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{
			"session":{"access_token":"aaaaaaaaaaaa","user":{"id":"u1"}},
			"username":"agus"
		}}`))
	})

	resp, err := c.Login(ctx, LoginRequest{Email: "agus@example.com", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, "agus", resp.Data.Username)
	assert.JSONEq(t, `{"access_token":"aaaaaaaaaaaa","user":{"id":"u1"}}`, string(resp.Data.Session))
}

func TestClient_DeletePost_Status(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/posts/p1", r.URL.Path)

		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token tidak valid"}`))
	})

	err := c.DeletePost(ctx, "sometoken", "p1")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Contains(t, se.Body, "token tidak valid")
}

func TestTranslateError(t *testing.T) {
	tt := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "transport failure",
			err:  errors.New("connection refused"),
			want: MsgServerUnreachable,
		},
		{
			name: "message field",
			err:  &StatusError{Code: 400, Body: `{"message":"email sudah terdaftar"}`},
			want: "email sudah terdaftar",
		},
		{
			name: "error field",
			err:  &StatusError{Code: 400, Body: `{"error":"invalid payload"}`},
			want: "invalid payload",
		},
		{
			name: "plain body",
			err:  &StatusError{Code: 500, Body: "boom"},
			want: "boom",
		},
		{
			name: "empty body",
			err:  &StatusError{Code: 500},
			want: MsgUnknownError,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TranslateError(tc.err))
		})
	}
}
