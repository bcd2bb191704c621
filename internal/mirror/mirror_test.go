package mirror

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barterup/barterupd/internal/entities"
	"github.com/barterup/barterupd/internal/storage"
	"github.com/barterup/barterupd/internal/storage/mock"
	"github.com/barterup/barterupd/internal/storage/storagetest"
)

var ctx = context.Background()

func TestMirror_MissingKeyIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := mock.NewMockStorage(ctrl)
	m := New(s)

	s.EXPECT().Get(gomock.Any(), storage.LocalScope, KeyCachedPosts).Return(nil, storage.ErrNotFound)

	posts, err := m.CachedPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestMirror_CorruptValueIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := mock.NewMockStorage(ctrl)
	m := New(s)

	s.EXPECT().Get(gomock.Any(), storage.LocalScope, KeyLikedPosts).Return(json.RawMessage(`{"oops`), nil)

	liked, err := m.LikedPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestMirror_WrongShapeIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := mock.NewMockStorage(ctrl)
	m := New(s)

	// an object where a list is expected decodes into nothing
	s.EXPECT().Get(gomock.Any(), storage.LocalScope, KeyFollowedUsers).Return(json.RawMessage(`{"a":1}`), nil)

	names, err := m.FollowedUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMirror_GetError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := mock.NewMockStorage(ctrl)
	m := New(s)

	s.EXPECT().Get(gomock.Any(), storage.LocalScope, KeyLocalComments).Return(nil, context.Canceled)

	_, err := m.Comments(ctx)
	require.Error(t, err)
}

func TestMirror_PostsRoundTrip(t *testing.T) {
	m := New(storagetest.New())

	in := []entities.Post{
		{
			ID:           "p1",
			UserID:       "u1",
			Content:      "first",
			AuthorName:   "rina",
			AuthorAvatar: "/assets/avatars/w1.jpg",
			AuthorRole:   "Programming",
			PrimarySkill: "Programming",
			IsOwnPost:    true,
			CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	require.NoError(t, m.SaveCachedPosts(ctx, in))

	out, err := m.CachedPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMirror_LikedPostsRoundTrip(t *testing.T) {
	m := New(storagetest.New())

	in := map[string]struct{}{"p1": {}, "p2": {}}
	require.NoError(t, m.SaveLikedPosts(ctx, in))

	out, err := m.LikedPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestMirror_SignOutKeepsLocalState(t *testing.T) {
	m := New(storagetest.New())

	require.NoError(t, m.SaveUsername(ctx, "agus"))
	require.NoError(t, m.SaveAccessToken(ctx, "token-value-long-enough"))
	require.NoError(t, m.SaveUserSession(ctx, json.RawMessage(`{"access_token":"token-value-long-enough"}`)))

	require.NoError(t, m.SignOut(ctx))

	token, err := m.AccessToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	raw, err := m.UserSession(ctx)
	require.NoError(t, err)
	assert.Empty(t, raw)

	name, err := m.SavedUsername(ctx)
	require.NoError(t, err)
	assert.Equal(t, "agus", name)
}
