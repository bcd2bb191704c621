package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barterup/barterupd/internal/avatar"
	"github.com/barterup/barterupd/internal/entities"
	"github.com/barterup/barterupd/internal/mirror"
	"github.com/barterup/barterupd/internal/storage/storagetest"
)

var ctx = context.Background()

func newLedger(t *testing.T) (*Ledger, *mirror.Mirror) {
	t.Helper()

	m := mirror.New(storagetest.New())

	l, err := New(ctx, m)
	require.NoError(t, err)

	return l, m
}

func post(author, avatarURL string) entities.Post {
	return entities.Post{
		ID:           "p-" + author,
		AuthorName:   author,
		AuthorAvatar: avatarURL,
	}
}

func TestLedger_Toggle(t *testing.T) {
	l, m := newLedger(t)

	following, err := l.Toggle(ctx, post("rina", "https://cdn.example.com/r.png"))
	require.NoError(t, err)
	assert.True(t, following)
	assert.True(t, l.Followed("rina"))
	assert.Equal(t, 1, l.FollowedCount())

	contacts := l.Contacts()
	require.Len(t, contacts, 1)
	assert.Equal(t, "rina", contacts[0].Name)
	assert.Equal(t, "https://cdn.example.com/r.png", contacts[0].Avatar)

	following, err = l.Toggle(ctx, post("rina", "https://cdn.example.com/r.png"))
	require.NoError(t, err)
	assert.False(t, following)
	assert.False(t, l.Followed("rina"))
	assert.Empty(t, l.Contacts())

	// both sets are persisted
	names, err := m.FollowedUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLedger_Toggle_OwnPost(t *testing.T) {
	l, _ := newLedger(t)

	p := post("me", "")
	p.IsOwnPost = true

	following, err := l.Toggle(ctx, p)
	require.NoError(t, err)
	assert.False(t, following)
	assert.Zero(t, l.FollowedCount())
	assert.Empty(t, l.Contacts())
}

func TestLedger_Toggle_PrependsNewest(t *testing.T) {
	l, _ := newLedger(t)

	_, err := l.Toggle(ctx, post("rina", ""))
	require.NoError(t, err)
	_, err = l.Toggle(ctx, post("agus", ""))
	require.NoError(t, err)

	contacts := l.Contacts()
	require.Len(t, contacts, 2)
	assert.Equal(t, "agus", contacts[0].Name)
	assert.Equal(t, "rina", contacts[1].Name)
}

func TestLedger_Toggle_AvatarFallback(t *testing.T) {
	l, _ := newLedger(t)

	_, err := l.Toggle(ctx, post("rina", ""))
	require.NoError(t, err)

	contacts := l.Contacts()
	require.Len(t, contacts, 1)
	assert.Equal(t, avatar.FallbackW1, contacts[0].Avatar)
}

func TestLedger_LoadsPersistedState(t *testing.T) {
	m := mirror.New(storagetest.New())

	require.NoError(t, m.SaveFollowedUsers(ctx, []string{"rina"}))
	require.NoError(t, m.SaveContacts(ctx, []entities.Contact{{Name: "rina", Avatar: avatar.FallbackW1}}))

	l, err := New(ctx, m)
	require.NoError(t, err)

	assert.True(t, l.Followed("rina"))
	require.Len(t, l.Contacts(), 1)
}

func TestLedger_UnfollowRemovesDuplicates(t *testing.T) {
	m := mirror.New(storagetest.New())

	// a legacy list can carry the same name twice
	require.NoError(t, m.SaveFollowedUsers(ctx, []string{"rina"}))
	require.NoError(t, m.SaveContacts(ctx, []entities.Contact{
		{Name: "rina", Avatar: avatar.FallbackW1},
		{Name: "agus", Avatar: avatar.FallbackMale1},
		{Name: "rina", Avatar: avatar.FallbackW2},
	}))

	l, err := New(ctx, m)
	require.NoError(t, err)

	_, err = l.Toggle(ctx, post("rina", ""))
	require.NoError(t, err)

	contacts := l.Contacts()
	require.Len(t, contacts, 1)
	assert.Equal(t, "agus", contacts[0].Name)
}
