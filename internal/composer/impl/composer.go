// Package impl is implementation of the post view composer.
package impl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/barterup/barterupd/internal/avatar"
	"github.com/barterup/barterupd/internal/barter"
	"github.com/barterup/barterupd/internal/composer"
	"github.com/barterup/barterupd/internal/entities"
	"github.com/barterup/barterupd/internal/mirror"
	"github.com/barterup/barterupd/internal/session"
)

var log = logrus.WithField("package", "composer")

const (
	anonymousAuthor = "Anonymous User"
	fallbackAuthor  = "You"
	fallbackContent = "No content"
	fallbackRole    = "User"
	guestAuthor     = "Guest"
)

// Composer ...
type Composer struct {
	api     composer.PostsAPI
	m       *mirror.Mirror
	r       *session.Resolver
	apiBase string
}

// New creates new instance of Composer.
func New(api composer.PostsAPI, m *mirror.Mirror, r *session.Resolver, apiBase string) *Composer {
	return &Composer{
		api:     api,
		m:       m,
		r:       r,
		apiBase: apiBase,
	}
}

// Feed returns the cached composed feed, refreshing it when the cache is
// empty.
func (c *Composer) Feed(ctx context.Context) ([]entities.Post, error) {
	posts, err := c.m.CachedPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached posts: %w", err)
	}

	if len(posts) > 0 {
		return posts, nil
	}

	return c.Refresh(ctx)
}

// Refresh fetches backend posts, composes them with the seed posts and
// caches the result. When the backend is unreachable the feed degrades to
// seed posts only and ErrDemoData is returned alongside them.
func (c *Composer) Refresh(ctx context.Context) ([]entities.Post, error) {
	backend, fetchErr := c.api.Posts(ctx, c.r.Token(ctx))
	if fetchErr != nil {
		log.WithError(fetchErr).Warn("failed to load posts from backend")
		backend = nil
	}

	posts, err := c.Compose(ctx, backend)
	if err != nil {
		return nil, err
	}

	if err := c.m.SaveCachedPosts(ctx, posts); err != nil {
		return nil, err
	}

	if fetchErr != nil {
		return posts, composer.ErrDemoData
	}

	return posts, nil
}

// Compose merges backend posts (API order first) with the seed posts,
// resolving authorship, role and avatar for every entry. Every output post
// has a non-empty avatar.
func (c *Composer) Compose(ctx context.Context, backend []barter.Post) ([]entities.Post, error) {
	s, err := c.r.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	out := lo.Map(backend, func(p barter.Post, _ int) entities.Post {
		return c.composePost(p, s)
	})

	return append(out, composer.SeedPosts()...), nil
}

func (c *Composer) composePost(p barter.Post, s entities.Session) entities.Post {
	own := c.isOwn(p, s)

	name := p.AuthorName
	if name == "" {
		if own {
			name = s.Username
			if name == "" {
				name = fallbackAuthor
			}
		} else {
			name = anonymousAuthor
		}
	}

	content := p.Content
	if content == "" {
		content = fallbackContent
	}

	skill := p.AuthorPrimarySkill
	role := skill
	if role == "" {
		role = fallbackRole
	}

	return entities.Post{
		ID:           p.ID,
		UserID:       p.UserID,
		Content:      content,
		ImageURL:     p.ImageURL,
		AuthorName:   name,
		AuthorAvatar: c.resolveAvatar(p, own, s),
		AuthorRole:   role,
		PrimarySkill: skill,
		IsOwnPost:    own,
		CreatedAt:    parseCreatedAt(p.CreatedAt),
	}
}

// isOwn prefers the backend's explicit flag and otherwise derives
// ownership from the session user id. No session means not own.
func (c *Composer) isOwn(p barter.Post, s entities.Session) bool {
	if p.IsOwnPost != nil {
		return *p.IsOwnPost
	}

	return s.UserID != "" && p.UserID == s.UserID
}

// resolveAvatar applies the fallback chain: own posts take the resolved
// session avatar first, then the post's own reference, then a skill-keyed
// static image.
func (c *Composer) resolveAvatar(p barter.Post, own bool, s entities.Session) string {
	if own && s.AvatarURL != "" {
		return s.AvatarURL
	}

	if u := avatar.Classify(p.AuthorAvatar).Resolve(c.apiBase); u != "" {
		return u
	}

	skill := p.AuthorPrimarySkill
	if skill == "" {
		skill = p.AuthorRole
	}

	return avatar.BySkill(skill)
}

// ToggleLike flips the liked-set membership of the post and persists the
// whole set. Returns the new state.
func (c *Composer) ToggleLike(ctx context.Context, postID string) (bool, error) {
	liked, err := c.m.LikedPosts(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read liked posts: %w", err)
	}

	if _, ok := liked[postID]; ok {
		delete(liked, postID)
	} else {
		liked[postID] = struct{}{}
	}

	if err := c.m.SaveLikedPosts(ctx, liked); err != nil {
		return false, fmt.Errorf("failed to persist liked posts: %w", err)
	}

	_, nowLiked := liked[postID]

	return nowLiked, nil
}

// AddComment appends a comment authored by the current user. Whitespace-only
// text is rejected before anything is read or written.
func (c *Composer) AddComment(ctx context.Context, postID, text string) (*entities.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, composer.ErrEmptyComment
	}

	s, err := c.r.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	author := s.Username
	if author == "" {
		author = guestAuthor
	}

	// Without a real uploaded avatar the comment keeps an empty avatar so
	// the UI renders the placeholder icon.
	av := ""
	if s.HasAvatar {
		av = avatar.Ensure(s.AvatarURL)
	}

	comments, err := c.m.Comments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}

	now := time.Now()
	entry := entities.Comment{
		ID:     fmt.Sprintf("%s-%d", postID, now.UnixMilli()),
		Text:   text,
		Author: author,
		Avatar: av,
		Ts:     now.UnixMilli(),
	}

	comments[postID] = append(comments[postID], entry)

	if err := c.m.SaveComments(ctx, comments); err != nil {
		return nil, fmt.Errorf("failed to persist comments: %w", err)
	}

	return &entry, nil
}

// DeletePost deletes an own post on the backend and drops it from the
// cached feed. Requires a stored bearer token; no request is made without
// one. No retry on failure.
func (c *Composer) DeletePost(ctx context.Context, postID string) error {
	token := c.r.Token(ctx)
	if token == "" {
		return composer.ErrLoginRequired
	}

	if err := c.api.DeletePost(ctx, token, postID); err != nil {
		var se *barter.StatusError
		if errors.As(err, &se) {
			if se.Code == http.StatusUnauthorized {
				return composer.ErrBadToken
			}

			return fmt.Errorf("Gagal hapus post: %s", se.Body)
		}

		return fmt.Errorf("%w: %s", composer.ErrDeleteFailed, err)
	}

	posts, err := c.m.CachedPosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cached posts: %w", err)
	}

	posts = lo.Filter(posts, func(p entities.Post, _ int) bool {
		return p.ID != postID
	})

	if err := c.m.SaveCachedPosts(ctx, posts); err != nil {
		return fmt.Errorf("failed to persist cached posts: %w", err)
	}

	return nil
}

func parseCreatedAt(s string) time.Time {
	if s == "" {
		return time.Now()
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}

	return t
}
