// Package session resolves the current identity from the mirror.
//
// The login and signup flows historically stored the session under several
// shapes; everything is normalized here, in one place, so no other package
// branches on shape again.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/barterup/barterupd/internal/avatar"
	"github.com/barterup/barterupd/internal/entities"
	"github.com/barterup/barterupd/internal/mirror"
)

var log = logrus.WithField("package", "session")

// Tokens shorter than this are login-flow debris, not real bearer tokens.
const minTokenLen = 10

// Placeholder authors written before the username was known.
const (
	placeholderYou   = "You"
	placeholderGuest = "Guest"
)

// Resolver ...
type Resolver struct {
	m       *mirror.Mirror
	apiBase string
}

// New creates new instance of Resolver.
func New(m *mirror.Mirror, apiBase string) *Resolver {
	return &Resolver{
		m:       m,
		apiBase: apiBase,
	}
}

// sessionBlob covers every shape the login flow is known to store.
type sessionBlob struct {
	AccessToken      string `json:"access_token"`
	AccessTokenCamel string `json:"accessToken"`
	UserID           string `json:"user_id"`

	Session struct {
		AccessToken      string `json:"access_token"`
		AccessTokenCamel string `json:"accessToken"`
	} `json:"session"`

	User struct {
		ID                string `json:"id"`
		Username          string `json:"username"`
		ProfilePictureURL string `json:"profile_picture_url"`

		UserMetadata struct {
			Username          string `json:"username"`
			ProfilePictureURL string `json:"profile_picture_url"`
			AvatarURL         string `json:"avatar_url"`
		} `json:"user_metadata"`
	} `json:"user"`

	Profile struct {
		ID                string `json:"id"`
		UserID            string `json:"user_id"`
		Username          string `json:"username"`
		ProfilePictureURL string `json:"profile_picture_url"`
		AvatarURL         string `json:"avatar_url"`
	} `json:"profile"`
}

type accountMetaBlob struct {
	Username string `json:"username"`
}

type userDetailsBlob struct {
	Username string `json:"username"`

	Profile struct {
		Username string `json:"username"`
	} `json:"profile"`
}

func (r *Resolver) sessionBlob(ctx context.Context) *sessionBlob {
	raw, err := r.m.UserSession(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to read session blob")
		return nil
	}

	if len(raw) == 0 {
		return nil
	}

	var b sessionBlob
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil
	}

	return &b
}

// Resolve produces the canonical session. It never fails on missing data:
// absent identity resolves to zero values and an empty avatar means "render
// the placeholder icon".
func (r *Resolver) Resolve(ctx context.Context) (entities.Session, error) {
	out := entities.Session{}

	b := r.sessionBlob(ctx)
	if b != nil {
		out.UserID = firstNonEmpty(b.Profile.ID, b.Profile.UserID, b.UserID, b.User.ID)
		out.Username = firstNonEmpty(b.User.UserMetadata.Username, b.User.Username, b.Profile.Username)
	}

	if out.Username == "" {
		saved, err := r.m.SavedUsername(ctx)
		if err != nil {
			return out, fmt.Errorf("failed to read saved username: %w", err)
		}
		out.Username = saved
	}

	if out.Username == "" {
		if raw, err := r.m.AccountMeta(ctx); err == nil && len(raw) > 0 {
			var meta accountMetaBlob
			if json.Unmarshal(raw, &meta) == nil {
				out.Username = meta.Username
			}
		}
	}

	if out.Username == "" {
		if raw, err := r.m.UserDetails(ctx); err == nil && len(raw) > 0 {
			var details userDetailsBlob
			if json.Unmarshal(raw, &details) == nil {
				out.Username = firstNonEmpty(details.Username, details.Profile.Username)
			}
		}
	}

	url, err := r.avatarURL(ctx, b)
	if err != nil {
		return out, err
	}

	out.AvatarURL = url
	out.HasAvatar = url != ""

	return out, nil
}

// avatarURL probes the session profile shapes first, then the local
// override. Returns an empty string when the user has no uploaded avatar.
func (r *Resolver) avatarURL(ctx context.Context, b *sessionBlob) (string, error) {
	if b != nil {
		raw := firstNonEmpty(
			b.Profile.ProfilePictureURL,
			b.User.ProfilePictureURL,
			b.User.UserMetadata.ProfilePictureURL,
			b.User.UserMetadata.AvatarURL,
			b.Profile.AvatarURL,
		)

		if u := avatar.Classify(raw).Resolve(r.apiBase); u != "" {
			return u, nil
		}
	}

	local, err := r.m.ProfilePicture(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read profile picture: %w", err)
	}

	return avatar.Classify(local).Resolve(r.apiBase), nil
}

// Token extracts the bearer token from the explicit key or from any known
// spot inside the session blob. Empty result means "not authenticated".
func (r *Resolver) Token(ctx context.Context) string {
	if b := r.sessionBlob(ctx); b != nil {
		for _, t := range []string{
			b.AccessToken,
			b.AccessTokenCamel,
			b.Session.AccessToken,
			b.Session.AccessTokenCamel,
		} {
			if len(t) > minTokenLen {
				return t
			}
		}
	}

	t, err := r.m.AccessToken(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to read access token")
		return ""
	}

	if len(t) > minTokenLen {
		return t
	}

	return ""
}

// MigrateComments rewrites stale comment authorship left by earlier
// sessions: placeholder authors become the resolved username, seed avatars
// are cleared when the user has no real one, and empty avatars are filled
// once one exists. Running it twice produces no further changes.
func (r *Resolver) MigrateComments(ctx context.Context) error {
	s, err := r.Resolve(ctx)
	if err != nil {
		return err
	}

	if s.Username == "" {
		return nil
	}

	comments, err := r.m.Comments(ctx)
	if err != nil {
		return fmt.Errorf("failed to read comments: %w", err)
	}

	changed := false
	for id, list := range comments {
		for i, c := range list {
			if c.Author == placeholderYou || c.Author == placeholderGuest {
				c.Author = s.Username
				changed = true
			}
			if !s.HasAvatar && c.Avatar == avatar.FallbackW1 {
				c.Avatar = ""
				changed = true
			}
			if s.HasAvatar && c.Avatar == "" {
				c.Avatar = s.AvatarURL
				changed = true
			}
			list[i] = c
		}
		comments[id] = list
	}

	if !changed {
		return nil
	}

	if err := r.m.SaveComments(ctx, comments); err != nil {
		return fmt.Errorf("failed to persist migrated comments: %w", err)
	}

	return nil
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if v := strings.TrimSpace(s); v != "" && v != "null" && v != "undefined" {
			return v
		}
	}

	return ""
}
