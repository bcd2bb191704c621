// Package mirror provides typed access to the persisted browser-state
// mirror: every logical key holds a JSON value, and a value that fails to
// decode is treated as absent, never as an error.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/barterup/barterupd/internal/entities"
	"github.com/barterup/barterupd/internal/storage"
)

var log = logrus.WithField("package", "mirror")

// Logical keys. Names match the ones the web client used, so an exported
// browser profile can be imported as-is.
const (
	KeyCachedPosts    = "cachedPosts"
	KeyLikedPosts     = "likedPosts"
	KeyFollowedUsers  = "followedUsers"
	KeyContacts       = "contacts"
	KeyLocalComments  = "localComments"
	KeyChatMessages   = "chatMessages"
	KeyChatDrafts     = "chatDrafts"
	KeySavedUsername  = "savedUsername"
	KeyProfilePicture = "profilePicture"
	KeyUserDetails    = "userDetails"
	KeyUserSession    = "userSession"
	KeyAccountMeta    = "accountMeta"
	KeyAccessToken    = "access_token"
)

// Mirror ...
type Mirror struct {
	s storage.Storage
}

// New creates new instance of Mirror.
func New(s storage.Storage) *Mirror {
	return &Mirror{
		s: s,
	}
}

type postDTO struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Content            string    `json:"content"`
	ImageURL           string    `json:"image_url,omitempty"`
	AuthorName         string    `json:"author_name"`
	AuthorAvatar       string    `json:"author_avatar"`
	AuthorRole         string    `json:"author_role"`
	AuthorPrimarySkill string    `json:"author_primary_skill"`
	IsOwnPost          bool      `json:"is_own_post"`
	CreatedAt          time.Time `json:"created_at"`
}

type commentDTO struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Avatar string `json:"avatar"`
	Ts     int64  `json:"ts"`
}

type contactDTO struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type messageDTO struct {
	ID        int64     `json:"id"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// get decodes the value under key into dst. Missing keys and corrupt values
// leave dst untouched.
func (m *Mirror) get(ctx context.Context, scope storage.Scope, key string, dst interface{}) error {
	raw, err := m.s.Get(ctx, scope, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}

		return fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		log.WithError(err).WithField("key", key).Debug("corrupt mirror value, treated as absent")
	}

	return nil
}

func (m *Mirror) set(ctx context.Context, scope storage.Scope, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := m.s.Set(ctx, scope, key, raw); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

// CachedPosts returns the last composed feed snapshot.
func (m *Mirror) CachedPosts(ctx context.Context) ([]entities.Post, error) {
	var dto []postDTO
	if err := m.get(ctx, storage.LocalScope, KeyCachedPosts, &dto); err != nil {
		return nil, err
	}

	out := make([]entities.Post, len(dto))
	for i, v := range dto {
		out[i] = entities.Post{
			ID:           v.ID,
			UserID:       v.UserID,
			Content:      v.Content,
			ImageURL:     v.ImageURL,
			AuthorName:   v.AuthorName,
			AuthorAvatar: v.AuthorAvatar,
			AuthorRole:   v.AuthorRole,
			PrimarySkill: v.AuthorPrimarySkill,
			IsOwnPost:    v.IsOwnPost,
			CreatedAt:    v.CreatedAt,
		}
	}

	return out, nil
}

// SaveCachedPosts ...
func (m *Mirror) SaveCachedPosts(ctx context.Context, posts []entities.Post) error {
	dto := make([]postDTO, len(posts))
	for i, v := range posts {
		dto[i] = postDTO{
			ID:                 v.ID,
			UserID:             v.UserID,
			Content:            v.Content,
			ImageURL:           v.ImageURL,
			AuthorName:         v.AuthorName,
			AuthorAvatar:       v.AuthorAvatar,
			AuthorRole:         v.AuthorRole,
			AuthorPrimarySkill: v.PrimarySkill,
			IsOwnPost:          v.IsOwnPost,
			CreatedAt:          v.CreatedAt,
		}
	}

	return m.set(ctx, storage.LocalScope, KeyCachedPosts, dto)
}

// LikedPosts returns ids of posts liked in this mirror.
func (m *Mirror) LikedPosts(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := m.get(ctx, storage.LocalScope, KeyLikedPosts, &ids); err != nil {
		return nil, err
	}

	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}

	return out, nil
}

// SaveLikedPosts ...
func (m *Mirror) SaveLikedPosts(ctx context.Context, ids map[string]struct{}) error {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}

	return m.set(ctx, storage.LocalScope, KeyLikedPosts, out)
}

// FollowedUsers returns names of followed authors.
func (m *Mirror) FollowedUsers(ctx context.Context) ([]string, error) {
	var names []string
	if err := m.get(ctx, storage.LocalScope, KeyFollowedUsers, &names); err != nil {
		return nil, err
	}

	return names, nil
}

// SaveFollowedUsers ...
func (m *Mirror) SaveFollowedUsers(ctx context.Context, names []string) error {
	if names == nil {
		names = []string{}
	}

	return m.set(ctx, storage.LocalScope, KeyFollowedUsers, names)
}

// Contacts ...
func (m *Mirror) Contacts(ctx context.Context) ([]entities.Contact, error) {
	var dto []contactDTO
	if err := m.get(ctx, storage.LocalScope, KeyContacts, &dto); err != nil {
		return nil, err
	}

	out := make([]entities.Contact, len(dto))
	for i, v := range dto {
		out[i] = entities.Contact{Name: v.Name, Avatar: v.Avatar}
	}

	return out, nil
}

// SaveContacts ...
func (m *Mirror) SaveContacts(ctx context.Context, contacts []entities.Contact) error {
	dto := make([]contactDTO, len(contacts))
	for i, v := range contacts {
		dto[i] = contactDTO{Name: v.Name, Avatar: v.Avatar}
	}

	return m.set(ctx, storage.LocalScope, KeyContacts, dto)
}

// Comments returns the post id -> comment list mapping.
func (m *Mirror) Comments(ctx context.Context) (map[string][]entities.Comment, error) {
	dto := map[string][]commentDTO{}
	if err := m.get(ctx, storage.LocalScope, KeyLocalComments, &dto); err != nil {
		return nil, err
	}

	out := make(map[string][]entities.Comment, len(dto))
	for id, list := range dto {
		cc := make([]entities.Comment, len(list))
		for i, v := range list {
			cc[i] = entities.Comment{
				ID:     v.ID,
				Text:   v.Text,
				Author: v.Author,
				Avatar: v.Avatar,
				Ts:     v.Ts,
			}
		}
		out[id] = cc
	}

	return out, nil
}

// SaveComments ...
func (m *Mirror) SaveComments(ctx context.Context, comments map[string][]entities.Comment) error {
	dto := make(map[string][]commentDTO, len(comments))
	for id, list := range comments {
		cc := make([]commentDTO, len(list))
		for i, v := range list {
			cc[i] = commentDTO{
				ID:     v.ID,
				Text:   v.Text,
				Author: v.Author,
				Avatar: v.Avatar,
				Ts:     v.Ts,
			}
		}
		dto[id] = cc
	}

	return m.set(ctx, storage.LocalScope, KeyLocalComments, dto)
}

// Conversations returns the contact name -> message list mapping.
func (m *Mirror) Conversations(ctx context.Context) (map[string][]entities.Message, error) {
	dto := map[string][]messageDTO{}
	if err := m.get(ctx, storage.LocalScope, KeyChatMessages, &dto); err != nil {
		return nil, err
	}

	out := make(map[string][]entities.Message, len(dto))
	for name, list := range dto {
		mm := make([]entities.Message, len(list))
		for i, v := range list {
			mm[i] = entities.Message{
				ID:        v.ID,
				From:      v.From,
				Text:      v.Text,
				Timestamp: v.Timestamp,
			}
		}
		out[name] = mm
	}

	return out, nil
}

// SaveConversations ...
func (m *Mirror) SaveConversations(ctx context.Context, conversations map[string][]entities.Message) error {
	dto := make(map[string][]messageDTO, len(conversations))
	for name, list := range conversations {
		mm := make([]messageDTO, len(list))
		for i, v := range list {
			mm[i] = messageDTO{
				ID:        v.ID,
				From:      v.From,
				Text:      v.Text,
				Timestamp: v.Timestamp,
			}
		}
		dto[name] = mm
	}

	return m.set(ctx, storage.LocalScope, KeyChatMessages, dto)
}

// Drafts returns the contact name -> pending input mapping.
func (m *Mirror) Drafts(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if err := m.get(ctx, storage.LocalScope, KeyChatDrafts, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// SaveDrafts ...
func (m *Mirror) SaveDrafts(ctx context.Context, drafts map[string]string) error {
	if drafts == nil {
		drafts = map[string]string{}
	}

	return m.set(ctx, storage.LocalScope, KeyChatDrafts, drafts)
}

// SavedUsername returns the explicit username override.
func (m *Mirror) SavedUsername(ctx context.Context) (string, error) {
	var s string
	if err := m.get(ctx, storage.LocalScope, KeySavedUsername, &s); err != nil {
		return "", err
	}

	return s, nil
}

// SaveUsername ...
func (m *Mirror) SaveUsername(ctx context.Context, username string) error {
	return m.set(ctx, storage.LocalScope, KeySavedUsername, username)
}

// ProfilePicture returns the locally saved avatar override.
func (m *Mirror) ProfilePicture(ctx context.Context) (string, error) {
	var s string
	if err := m.get(ctx, storage.LocalScope, KeyProfilePicture, &s); err != nil {
		return "", err
	}

	return s, nil
}

// SaveProfilePicture ...
func (m *Mirror) SaveProfilePicture(ctx context.Context, url string) error {
	return m.set(ctx, storage.LocalScope, KeyProfilePicture, url)
}

// UserDetails returns the raw persisted details blob.
func (m *Mirror) UserDetails(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := m.get(ctx, storage.LocalScope, KeyUserDetails, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// SaveUserDetails ...
func (m *Mirror) SaveUserDetails(ctx context.Context, raw json.RawMessage) error {
	return m.set(ctx, storage.LocalScope, KeyUserDetails, raw)
}

// UserSession returns the raw session blob captured at login.
func (m *Mirror) UserSession(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := m.get(ctx, storage.SessionScope, KeyUserSession, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// SaveUserSession ...
func (m *Mirror) SaveUserSession(ctx context.Context, raw json.RawMessage) error {
	return m.set(ctx, storage.SessionScope, KeyUserSession, raw)
}

// AccountMeta returns the raw account snapshot captured at signup.
func (m *Mirror) AccountMeta(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := m.get(ctx, storage.SessionScope, KeyAccountMeta, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// SaveAccountMeta ...
func (m *Mirror) SaveAccountMeta(ctx context.Context, raw json.RawMessage) error {
	return m.set(ctx, storage.SessionScope, KeyAccountMeta, raw)
}

// AccessToken returns the explicitly stored bearer token.
func (m *Mirror) AccessToken(ctx context.Context) (string, error) {
	var s string
	if err := m.get(ctx, storage.SessionScope, KeyAccessToken, &s); err != nil {
		return "", err
	}

	return s, nil
}

// SaveAccessToken ...
func (m *Mirror) SaveAccessToken(ctx context.Context, token string) error {
	return m.set(ctx, storage.SessionScope, KeyAccessToken, token)
}

// SignOut drops every session-scoped entry. Local social state stays.
func (m *Mirror) SignOut(ctx context.Context) error {
	if err := m.s.ClearScope(ctx, storage.SessionScope); err != nil {
		return fmt.Errorf("failed to clear session scope: %w", err)
	}

	return nil
}

// Ping ...
func (m *Mirror) Ping(ctx context.Context) error {
	return m.s.Ping(ctx)
}
