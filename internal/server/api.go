package server

import (
	"time"

	"github.com/barterup/barterupd/internal/entities"
)

// Error ...
// swagger:model
type Error struct {
	Error string `json:"error"`
}

// Post ...
type Post struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Content      string `json:"content"`
	ImageURL     string `json:"image_url,omitempty"`
	AuthorName   string `json:"author_name"`
	AuthorAvatar string `json:"author_avatar"`
	AuthorRole   string `json:"author_role"`
	PrimarySkill string `json:"author_primary_skill,omitempty"`
	IsOwnPost    bool   `json:"is_own_post"`
	CreatedAt    int64  `json:"created_at"`
}

// FeedResponse ...
// swagger:model
type FeedResponse struct {
	Posts []Post `json:"posts"`
	// Ids of posts liked in this mirror.
	Liked []string `json:"liked"`
	// Comment count per post id.
	CommentCounts map[string]int `json:"comment_counts"`
	// Set when the backend was unreachable and the feed degraded to demo
	// posts.
	Warning string `json:"warning,omitempty"`
}

// Comment ...
type Comment struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Avatar string `json:"avatar"`
	Ts     int64  `json:"ts"`
}

// Contact ...
type Contact struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Message ...
type Message struct {
	ID        int64  `json:"id"`
	From      string `json:"from"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Session ...
// swagger:model
type Session struct {
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HasAvatar bool   `json:"has_avatar"`
}

// Stats ...
// swagger:model
type Stats struct {
	LikedCount    int `json:"liked_count"`
	FollowedCount int `json:"followed_count"`
	OwnPostCount  int `json:"own_post_count"`
}

// LikeResponse ...
type LikeResponse struct {
	Liked bool `json:"liked"`
}

// FollowRequest ...
type FollowRequest struct {
	PostID string `json:"post_id"`
}

// FollowResponse ...
type FollowResponse struct {
	Followed bool      `json:"followed"`
	Contacts []Contact `json:"contacts"`
}

// TextRequest carries comment, message and draft bodies.
type TextRequest struct {
	Text string `json:"text"`
}

// DraftResponse ...
type DraftResponse struct {
	Text string `json:"text"`
}

func toAPIPost(p entities.Post) Post {
	return Post{
		ID:           p.ID,
		UserID:       p.UserID,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		AuthorName:   p.AuthorName,
		AuthorAvatar: p.AuthorAvatar,
		AuthorRole:   p.AuthorRole,
		PrimarySkill: p.PrimarySkill,
		IsOwnPost:    p.IsOwnPost,
		CreatedAt:    toUnix(p.CreatedAt),
	}
}

func toUnix(t time.Time) int64 {
	return t.UTC().Unix()
}

func toAPIComment(c entities.Comment) Comment {
	return Comment{
		ID:     c.ID,
		Text:   c.Text,
		Author: c.Author,
		Avatar: c.Avatar,
		Ts:     c.Ts,
	}
}

func toAPIContact(c entities.Contact) Contact {
	return Contact{
		Name:   c.Name,
		Avatar: c.Avatar,
	}
}

func toAPIMessage(m entities.Message) Message {
	return Message{
		ID:        m.ID,
		From:      m.From,
		Text:      m.Text,
		Timestamp: m.Timestamp.UTC().Unix(),
	}
}
