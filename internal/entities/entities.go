// Package entities contains main entities of service.
package entities

import (
	"time"
)

// Session is the canonical view of the signed-in user, normalized from the
// various shapes the login flow leaves in the mirror.
type Session struct {
	UserID    string
	Username  string
	AvatarURL string
	HasAvatar bool
}

// Post is a render-ready post: a backend or seed post with authorship and
// avatar already resolved.
type Post struct {
	ID           string
	UserID       string
	Content      string
	ImageURL     string
	AuthorName   string
	AuthorAvatar string
	AuthorRole   string
	PrimarySkill string
	IsOwnPost    bool
	CreatedAt    time.Time
}

// Comment ...
type Comment struct {
	ID     string
	Text   string
	Author string
	Avatar string
	Ts     int64
}

// Contact is a followed author shown in the messaging sidebar.
type Contact struct {
	Name   string
	Avatar string
}

// Message sides.
const (
	FromMe   = "me"
	FromThem = "them"
)

// Message ...
type Message struct {
	ID        int64
	From      string
	Text      string
	Timestamp time.Time
}

// Profile is the backend profile record.
type Profile struct {
	ID                string
	UserID            string
	DateOfBirth       string
	PrimarySkill      string
	SkillToLearn      string
	Bio               string
	ProfilePictureURL string
	FullName          string
}
