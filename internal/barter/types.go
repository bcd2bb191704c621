package barter

import (
	"encoding/json"
)

// LoginRequest ...
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest ...
type SignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Username     string `json:"username,omitempty"`
	DateOfBirth  string `json:"date_of_birth"`
	PrimarySkill string `json:"primary_skill,omitempty"`
	SkillToLearn string `json:"skill_to_learn,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

// Profile ...
type Profile struct {
	ID                string `json:"id"`
	UserID            string `json:"user_id"`
	DateOfBirth       string `json:"date_of_birth"`
	PrimarySkill      string `json:"primary_skill"`
	SkillToLearn      string `json:"skill_to_learn"`
	Bio               string `json:"bio"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	FullName          string `json:"full_name,omitempty"`
}

// AuthResponse is the login/signup reply. Session stays raw: its exact
// shape varies and only the session resolver interprets it.
type AuthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Session  json.RawMessage `json:"session"`
		Profile  *Profile        `json:"profile"`
		Username string          `json:"username"`
		NextStep string          `json:"next_step"`
	} `json:"data"`
}

// ProfileResponse ...
type ProfileResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    *Profile `json:"data"`
}

// UpdateProfileRequest ...
type UpdateProfileRequest struct {
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	PrimarySkill string `json:"primary_skill,omitempty"`
	SkillToLearn string `json:"skill_to_learn,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

// UploadPictureRequest ...
type UploadPictureRequest struct {
	ImageData   string `json:"image_data"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// UploadPictureResponse ...
type UploadPictureResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ProfilePictureURL string `json:"profile_picture_url"`
	} `json:"data"`
}

// SkillsResponse ...
type SkillsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Skills []string `json:"skills"`
		Total  int      `json:"total"`
	} `json:"data"`
}

// Post is a backend post enriched with author display fields. IsOwnPost is
// a pointer: the backend may omit the flag entirely, in which case
// ownership is derived locally.
type Post struct {
	ID                 string `json:"id"`
	UserID             string `json:"user_id"`
	Content            string `json:"content"`
	ImageURL           string `json:"image_url,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
	AuthorName         string `json:"author_name"`
	AuthorAvatar       string `json:"author_avatar,omitempty"`
	AuthorRole         string `json:"author_role"`
	AuthorPrimarySkill string `json:"author_primary_skill,omitempty"`
	IsOwnPost          *bool  `json:"is_own_post,omitempty"`
}

// PostsResponse ...
type PostsResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    []Post `json:"data"`
}

// PostResponse ...
type PostResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    *Post  `json:"data"`
}

// CreatePostRequest ...
type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}
