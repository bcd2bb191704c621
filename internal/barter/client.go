// Package barter is a client for the remote BarterUp backend: auth,
// profiles and post storage live there, everything else is local.
package barter

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"
)

// Client ...
type Client struct {
	c    *resty.Client
	base string
}

// NewClient creates new instance of Client.
func NewClient(base string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		c:    c,
		base: base,
	}
}

// Close ...
func (c *Client) Close() error {
	return c.c.Close()
}

// BaseURL returns the backend base URL, used to absolutize relative media
// paths the backend returns.
func (c *Client) BaseURL() string {
	return c.base
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.c.R().WithContext(ctx)
}

// StatusError is a non-2xx backend reply.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend replied %d: %s", e.Code, e.Body)
}

func statusErr(res *resty.Response) error {
	if res.IsSuccess() {
		return nil
	}

	return &StatusError{
		Code: res.StatusCode(),
		Body: res.String(),
	}
}

// Login ...
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	res, err := c.r(ctx).
		SetBody(req).
		SetResult(&AuthResponse{}).
		Post("/auth/login")

	if err != nil {
		return nil, err
	}
	if err := statusErr(res); err != nil {
		return nil, err
	}

	return res.Result().(*AuthResponse), nil
}

// Signup performs the unified signup: account plus profile in one call.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	res, err := c.r(ctx).
		SetBody(req).
		SetResult(&AuthResponse{}).
		Post("/auth/signup")

	if err != nil {
		return nil, err
	}
	if err := statusErr(res); err != nil {
		return nil, err
	}

	return res.Result().(*AuthResponse), nil
}

// Profile ...
func (c *Client) Profile(ctx context.Context, token string) (*ProfileResponse, error) {
	res, err := c.r(ctx).
		SetAuthToken(token).
		SetResult(&ProfileResponse{}).
		Get("/api/profile")

	if err != nil {
		return nil, err
	}
	if err := statusErr(res); err != nil {
		return nil, err
	}

	return res.Result().(*ProfileResponse), nil
}

// UpdateProfile ...
func (c *Client) UpdateProfile(ctx context.Context, token string, req UpdateProfileRequest) (*ProfileResponse, error) {
	res, err := c.r(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&ProfileResponse{}).
		Put("/api/profile")

	if err != nil {
		return nil, err
	}
	if err := statusErr(res); err != nil {
		return nil, err
	}

	return res.Result().(*ProfileResponse), nil
}

// UploadProfilePicture ...
func (c *Client) UploadProfilePicture(ctx context.Context, token string, req UploadPictureRequest) (*UploadPictureResponse, error) {
	res, err := c.r(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&UploadPictureResponse{}).
		Post("/api/profile-picture/upload")

	if err != nil {
		return nil, err
	}
	if err := statusErr(res); err != nil {
		return nil, err
	}

	return res.Result().(*UploadPictureResponse), nil
}

// SkipProfilePicture ...
func (c *Client) SkipProfilePicture(ctx context.Context, token string) error {
	res, err := c.r(ctx).
		SetAuthToken(token).
		Post("/api/profile-picture/skip")

	if err != nil {
		return err
	}

	return statusErr(res)
}

// Skills ...
func (c *Client) Skills(ctx context.Context) (*SkillsResponse, error) {
	res, err := c.r(ctx).
		SetResult(&SkillsResponse{}).
		Get("/api/skills")

	if err != nil {
		return nil, err
	}
	if err := statusErr(res); err != nil {
		return nil, err
	}

	return res.Result().(*SkillsResponse), nil
}

// Posts lists backend posts enriched with author display fields. The token
// is optional: without it the backend omits ownership flags.
func (c *Client) Posts(ctx context.Context, token string) ([]Post, error) {
	req := c.r(ctx).SetResult(&PostsResponse{})
	if token != "" {
		req.SetAuthToken(token)
	}

	res, err := req.Get("/api/posts")
	if err != nil {
		return nil, err
	}
	if err := statusErr(res); err != nil {
		return nil, err
	}

	return res.Result().(*PostsResponse).Data, nil
}

// CreatePost ...
func (c *Client) CreatePost(ctx context.Context, token string, req CreatePostRequest) (*PostResponse, error) {
	res, err := c.r(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&PostResponse{}).
		Post("/api/posts")

	if err != nil {
		return nil, err
	}
	if err := statusErr(res); err != nil {
		return nil, err
	}

	return res.Result().(*PostResponse), nil
}

// DeletePost ...
func (c *Client) DeletePost(ctx context.Context, token, id string) error {
	res, err := c.r(ctx).
		SetAuthToken(token).
		Delete("/api/posts/" + id)

	if err != nil {
		return err
	}

	return statusErr(res)
}

// DeleteAccount ...
func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	res, err := c.r(ctx).
		SetAuthToken(token).
		Delete("/auth/account")

	if err != nil {
		return err
	}

	return statusErr(res)
}
