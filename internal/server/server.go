// Package server BarterUp
//
// The barterupd daemon keeps the BarterUp client's social state (feed,
// likes, comments, follows, conversations) in a local mirror and exposes
// it to the UI layer.
//
//     Schemes: http
//     BasePath: /v1
//     Version: 1.0.0
//
//     Produces:
//     - application/json
//     Consumes:
//     - application/json
//
// swagger:meta
package server

import (
	"context"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/Decentr-net/go-api"

	"github.com/barterup/barterupd/internal/barter"
	"github.com/barterup/barterupd/internal/chat"
	"github.com/barterup/barterupd/internal/entities"
	"github.com/barterup/barterupd/internal/ledger"
	"github.com/barterup/barterupd/internal/mirror"
	mm "github.com/barterup/barterupd/internal/middleware"
	"github.com/barterup/barterupd/internal/session"
)

//go:generate swagger generate spec -t swagger -m -c . -o ../../static/swagger.json

const maxBodySize = 64 * 1024

const statsCacheTTL = 10 * time.Second

// Backend is the remote BarterUp API subset proxied for the UI.
type Backend interface {
	Login(ctx context.Context, req barter.LoginRequest) (*barter.AuthResponse, error)
	Signup(ctx context.Context, req barter.SignupRequest) (*barter.AuthResponse, error)
	Profile(ctx context.Context, token string) (*barter.ProfileResponse, error)
	UpdateProfile(ctx context.Context, token string, req barter.UpdateProfileRequest) (*barter.ProfileResponse, error)
	UploadProfilePicture(ctx context.Context, token string, req barter.UploadPictureRequest) (*barter.UploadPictureResponse, error)
	SkipProfilePicture(ctx context.Context, token string) error
	Skills(ctx context.Context) (*barter.SkillsResponse, error)
	CreatePost(ctx context.Context, token string, req barter.CreatePostRequest) (*barter.PostResponse, error)
	DeleteAccount(ctx context.Context, token string) error
}

// Composer is the feed side of the core.
type Composer interface {
	Feed(ctx context.Context) ([]entities.Post, error)
	Refresh(ctx context.Context) ([]entities.Post, error)
	ToggleLike(ctx context.Context, postID string) (bool, error)
	AddComment(ctx context.Context, postID, text string) (*entities.Comment, error)
	DeletePost(ctx context.Context, postID string) error
}

type server struct {
	composer Composer
	ledger   *ledger.Ledger
	chat     *chat.Store
	session  *session.Resolver
	mirror   *mirror.Mirror
	backend  Backend
}

// Deps collects everything the router serves.
type Deps struct {
	Composer Composer
	Ledger   *ledger.Ledger
	Chat     *chat.Store
	Session  *session.Resolver
	Mirror   *mirror.Mirror
	Backend  Backend
}

// SetupRouter setups handlers to chi router.
func SetupRouter(d Deps, r chi.Router, timeout time.Duration) {
	r.Use(
		api.LoggerMiddleware,
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		api.RequestIDMiddleware,
		api.RecovererMiddleware,
		api.TimeoutMiddleware(timeout),
		api.BodyLimiterMiddleware(maxBodySize),
	)

	srv := server{
		composer: d.Composer,
		ledger:   d.Ledger,
		chat:     d.Chat,
		session:  d.Session,
		mirror:   d.Mirror,
		backend:  d.Backend,
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", srv.login)
		r.Post("/auth/signup", srv.signup)
		r.Delete("/auth/account", srv.deleteAccount)

		r.Get("/session", srv.getSession)
		r.Delete("/session", srv.signOut)

		r.Get("/profile", srv.getProfile)
		r.Put("/profile", srv.updateProfile)
		r.Post("/profile/picture", srv.uploadProfilePicture)
		r.Post("/profile/picture/skip", srv.skipProfilePicture)

		r.Get("/skills", srv.listSkills)

		r.Get("/feed", srv.getFeed)
		r.Post("/feed/refresh", srv.refreshFeed)
		r.Get("/stats", mm.Cached(statsCacheTTL, srv.getStats))

		r.Post("/posts", srv.createPost)
		r.Delete("/posts/{id}", srv.deletePost)
		r.Post("/posts/{id}/like", srv.toggleLike)
		r.Get("/posts/{id}/comments", srv.listComments)
		r.Post("/posts/{id}/comments", srv.addComment)

		r.Post("/follow", srv.toggleFollow)
		r.Get("/contacts", srv.listContacts)

		r.Delete("/conversations", srv.clearAllConversations)
		r.Get("/conversations/{name}/messages", srv.listMessages)
		r.Post("/conversations/{name}/messages", srv.sendMessage)
		r.Get("/conversations/{name}/draft", srv.getDraft)
		r.Put("/conversations/{name}/draft", srv.putDraft)
		r.Delete("/conversations/{name}", srv.clearConversation)
		r.Delete("/conversations/{name}/own", srv.clearOwnMessages)
	})
}
