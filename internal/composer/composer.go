// Package composer merges backend posts, seed posts and local social state
// into one render-ready feed.
package composer

import (
	"context"
	"errors"

	"github.com/barterup/barterupd/internal/barter"
)

//go:generate mockgen -destination=./mock/composer.go -package=mock -source=composer.go

// User-facing errors for local validation and the delete flow.
var (
	// ErrLoginRequired is returned before any network call when no bearer
	// token is stored.
	ErrLoginRequired = errors.New("Kamu harus login dulu untuk hapus post.")
	// ErrBadToken maps a 401 from the backend.
	ErrBadToken = errors.New("Gagal hapus: kamu belum login atau token salah.")
	// ErrDeleteFailed wraps any transport-level delete failure.
	ErrDeleteFailed = errors.New("Terjadi error saat hapus post")
	// ErrDemoData marks a feed composed from seed posts after the backend
	// could not be reached.
	ErrDemoData = errors.New("Gagal memuat posts dari server. Menggunakan data demo.")

	// ErrEmptyComment rejects empty and whitespace-only comment text.
	ErrEmptyComment = errors.New("comment text is empty")
)

// PostsAPI is the backend subset the composer consumes.
type PostsAPI interface {
	Posts(ctx context.Context, token string) ([]barter.Post, error)
	DeletePost(ctx context.Context, token, id string) error
}
