// Package storage contains a storage interface.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

//go:generate mockgen -destination=./mock/storage.go -package=mock -source=storage.go

// ErrNotFound ...
var ErrNotFound = fmt.Errorf("not found")

// Scope determines an entry's lifetime. Local entries survive sign-out,
// session entries are dropped with it.
type Scope string

// Scopes.
const (
	LocalScope   Scope = "local"
	SessionScope Scope = "session"
)

// Storage mirrors the browser's local/session storage areas: JSON values
// under logical keys, grouped by scope.
//
// There is no locking between concurrent writers; the last write wins. The
// service assumes a single client per mirror.
type Storage interface {
	Ping(ctx context.Context) error

	Get(ctx context.Context, scope Scope, key string) (json.RawMessage, error)
	Set(ctx context.Context, scope Scope, key string, value json.RawMessage) error
	Delete(ctx context.Context, scope Scope, key string) error
	ClearScope(ctx context.Context, scope Scope) error
}
