// Package ledger keeps the followed-authors set and the derived contact
// list. It is the single mutation path for both; the feed and the
// messaging views consume its snapshots.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/barterup/barterupd/internal/avatar"
	"github.com/barterup/barterupd/internal/entities"
	"github.com/barterup/barterupd/internal/mirror"
)

// Ledger is an explicit store instance: no package-level state, one per
// application.
type Ledger struct {
	m *mirror.Mirror

	mu       sync.Mutex
	followed map[string]struct{}
	contacts []entities.Contact
}

// New creates a Ledger primed with the persisted followed set and contact
// list.
func New(ctx context.Context, m *mirror.Mirror) (*Ledger, error) {
	followed, err := m.FollowedUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load followed users: %w", err)
	}

	contacts, err := m.Contacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	return &Ledger{
		m:        m,
		followed: lo.SliceToMap(followed, func(n string) (string, struct{}) { return n, struct{}{} }),
		contacts: contacts,
	}, nil
}

// Toggle follows or unfollows the post's author. Own posts are a no-op.
// On follow a contact is prepended unless one with the same name exists;
// on unfollow every contact with that name is removed. Both the followed
// set and the contact list are persisted on every effective toggle.
func (l *Ledger) Toggle(ctx context.Context, post entities.Post) (bool, error) {
	if post.IsOwnPost {
		return false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	name := post.AuthorName

	if _, ok := l.followed[name]; ok {
		delete(l.followed, name)
		l.contacts = lo.Filter(l.contacts, func(c entities.Contact, _ int) bool {
			return c.Name != name
		})
	} else {
		l.followed[name] = struct{}{}
		if !lo.ContainsBy(l.contacts, func(c entities.Contact) bool { return c.Name == name }) {
			l.contacts = append([]entities.Contact{{
				Name:   name,
				Avatar: avatar.Ensure(post.AuthorAvatar),
			}}, l.contacts...)
		}
	}

	if err := l.persist(ctx); err != nil {
		return false, err
	}

	_, following := l.followed[name]

	return following, nil
}

func (l *Ledger) persist(ctx context.Context) error {
	if err := l.m.SaveFollowedUsers(ctx, lo.Keys(l.followed)); err != nil {
		return fmt.Errorf("failed to persist followed users: %w", err)
	}

	if err := l.m.SaveContacts(ctx, l.contacts); err != nil {
		return fmt.Errorf("failed to persist contacts: %w", err)
	}

	return nil
}

// Followed reports whether the author is currently followed.
func (l *Ledger) Followed(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.followed[name]

	return ok
}

// FollowedCount ...
func (l *Ledger) FollowedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.followed)
}

// Contacts returns a snapshot of the contact list, most recently followed
// first.
func (l *Ledger) Contacts() []entities.Contact {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]entities.Contact, len(l.contacts))
	copy(out, l.contacts)

	return out
}
