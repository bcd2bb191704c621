// Package chat is the conversation store: per-contact message lists and
// drafts, persisted in the mirror.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/barterup/barterupd/internal/entities"
	"github.com/barterup/barterupd/internal/mirror"
)

// ErrEmptyMessage rejects empty and whitespace-only message text.
var ErrEmptyMessage = errors.New("message text is empty")

// Store ...
type Store struct {
	m *mirror.Mirror
}

// New creates new instance of Store.
func New(m *mirror.Mirror) *Store {
	return &Store{
		m: m,
	}
}

// seedConversation is the synthetic history shown for a contact without
// prior messages. It is not persisted until the first send touches the
// conversation.
func seedConversation(name string) []entities.Message {
	now := time.Now()

	return []entities.Message{
		{
			ID:        1,
			From:      entities.FromThem,
			Text:      fmt.Sprintf("Hi! I'm %s. I saw your post about skill sharing and I'm really interested! 🚀", name),
			Timestamp: now.Add(-5 * time.Minute),
		},
		{
			ID:        2,
			From:      entities.FromThem,
			Text:      "Would you be interested in exchanging some skills? I can teach you some photography techniques in exchange for web development tips!",
			Timestamp: now.Add(-4 * time.Minute),
		},
	}
}

// Messages returns the contact's history, seeding a fresh two-message
// conversation lazily when none is stored.
func (s *Store) Messages(ctx context.Context, contact string) ([]entities.Message, error) {
	conversations, err := s.m.Conversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversations: %w", err)
	}

	if list, ok := conversations[contact]; ok {
		return list, nil
	}

	return seedConversation(contact), nil
}

// Send appends an outgoing message, persists the conversation mapping and
// clears the contact's draft.
func (s *Store) Send(ctx context.Context, contact, text string) (*entities.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	conversations, err := s.m.Conversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversations: %w", err)
	}

	list, ok := conversations[contact]
	if !ok {
		// First user action materializes the seeded prefix.
		list = seedConversation(contact)
	}

	now := time.Now()
	msg := entities.Message{
		ID:        now.UnixMilli(),
		From:      entities.FromMe,
		Text:      text,
		Timestamp: now,
	}

	conversations[contact] = append(list, msg)

	if err := s.m.SaveConversations(ctx, conversations); err != nil {
		return nil, fmt.Errorf("failed to persist conversations: %w", err)
	}

	if err := s.clearDraft(ctx, contact); err != nil {
		return nil, err
	}

	return &msg, nil
}

// Draft returns the contact's pending input text.
func (s *Store) Draft(ctx context.Context, contact string) (string, error) {
	drafts, err := s.m.Drafts(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read drafts: %w", err)
	}

	return drafts[contact], nil
}

// SetDraft overwrites the contact's pending input text.
func (s *Store) SetDraft(ctx context.Context, contact, text string) error {
	drafts, err := s.m.Drafts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read drafts: %w", err)
	}

	drafts[contact] = text

	if err := s.m.SaveDrafts(ctx, drafts); err != nil {
		return fmt.Errorf("failed to persist drafts: %w", err)
	}

	return nil
}

func (s *Store) clearDraft(ctx context.Context, contact string) error {
	drafts, err := s.m.Drafts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read drafts: %w", err)
	}

	drafts[contact] = ""

	if err := s.m.SaveDrafts(ctx, drafts); err != nil {
		return fmt.Errorf("failed to persist drafts: %w", err)
	}

	return nil
}

// ClearConversation drops the contact's full history.
func (s *Store) ClearConversation(ctx context.Context, contact string) error {
	conversations, err := s.m.Conversations(ctx)
	if err != nil {
		return fmt.Errorf("failed to read conversations: %w", err)
	}

	delete(conversations, contact)

	if err := s.m.SaveConversations(ctx, conversations); err != nil {
		return fmt.Errorf("failed to persist conversations: %w", err)
	}

	return nil
}

// ClearOwnMessages drops only outgoing messages from the contact's history.
func (s *Store) ClearOwnMessages(ctx context.Context, contact string) error {
	conversations, err := s.m.Conversations(ctx)
	if err != nil {
		return fmt.Errorf("failed to read conversations: %w", err)
	}

	list := conversations[contact]
	kept := make([]entities.Message, 0, len(list))
	for _, msg := range list {
		if msg.From != entities.FromMe {
			kept = append(kept, msg)
		}
	}
	conversations[contact] = kept

	if err := s.m.SaveConversations(ctx, conversations); err != nil {
		return fmt.Errorf("failed to persist conversations: %w", err)
	}

	return nil
}

// ClearAll drops every conversation and every draft.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.m.SaveConversations(ctx, map[string][]entities.Message{}); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}

	if err := s.m.SaveDrafts(ctx, map[string]string{}); err != nil {
		return fmt.Errorf("failed to clear drafts: %w", err)
	}

	return nil
}
