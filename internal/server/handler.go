package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/Decentr-net/go-api"

	"github.com/barterup/barterupd/internal/barter"
	"github.com/barterup/barterupd/internal/chat"
	"github.com/barterup/barterupd/internal/composer"
	"github.com/barterup/barterupd/internal/entities"
)

func (s server) getFeed(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /feed Feed GetFeed
	//
	// Return the composed feed with per-post like and comment state.
	//
	// ---
	// produces:
	// - application/json
	// responses:
	//   '200':
	//     description: Feed
	//     schema:
	//       "$ref": "#/definitions/FeedResponse"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	posts, err := s.composer.Feed(r.Context())
	s.writeFeed(w, r, posts, err)
}

func (s server) refreshFeed(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /feed/refresh Feed RefreshFeed
	//
	// Refetch backend posts and recompose the feed.
	//
	// ---
	// responses:
	//   '200':
	//     description: Feed
	//     schema:
	//       "$ref": "#/definitions/FeedResponse"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	posts, err := s.composer.Refresh(r.Context())
	s.writeFeed(w, r, posts, err)
}

// writeFeed decorates composed posts with like/comment state. ErrDemoData
// degrades to a warning, any other error is internal.
func (s server) writeFeed(w http.ResponseWriter, r *http.Request, posts []entities.Post, err error) {
	warning := ""
	if err != nil {
		if !errors.Is(err, composer.ErrDemoData) {
			api.WriteInternalErrorf(r.Context(), w, "failed to compose feed: %s", err.Error())
			return
		}
		warning = err.Error()
	}

	liked, err := s.mirror.LikedPosts(r.Context())
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to get likes: %s", err.Error())
		return
	}

	comments, err := s.mirror.Comments(r.Context())
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to get comments: %s", err.Error())
		return
	}

	resp := FeedResponse{
		Posts:         make([]Post, 0, len(posts)),
		Liked:         make([]string, 0, len(liked)),
		CommentCounts: make(map[string]int, len(comments)),
		Warning:       warning,
	}

	for _, p := range posts {
		resp.Posts = append(resp.Posts, toAPIPost(p))
	}
	for id := range liked {
		resp.Liked = append(resp.Liked, id)
	}
	for id, list := range comments {
		resp.CommentCounts[id] = len(list)
	}

	api.WriteOK(w, http.StatusOK, resp)
}

func (s server) getStats(w http.ResponseWriter, r *http.Request) {
	// swagger:operation GET /stats Feed GetStats
	//
	// Return the dashboard counters.
	//
	// ---
	// responses:
	//   '200':
	//     description: Stats
	//     schema:
	//       "$ref": "#/definitions/Stats"
	//   '500':
	//     description: internal server error
	//     schema:
	//       "$ref": "#/definitions/Error"

	liked, err := s.mirror.LikedPosts(r.Context())
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to get likes: %s", err.Error())
		return
	}

	posts, err := s.mirror.CachedPosts(r.Context())
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to get cached posts: %s", err.Error())
		return
	}

	own := 0
	for _, p := range posts {
		if p.IsOwnPost {
			own++
		}
	}

	api.WriteOK(w, http.StatusOK, Stats{
		LikedCount:    len(liked),
		FollowedCount: s.ledger.FollowedCount(),
		OwnPostCount:  own,
	})
}

func (s server) toggleLike(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/{id}/like Posts ToggleLike
	//
	// Flip the like state of a post. Purely local, no backend call.
	//
	// ---
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '200':
	//     description: new like state
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	liked, err := s.composer.ToggleLike(r.Context(), id)
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to toggle like: %s", err.Error())
		return
	}

	api.WriteOK(w, http.StatusOK, LikeResponse{Liked: liked})
}

func (s server) listComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	comments, err := s.mirror.Comments(r.Context())
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to get comments: %s", err.Error())
		return
	}

	out := make([]Comment, 0, len(comments[id]))
	for _, c := range comments[id] {
		out = append(out, toAPIComment(c))
	}

	api.WriteOK(w, http.StatusOK, out)
}

func (s server) addComment(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /posts/{id}/comments Posts AddComment
	//
	// Append a comment authored by the current user. Empty text is
	// rejected without a storage write.
	//
	// ---
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '201':
	//     description: created comment
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	c, err := s.composer.AddComment(r.Context(), id, req.Text)
	if err != nil {
		if errors.Is(err, composer.ErrEmptyComment) {
			api.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		api.WriteInternalErrorf(r.Context(), w, "failed to add comment: %s", err.Error())
		return
	}

	api.WriteOK(w, http.StatusCreated, toAPIComment(*c))
}

func (s server) deletePost(w http.ResponseWriter, r *http.Request) {
	// swagger:operation DELETE /posts/{id} Posts DeletePost
	//
	// Delete an own post on the backend and drop it from the cached feed.
	//
	// ---
	// parameters:
	// - name: id
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '204':
	//     description: deleted
	//   '401':
	//     description: not authenticated
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '502':
	//     description: backend refused the delete
	//     schema:
	//       "$ref": "#/definitions/Error"

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := s.composer.DeletePost(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, composer.ErrLoginRequired), errors.Is(err, composer.ErrBadToken):
			api.WriteError(w, http.StatusUnauthorized, err.Error())
		default:
			api.WriteError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) createPost(w http.ResponseWriter, r *http.Request) {
	token := s.session.Token(r.Context())
	if token == "" {
		api.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req barter.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	resp, err := s.backend.CreatePost(r.Context(), token, req)
	if err != nil {
		api.WriteError(w, http.StatusBadGateway, barter.TranslateError(err))
		return
	}

	api.WriteOK(w, http.StatusCreated, resp)
}

func (s server) toggleFollow(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /follow Contacts ToggleFollow
	//
	// Follow or unfollow the author of a post. Own posts are a no-op.
	//
	// ---
	// responses:
	//   '200':
	//     description: new follow state and contact snapshot
	//     schema:
	//       "$ref": "#/definitions/FollowResponse"
	//   '404':
	//     description: post is not in the composed feed
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	posts, err := s.mirror.CachedPosts(r.Context())
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to get cached posts: %s", err.Error())
		return
	}

	var post *entities.Post
	for i := range posts {
		if posts[i].ID == req.PostID {
			post = &posts[i]
			break
		}
	}

	if post == nil {
		api.WriteError(w, http.StatusNotFound, "post not found")
		return
	}

	followed, err := s.ledger.Toggle(r.Context(), *post)
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to toggle follow: %s", err.Error())
		return
	}

	api.WriteOK(w, http.StatusOK, FollowResponse{
		Followed: followed,
		Contacts: toAPIContacts(s.ledger.Contacts()),
	})
}

func (s server) listContacts(w http.ResponseWriter, r *http.Request) {
	api.WriteOK(w, http.StatusOK, toAPIContacts(s.ledger.Contacts()))
}

func (s server) listMessages(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid contact name")
		return
	}

	messages, err := s.chat.Messages(r.Context(), name)
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to get messages: %s", err.Error())
		return
	}

	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, toAPIMessage(m))
	}

	api.WriteOK(w, http.StatusOK, out)
}

func (s server) sendMessage(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /conversations/{name}/messages Chat SendMessage
	//
	// Append an outgoing message and clear the contact's draft.
	//
	// ---
	// parameters:
	// - name: name
	//   in: path
	//   required: true
	//   type: string
	// responses:
	//   '201':
	//     description: sent message
	//   '400':
	//     description: empty text
	//     schema:
	//       "$ref": "#/definitions/Error"

	name := chi.URLParam(r, "name")
	if name == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid contact name")
		return
	}

	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	msg, err := s.chat.Send(r.Context(), name, req.Text)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			api.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		api.WriteInternalErrorf(r.Context(), w, "failed to send message: %s", err.Error())
		return
	}

	api.WriteOK(w, http.StatusCreated, toAPIMessage(*msg))
}

func (s server) getDraft(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid contact name")
		return
	}

	text, err := s.chat.Draft(r.Context(), name)
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to get draft: %s", err.Error())
		return
	}

	api.WriteOK(w, http.StatusOK, DraftResponse{Text: text})
}

func (s server) putDraft(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid contact name")
		return
	}

	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	if err := s.chat.SetDraft(r.Context(), name, req.Text); err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to set draft: %s", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) clearConversation(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid contact name")
		return
	}

	if err := s.chat.ClearConversation(r.Context(), name); err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to clear conversation: %s", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) clearOwnMessages(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		api.WriteError(w, http.StatusBadRequest, "invalid contact name")
		return
	}

	if err := s.chat.ClearOwnMessages(r.Context(), name); err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to clear own messages: %s", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) clearAllConversations(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.ClearAll(r.Context()); err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to clear conversations: %s", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session.Resolve(r.Context())
	if err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to resolve session: %s", err.Error())
		return
	}

	api.WriteOK(w, http.StatusOK, Session{
		UserID:    sess.UserID,
		Username:  sess.Username,
		AvatarURL: sess.AvatarURL,
		HasAvatar: sess.HasAvatar,
	})
}

func (s server) signOut(w http.ResponseWriter, r *http.Request) {
	if err := s.mirror.SignOut(r.Context()); err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to sign out: %s", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toAPIContacts(contacts []entities.Contact) []Contact {
	out := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toAPIContact(c))
	}

	return out
}
