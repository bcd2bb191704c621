package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Decentr-net/go-api"

	"github.com/barterup/barterupd/internal/barter"
)

func (s server) login(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /auth/login Auth Login
	//
	// Authenticate against the backend and store the returned session
	// in the mirror.
	//
	// ---
	// responses:
	//   '200':
	//     description: authenticated
	//   '401':
	//     description: invalid credentials
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '502':
	//     description: backend unreachable
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req barter.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	resp, err := s.backend.Login(r.Context(), req)
	if err != nil {
		writeBackendError(w, err, http.StatusUnauthorized)
		return
	}

	if err := s.storeAuth(r, resp); err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to store session: %s", err.Error())
		return
	}

	api.WriteOK(w, http.StatusOK, resp)
}

func (s server) signup(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /auth/signup Auth Signup
	//
	// Register a new account and store the returned session in the mirror.
	//
	// ---
	// responses:
	//   '201':
	//     description: registered
	//   '400':
	//     description: bad request
	//     schema:
	//       "$ref": "#/definitions/Error"
	//   '502':
	//     description: backend unreachable
	//     schema:
	//       "$ref": "#/definitions/Error"

	var req barter.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	resp, err := s.backend.Signup(r.Context(), req)
	if err != nil {
		writeBackendError(w, err, http.StatusBadRequest)
		return
	}

	if err := s.storeAuth(r, resp); err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to store session: %s", err.Error())
		return
	}

	api.WriteOK(w, http.StatusCreated, resp)
}

// storeAuth persists the session blob and username the way the client keeps
// them, so the resolver can pick them up on the next request.
func (s server) storeAuth(r *http.Request, resp *barter.AuthResponse) error {
	ctx := r.Context()

	if len(resp.Data.Session) > 0 {
		if err := s.mirror.SaveUserSession(ctx, resp.Data.Session); err != nil {
			return err
		}
	}

	if resp.Data.Username != "" {
		if err := s.mirror.SaveUsername(ctx, resp.Data.Username); err != nil {
			return err
		}
	}

	if resp.Data.Profile != nil && resp.Data.Profile.ProfilePictureURL != "" {
		if err := s.mirror.SaveProfilePicture(ctx, resp.Data.Profile.ProfilePictureURL); err != nil {
			return err
		}
	}

	return nil
}

func (s server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	// swagger:operation DELETE /auth/account Auth DeleteAccount
	//
	// Delete the account on the backend and wipe the local session.
	//
	// ---
	// responses:
	//   '204':
	//     description: deleted
	//   '401':
	//     description: not authenticated
	//     schema:
	//       "$ref": "#/definitions/Error"

	token := s.session.Token(r.Context())
	if token == "" {
		api.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := s.backend.DeleteAccount(r.Context(), token); err != nil {
		writeBackendError(w, err, http.StatusUnauthorized)
		return
	}

	if err := s.mirror.SignOut(r.Context()); err != nil {
		api.WriteInternalErrorf(r.Context(), w, "failed to sign out: %s", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) getProfile(w http.ResponseWriter, r *http.Request) {
	token := s.session.Token(r.Context())
	if token == "" {
		api.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	resp, err := s.backend.Profile(r.Context(), token)
	if err != nil {
		writeBackendError(w, err, http.StatusBadGateway)
		return
	}

	api.WriteOK(w, http.StatusOK, resp)
}

func (s server) updateProfile(w http.ResponseWriter, r *http.Request) {
	token := s.session.Token(r.Context())
	if token == "" {
		api.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req barter.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	resp, err := s.backend.UpdateProfile(r.Context(), token, req)
	if err != nil {
		writeBackendError(w, err, http.StatusBadGateway)
		return
	}

	api.WriteOK(w, http.StatusOK, resp)
}

func (s server) uploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	// swagger:operation POST /profile/picture Profile UploadProfilePicture
	//
	// Upload a profile picture and remember its URL locally so the feed
	// can show it without another profile fetch.
	//
	// ---
	// responses:
	//   '200':
	//     description: uploaded
	//   '401':
	//     description: not authenticated
	//     schema:
	//       "$ref": "#/definitions/Error"

	token := s.session.Token(r.Context())
	if token == "" {
		api.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req barter.UploadPictureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "failed to decode json")
		return
	}

	resp, err := s.backend.UploadProfilePicture(r.Context(), token, req)
	if err != nil {
		writeBackendError(w, err, http.StatusBadGateway)
		return
	}

	if resp.Data.ProfilePictureURL != "" {
		if err := s.mirror.SaveProfilePicture(r.Context(), resp.Data.ProfilePictureURL); err != nil {
			api.WriteInternalErrorf(r.Context(), w, "failed to store picture url: %s", err.Error())
			return
		}
	}

	api.WriteOK(w, http.StatusOK, resp)
}

func (s server) skipProfilePicture(w http.ResponseWriter, r *http.Request) {
	token := s.session.Token(r.Context())
	if token == "" {
		api.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := s.backend.SkipProfilePicture(r.Context(), token); err != nil {
		writeBackendError(w, err, http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s server) listSkills(w http.ResponseWriter, r *http.Request) {
	resp, err := s.backend.Skills(r.Context())
	if err != nil {
		writeBackendError(w, err, http.StatusBadGateway)
		return
	}

	api.WriteOK(w, http.StatusOK, resp)
}

// writeBackendError renders a backend client failure. Replies carrying a
// status keep it when it fits, transport failures get the fallback code.
func writeBackendError(w http.ResponseWriter, err error, fallback int) {
	code := http.StatusBadGateway

	var se *barter.StatusError
	if errors.As(err, &se) {
		code = fallback
		if se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden {
			code = http.StatusUnauthorized
		}
	}

	api.WriteError(w, code, barter.TranslateError(err))
}
